package mock

import "github.com/fwojciec/websift"

var _ websift.IdentityProvider = (*IdentityProvider)(nil)

// IdentityProvider is a mock implementation of websift.IdentityProvider.
type IdentityProvider struct {
	IdentityFn func() *websift.Identity
}

func (p *IdentityProvider) Identity() *websift.Identity {
	return p.IdentityFn()
}

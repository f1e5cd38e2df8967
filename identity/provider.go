// Package identity draws randomized outbound identities: a user agent, the
// header set that user agent's browser would send, and an optional proxy.
package identity

import (
	"math/rand/v2"

	"github.com/fwojciec/websift"
)

// Ensure Provider implements websift.IdentityProvider at compile time.
var _ websift.IdentityProvider = (*Provider)(nil)

// Provider draws identities from fixed user agent and proxy pools.
// The pools are never modified after construction, so Provider is safe for
// concurrent use by multiple goroutines.
type Provider struct {
	userAgents []string
	proxies    []string
	intN       func(n int) int
}

// Option configures a Provider.
type Option func(*Provider)

// WithUserAgents replaces the default user agent pool.
func WithUserAgents(agents []string) Option {
	return func(p *Provider) {
		p.userAgents = agents
	}
}

// WithProxies sets the proxy pool. An empty pool means direct connections.
func WithProxies(proxies []string) Option {
	return func(p *Provider) {
		p.proxies = proxies
	}
}

// WithIntN sets the random source. The function must be safe for
// concurrent use and return a value in [0, n).
func WithIntN(fn func(n int) int) Option {
	return func(p *Provider) {
		p.intN = fn
	}
}

// NewProvider creates a new Provider.
func NewProvider(opts ...Option) *Provider {
	p := &Provider{
		userAgents: DefaultUserAgents,
		intN:       rand.IntN,
	}
	for _, opt := range opts {
		opt(p)
	}

	p.userAgents = append([]string(nil), p.userAgents...)
	p.proxies = append([]string(nil), p.proxies...)
	if len(p.userAgents) == 0 {
		p.userAgents = DefaultUserAgents
	}

	return p
}

// Identity draws a new identity. Every call samples the user agent and proxy
// independently of previous calls.
func (p *Provider) Identity() *websift.Identity {
	ua := p.userAgents[p.intN(len(p.userAgents))]

	id := &websift.Identity{
		UserAgent: ua,
		Headers:   Headers(ua),
	}
	if len(p.proxies) > 0 {
		id.Proxy = p.proxies[p.intN(len(p.proxies))]
	}
	return id
}

// Proxies returns the number of proxies in the pool.
func (p *Provider) Proxies() int {
	return len(p.proxies)
}

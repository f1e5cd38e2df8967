package crawl

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/fwojciec/websift"
	"golang.org/x/time/rate"
)

var _ websift.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter spaces out requests to the same host. Search results often
// contain several pages of one site; those are fetched at most rps times a
// second while other hosts are unaffected. The zero rps limiter never
// blocks.
type DomainLimiter struct {
	rps float64

	mu    sync.Mutex
	hosts map[string]*rate.Limiter
}

// NewDomainLimiter returns a limiter allowing rps requests per second per
// host, one at a time.
func NewDomainLimiter(rps float64) *DomainLimiter {
	return &DomainLimiter{rps: rps, hosts: map[string]*rate.Limiter{}}
}

// Wait blocks until host may be fetched again or ctx is done. Host names
// are compared case-insensitively.
func (d *DomainLimiter) Wait(ctx context.Context, host string) error {
	if d.rps <= 0 {
		return ctx.Err()
	}
	return d.limiter(strings.ToLower(host)).Wait(ctx)
}

func (d *DomainLimiter) limiter(host string) *rate.Limiter {
	d.mu.Lock()
	defer d.mu.Unlock()

	l, ok := d.hosts[host]
	if !ok {
		l = rate.NewLimiter(rate.Limit(d.rps), 1)
		d.hosts[host] = l
	}
	return l
}

// Host returns the key DomainLimiter uses for rawURL: its host, or rawURL
// itself when it has none.
func Host(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Host
}

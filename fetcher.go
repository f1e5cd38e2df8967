package websift

import "context"

// Fetcher retrieves the markup of a single URL.
//
// A failed fetch returns an *Error whose code classifies the failure
// (ETIMEOUT, EREQUEST or EUNEXPECTED) and whose message is the reason
// reported for the URL.
type Fetcher interface {
	// Fetch retrieves the markup at url. Timeouts and retries are owned
	// by the implementation; the context only cancels.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases any resources held by the fetcher.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}

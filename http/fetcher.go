// Package http provides the fast tier of websift.Fetcher: a plain HTTP GET
// sent with a browser-like identity. It does not execute JavaScript.
package http

import (
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/fwojciec/websift"
)

// DefaultFetchTimeout is the default timeout for a single attempt.
const DefaultFetchTimeout = 10 * time.Second

// DefaultRetries is the default number of attempts per fetch.
const DefaultRetries = 2

// maxBodySize caps the decoded response body.
const maxBodySize = 10 << 20

// Ensure Fetcher implements websift.Fetcher at compile time.
var _ websift.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML content from URLs using HTTP requests.
// Every attempt draws a fresh identity and proxy and builds its own
// transport, so attempts share no connection state.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	identities websift.IdentityProvider
	timeout    time.Duration
	retries    int
	rootCAs    *x509.CertPool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for each attempt.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithRetries sets the number of attempts made before a fetch fails.
// Defaults to DefaultRetries (2) if not specified.
func WithRetries(n int) Option {
	return func(f *Fetcher) {
		f.retries = n
	}
}

// WithRootCAs sets the certificate authorities trusted for HTTPS. Nil
// means the system pool.
func WithRootCAs(pool *x509.CertPool) Option {
	return func(f *Fetcher) {
		f.rootCAs = pool
	}
}

// NewFetcher creates a new HTTP-based Fetcher drawing identities from the
// given provider.
func NewFetcher(identities websift.IdentityProvider, opts ...Option) *Fetcher {
	f := &Fetcher{
		identities: identities,
		timeout:    DefaultFetchTimeout,
		retries:    DefaultRetries,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.retries < 1 {
		f.retries = 1
	}

	return f
}

// Fetch retrieves the HTML content from the given URL. Failed attempts are
// retried immediately; only the last attempt's error is returned.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < f.retries; attempt++ {
		html, err := f.fetch(ctx, url)
		if err == nil {
			return html, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			break
		}
	}

	return "", classify(lastErr)
}

// fetch performs a single attempt.
func (f *Fetcher) fetch(ctx context.Context, url string) (string, error) {
	id := f.identities.Identity()

	transport, err := newTransport(id, f.rootCAs)
	if err != nil {
		return "", err
	}
	defer transport.CloseIdleConnections()

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	for name, value := range id.Headers {
		req.Header.Set(name, value)
	}

	client := &http.Client{Transport: transport}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("HTTP %s for url: %s", resp.Status, url)
	}

	body, err := readBody(resp)
	if err != nil {
		return "", err
	}

	return string(body), nil
}

// Close releases resources. Transports are closed after every attempt, so
// this is a no-op.
func (f *Fetcher) Close() error {
	return nil
}

// classify converts an attempt error into a websift error.
func classify(err error) error {
	if isTimeout(err) {
		return websift.Errorf(websift.ETIMEOUT, "Timeout")
	}
	return websift.Errorf(websift.EREQUEST, "Request failed: %v", err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

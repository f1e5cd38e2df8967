package websift

// Identity is the outbound fingerprint used for one fetch attempt.
type Identity struct {
	// UserAgent is also present in Headers under "User-Agent".
	UserAgent string

	// Headers are sent with the request, keyed by header name.
	Headers map[string]string

	// Proxy is the proxy URL to route through, or empty for a direct connection.
	Proxy string
}

// IdentityProvider draws a fresh Identity for every fetch attempt.
// Implementations must be safe for concurrent use.
type IdentityProvider interface {
	Identity() *Identity
}

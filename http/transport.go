package http

import (
	"context"
	"crypto/x509"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/websift"
	"github.com/fwojciec/websift/identity"
	tls "github.com/refraction-networking/utls"
	"golang.org/x/net/proxy"
)

const dialTimeout = 10 * time.Second

// newTransport builds a single-use transport for the identity. TLS
// connections present a ClientHello matching the user agent's browser
// family and verify against roots, or the system pool when roots is nil.
// HTTP proxies are used through CONNECT; SOCKS5 proxies carry the
// fingerprinted TLS connection end to end.
func newTransport(id *websift.Identity, roots *x509.CertPool) (*http.Transport, error) {
	var dialer proxy.ContextDialer = &net.Dialer{Timeout: dialTimeout}

	t := &http.Transport{
		ForceAttemptHTTP2:   false,
		DisableCompression:  true,
		TLSHandshakeTimeout: dialTimeout,
	}

	if id.Proxy != "" {
		u, err := parseProxy(id.Proxy)
		if err != nil {
			return nil, err
		}

		switch u.Scheme {
		case "http", "https":
			t.Proxy = http.ProxyURL(u)
		case "socks5", "socks5h":
			d, err := proxy.FromURL(u, proxy.Direct)
			if err != nil {
				return nil, fmt.Errorf("socks proxy: %w", err)
			}
			cd, ok := d.(proxy.ContextDialer)
			if !ok {
				return nil, fmt.Errorf("socks proxy %s does not support contexts", u.Host)
			}
			dialer = cd
		default:
			return nil, fmt.Errorf("unsupported proxy scheme %q", u.Scheme)
		}
	}

	hello := helloFor(identity.FamilyOf(id.UserAgent))

	t.DialContext = dialer.DialContext
	t.DialTLSContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := dialer.DialContext(ctx, network, addr)
		if err != nil {
			return nil, err
		}
		return handshake(ctx, conn, addr, hello, roots)
	}

	return t, nil
}

// parseProxy parses a proxy entry. Entries without a scheme are HTTP proxies.
func parseProxy(raw string) (*url.URL, error) {
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid proxy %q: missing host", raw)
	}
	return u, nil
}

func helloFor(family identity.Family) tls.ClientHelloID {
	switch family {
	case identity.FamilyFirefox:
		return tls.HelloFirefox_Auto
	case identity.FamilySafari:
		return tls.HelloSafari_Auto
	default:
		return tls.HelloChrome_Auto
	}
}

// handshake performs a utls handshake over conn. ALPN is restricted to
// http/1.1 because the transport does not speak HTTP/2 over utls
// connections.
func handshake(ctx context.Context, conn net.Conn, addr string, hello tls.ClientHelloID, roots *x509.CertPool) (net.Conn, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		conn.Close()
		return nil, err
	}

	spec, err := tls.UTLSIdToSpec(hello)
	if err != nil {
		spec, err = tls.UTLSIdToSpec(tls.HelloChrome_Auto)
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("building tls spec: %w", err)
		}
	}
	for i, ext := range spec.Extensions {
		if alpn, ok := ext.(*tls.ALPNExtension); ok {
			alpn.AlpnProtocols = []string{"http/1.1"}
			spec.Extensions[i] = alpn
		}
	}

	tlsConn := tls.UClient(conn, &tls.Config{ServerName: host, RootCAs: roots}, tls.HelloCustom)
	if err := tlsConn.ApplyPreset(&spec); err != nil {
		conn.Close()
		return nil, fmt.Errorf("applying tls spec: %w", err)
	}
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, err
	}

	return tlsConn, nil
}

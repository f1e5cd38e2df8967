package rod

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
)

// session is a page inside a disposable browser context.
type session struct {
	browser   *rod.Browser
	contextID proto.BrowserBrowserContextID
	page      *rod.Page
}

// openSession creates an isolated browser context, routed through
// proxyServer when it is non-empty, and opens a blank page in it.
func openSession(browser *rod.Browser, proxyServer string) (*session, error) {
	res, err := proto.TargetCreateBrowserContext{ProxyServer: proxyServer}.Call(browser)
	if err != nil {
		return nil, fmt.Errorf("creating browser context: %w", err)
	}
	s := &session{browser: browser, contextID: res.BrowserContextID}

	target, err := proto.TargetCreateTarget{
		URL:              "about:blank",
		BrowserContextID: res.BrowserContextID,
	}.Call(browser)
	if err != nil {
		s.close()
		return nil, fmt.Errorf("creating page: %w", err)
	}

	page, err := browser.PageFromTarget(target.TargetID)
	if err != nil {
		_, _ = proto.TargetCloseTarget{TargetID: target.TargetID}.Call(browser)
		s.close()
		return nil, fmt.Errorf("attaching page: %w", err)
	}
	s.page = page
	return s, nil
}

// close tears down the page and its browser context.
func (s *session) close() {
	if s.page != nil {
		_ = s.page.Close()
	}
	_ = proto.TargetDisposeBrowserContext{BrowserContextID: s.contextID}.Call(s.browser)
}

// blockedResources are aborted before they reach the network.
var blockedResources = map[proto.NetworkResourceType]bool{
	proto.NetworkResourceTypeImage:      true,
	proto.NetworkResourceTypeMedia:      true,
	proto.NetworkResourceTypeFont:       true,
	proto.NetworkResourceTypeStylesheet: true,
}

// blockResources installs a request filter that drops images, media, fonts
// and stylesheets. The caller runs and stops the returned router.
func blockResources(page *rod.Page) *rod.HijackRouter {
	router := page.HijackRequests()
	_ = router.Add("*", "", func(ctx *rod.Hijack) {
		if blockedResources[ctx.Request.Type()] {
			ctx.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
			return
		}
		ctx.ContinueRequest(&proto.FetchContinueRequest{})
	})
	return router
}

// headersSkipped are managed by Chrome itself.
var headersSkipped = map[string]bool{
	"user-agent":      true,
	"accept-encoding": true,
	"connection":      true,
}

func extraHeaders(headers map[string]string) proto.NetworkHeaders {
	out := proto.NetworkHeaders{}
	for k, v := range headers {
		if headersSkipped[strings.ToLower(k)] {
			continue
		}
		out[k] = gson.New(v)
	}
	return out
}

// chromeProxy converts a proxy URL into the scheme://host:port form Chrome
// accepts. Chrome cannot take credentials here, so userinfo is dropped.
func chromeProxy(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid proxy %q: %w", raw, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid proxy %q: missing host", raw)
	}
	return u.Scheme + "://" + u.Host, nil
}

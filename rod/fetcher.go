package rod

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/fwojciec/websift"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/rs/zerolog"
)

// Ensure Fetcher implements websift.Fetcher at compile time.
var _ websift.Fetcher = (*Fetcher)(nil)

// DefaultFetchTimeout bounds a single navigation attempt.
const DefaultFetchTimeout = 20 * time.Second

const (
	viewportWidth  = 1920
	viewportHeight = 1080
	locale         = "en-US"
	timezone       = "America/New_York"
	scrollScript   = `() => window.scrollTo(0, document.body.scrollHeight)`
)

// Fetcher retrieves rendered HTML using a stealth-configured headless
// Chrome. Every call runs in its own browser context so cookies, storage
// and proxy settings never leak between fetches.
//
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager    *BrowserManager
	identities websift.IdentityProvider
	timeout    time.Duration
}

// Option configures a Fetcher.
type Option func(*fetcherConfig)

type fetcherConfig struct {
	timeout time.Duration
	manager []ManagerOption
}

// WithFetchTimeout sets the navigation timeout. A navigation that times out
// is retried once before the fetch fails.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *fetcherConfig) {
		c.timeout = d
	}
}

// WithManagerOptions passes options to the underlying BrowserManager.
func WithManagerOptions(opts ...ManagerOption) Option {
	return func(c *fetcherConfig) {
		c.manager = append(c.manager, opts...)
	}
}

// NewFetcher creates a new Fetcher. Chrome is not started until the first
// call to Fetch, so constructing a Fetcher never fails.
// Close must be called when the Fetcher is no longer needed.
func NewFetcher(identities websift.IdentityProvider, opts ...Option) *Fetcher {
	cfg := fetcherConfig{
		timeout: DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Fetcher{
		manager:    NewBrowserManager(cfg.manager...),
		identities: identities,
		timeout:    cfg.timeout,
	}
}

// Fetch navigates to the URL and returns the rendered HTML.
//
// Failures are reported as *websift.Error: ETIMEOUT with "Timeout (Browser)"
// when navigation timed out twice, EUNEXPECTED otherwise.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	html, err := f.fetch(ctx, url)
	if err != nil {
		return "", classify(err)
	}
	return html, nil
}

func (f *Fetcher) fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	browser, release, err := f.manager.Acquire()
	if err != nil {
		return "", err
	}
	defer release()

	id := f.identities.Identity()
	proxyServer, err := chromeProxy(id.Proxy)
	if err != nil {
		return "", err
	}

	sess, err := openSession(browser, proxyServer)
	if err != nil {
		return "", err
	}
	defer sess.close()

	page := sess.page
	if err := prepare(page, id); err != nil {
		return "", err
	}

	router := blockResources(page)
	go router.Run()
	defer func() { _ = router.Stop() }()

	if err := f.navigate(ctx, page, url); err != nil {
		return "", err
	}

	interact(ctx, page)

	if err := sleep(ctx, jitter(time.Second, 3*time.Second)); err != nil {
		return "", err
	}
	if _, err := page.Context(ctx).Eval(scrollScript); err != nil {
		return "", err
	}
	if err := sleep(ctx, 2*time.Second); err != nil {
		return "", err
	}

	return page.Context(ctx).HTML()
}

// navigate loads url and waits for DOMContentLoaded, retrying once when the
// first attempt times out.
func (f *Fetcher) navigate(ctx context.Context, page *rod.Page, url string) error {
	err := f.navigateOnce(ctx, page, url)
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		zerolog.Ctx(ctx).Debug().Str("url", url).Msg("navigation timed out, retrying")
		err = f.navigateOnce(ctx, page, url)
	}
	return err
}

func (f *Fetcher) navigateOnce(ctx context.Context, page *rod.Page, url string) error {
	p := page.Context(ctx).Timeout(f.timeout)
	defer p.CancelTimeout()

	wait := p.WaitNavigation(proto.PageLifecycleEventNameDOMContentLoaded)
	if err := p.Navigate(url); err != nil {
		return err
	}
	wait()

	// WaitNavigation returns silently when its context ends.
	return p.GetContext().Err()
}

// prepare applies the identity and the stealth profile to a fresh page.
func prepare(page *rod.Page, id *websift.Identity) error {
	if _, err := page.EvalOnNewDocument(stealth.JS); err != nil {
		return err
	}
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             viewportWidth,
		Height:            viewportHeight,
		DeviceScaleFactor: 1,
	}); err != nil {
		return err
	}
	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent:      id.UserAgent,
		AcceptLanguage: locale,
	}); err != nil {
		return err
	}
	if err := (proto.EmulationSetLocaleOverride{Locale: locale}).Call(page); err != nil {
		return err
	}
	if err := (proto.EmulationSetTimezoneOverride{TimezoneID: timezone}).Call(page); err != nil {
		return err
	}
	if headers := extraHeaders(id.Headers); len(headers) > 0 {
		if err := (proto.NetworkSetExtraHTTPHeaders{Headers: headers}).Call(page); err != nil {
			return err
		}
	}
	return nil
}

// interact simulates a short mouse click somewhere in the upper left of the
// viewport. Failures are ignored.
func interact(ctx context.Context, page *rod.Page) {
	mouse := page.Context(ctx).Mouse
	x := 100 + rand.Float64()*400
	y := 100 + rand.Float64()*400
	if err := mouse.MoveTo(proto.NewPoint(x, y)); err != nil {
		return
	}
	if err := mouse.Down(proto.InputMouseButtonLeft, 1); err != nil {
		return
	}
	_ = sleep(ctx, jitter(100*time.Millisecond, 300*time.Millisecond))
	_ = mouse.Up(proto.InputMouseButtonLeft, 1)
}

// jitter returns a random duration in [lo, hi).
func jitter(lo, hi time.Duration) time.Duration {
	return lo + rand.N(hi-lo)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Close releases browser resources.
func (f *Fetcher) Close() error {
	return f.manager.Close()
}

// LauncherPID returns the process ID of the browser launcher, or 0 before
// the first fetch.
// This method exists for testing purposes to verify proper cleanup.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}

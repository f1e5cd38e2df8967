package rod

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultMaxPages is the default number of sessions before browser recycling.
const DefaultMaxPages = 75

// ErrManagerClosed is returned by Acquire after Close.
var ErrManagerClosed = errors.New("browser manager closed")

// BrowserManager shares one Chrome process between fetches and recycles it
// to bound memory growth. Chrome accumulates memory over time and the
// baseline never returns to initial levels even with proper page cleanup.
//
// A recycled browser is closed only once every session that acquired it
// has been released, so recycling never interrupts an in-flight fetch.
// The browser is launched lazily by the first Acquire.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	mu       sync.Mutex
	current  *generation
	sessions int64
	maxPages int64
	bin      string
	closed   bool
}

// generation is one launched browser process.
type generation struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	active   int
	retired  bool
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithMaxPages sets the number of sessions before the browser is recycled.
// Defaults to 75 if not specified.
func WithMaxPages(n int64) ManagerOption {
	return func(bm *BrowserManager) {
		bm.maxPages = n
	}
}

// WithBrowserBin sets the path of the Chrome binary. By default rod finds
// an installed browser or downloads one.
func WithBrowserBin(path string) ManagerOption {
	return func(bm *BrowserManager) {
		bm.bin = path
	}
}

// NewBrowserManager creates a new BrowserManager.
// Close must be called when the BrowserManager is no longer needed.
func NewBrowserManager(opts ...ManagerOption) *BrowserManager {
	bm := &BrowserManager{
		maxPages: DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(bm)
	}
	return bm
}

// Acquire returns the current browser, launching or recycling it as needed.
// The returned release function must be called once the caller's session
// on the browser has been torn down.
func (bm *BrowserManager) Acquire() (*rod.Browser, func(), error) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil, nil, ErrManagerClosed
	}

	if bm.current != nil && bm.maxPages > 0 && bm.sessions >= bm.maxPages {
		// If launching the replacement fails, keep the old browser.
		if gen, err := bm.launch(); err == nil {
			bm.retire(bm.current)
			bm.current = gen
			bm.sessions = 0
		}
	}

	if bm.current == nil {
		gen, err := bm.launch()
		if err != nil {
			return nil, nil, err
		}
		bm.current = gen
		bm.sessions = 0
	}

	gen := bm.current
	gen.active++
	bm.sessions++

	var once sync.Once
	release := func() {
		once.Do(func() { bm.release(gen) })
	}
	return gen.browser, release, nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (bm *BrowserManager) Close() error {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil
	}
	bm.closed = true

	if bm.current == nil {
		return nil
	}
	err := bm.current.close()
	bm.current = nil
	return err
}

// launch starts a new browser instance with stability and anti-detection
// flags. Must be called with mu held.
func (bm *BrowserManager) launch() (*generation, error) {
	lnchr := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Set("disable-http2").
		Set("disable-blink-features", "AutomationControlled").
		Set("disable-setuid-sandbox").
		NoSandbox(true).
		Leakless(true).
		Headless(true)
	if bm.bin != "" {
		lnchr = lnchr.Bin(bm.bin)
	}

	u, err := lnchr.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	return &generation{browser: browser, launcher: lnchr}, nil
}

// retire marks gen for shutdown once its last session is released.
// Must be called with mu held.
func (bm *BrowserManager) retire(gen *generation) {
	gen.retired = true
	if gen.active == 0 {
		_ = gen.close()
	}
}

func (bm *BrowserManager) release(gen *generation) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	gen.active--
	if gen.retired && gen.active == 0 {
		_ = gen.close()
	}
}

// close shuts down the browser and its launcher.
func (g *generation) close() error {
	var err error
	if g.browser != nil {
		err = g.browser.Close()
		g.browser = nil
	}
	if g.launcher != nil {
		g.launcher.Kill()
		g.launcher = nil
	}
	return err
}

// LauncherPID returns the process ID of the current browser launcher, or 0
// if no browser is running.
// This method exists for testing purposes to verify proper cleanup.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if bm.current == nil || bm.current.launcher == nil {
		return 0
	}
	return bm.current.launcher.PID()
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/websift"
	"github.com/fwojciec/websift/config"
	"github.com/fwojciec/websift/crawl"
	"github.com/fwojciec/websift/fs"
	"github.com/fwojciec/websift/goquery"
	"github.com/fwojciec/websift/htmltomarkdown"
	wshttp "github.com/fwojciec/websift/http"
	"github.com/fwojciec/websift/identity"
	"github.com/fwojciec/websift/readability"
	"github.com/fwojciec/websift/rod"
	"github.com/fwojciec/websift/search"
	"github.com/fwojciec/websift/sqlite"
	"github.com/fwojciec/websift/trafilatura"
	wzerolog "github.com/fwojciec/websift/zerolog"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	if cerr := m.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, websift.ErrorMessage(err))
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database holding the run history. Opened only with --history.
	DB *sqlite.DB

	closers []io.Closer
}

// NewMain returns a new instance of Main.
func NewMain() *Main {
	return &Main{}
}

// Close releases the fetchers and the database opened by Run.
func (m *Main) Close() error {
	var errs []error
	for i := len(m.closers) - 1; i >= 0; i-- {
		errs = append(errs, m.closers[i].Close())
	}
	m.closers = nil
	return errors.Join(errs...)
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("websift"),
		kong.Description("Search the web and scrape the result pages into a JSON report"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no query specified. Run 'websift --help' for usage")
	}
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	cfg, err := cli.config()
	if err != nil {
		return err
	}

	logger := wzerolog.NewConsoleLogger(stderr, cli.Quiet, cli.Verbose)
	ctx = logger.WithContext(ctx)

	// Engine and credential problems surface before any network traffic.
	searcher, err := search.New(cli.Engine, &cfg.Search)
	if err != nil {
		return err
	}

	proxies, err := identity.LoadProxies(cfg.Proxies)
	if err != nil {
		return err
	}
	identities := identity.NewProvider(identity.WithProxies(proxies))
	if len(proxies) > 0 {
		logger.Debug().Int("proxies", len(proxies)).Str("file", cfg.Proxies).Msg("loaded proxies")
	}

	fast := wshttp.NewFetcher(identities,
		wshttp.WithTimeout(cfg.Timeout),
		wshttp.WithRetries(cfg.Retries),
	)
	m.closers = append(m.closers, fast)

	scraper := &crawl.Scraper{
		Fast:        wzerolog.NewLoggingFetcher(fast, websift.TierFast, logger),
		Extractor:   goquery.NewExtractor(),
		RateLimiter: crawl.NewDomainLimiter(cfg.Rate),
	}

	// The browser launches on first use, so quick runs never start one.
	if !cli.Quick {
		managerOpts := []rod.ManagerOption{rod.WithMaxPages(int64(cfg.MaxPages))}
		if cfg.BrowserBin != "" {
			managerOpts = append(managerOpts, rod.WithBrowserBin(cfg.BrowserBin))
		}
		resilient := rod.NewFetcher(identities,
			rod.WithFetchTimeout(cfg.BrowserTimeout),
			rod.WithManagerOptions(managerOpts...),
		)
		m.closers = append(m.closers, resilient)
		scraper.Resilient = wzerolog.NewLoggingFetcher(resilient, websift.TierResilient, logger)
	}

	if cfg.Archive != "" {
		scraper.Archiver = &crawl.Archiver{
			Content:   crawl.ContentChain{trafilatura.NewExtractor(), readability.NewExtractor()},
			Converter: htmltomarkdown.NewConverter(),
			Archive:   fs.NewArchive(cfg.Archive),
		}
	}

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Logger: logger,
		Aggregator: &crawl.Aggregator{
			Searcher: wzerolog.NewLoggingSearcher(searcher, logger),
			Scraper:  scraper,
			Workers:  cfg.Workers,
			Progress: LogProgress(logger, searcher.Name()),
		},
	}

	if cfg.History != "" {
		m.DB = sqlite.NewDB(cfg.History)
		if err := m.DB.Open(); err != nil {
			return fmt.Errorf("failed to open history database at %q: %w", cfg.History, err)
		}
		m.closers = append(m.closers, m.DB)
		deps.Runs = sqlite.NewRunService(m.DB)
	}

	cmd := &ScrapeCmd{
		Query: cli.Query,
		Path:  cli.Path,
		N:     cli.NumSearchResults,
		Quick: cli.Quick,
	}
	return cmd.Run(deps)
}

// config loads the config file, if any, and applies the flags over it.
func (c *CLI) config() (*config.Config, error) {
	cfg := &config.Config{}
	if c.Config != "" {
		var err error
		if cfg, err = config.Load(c.Config); err != nil {
			return nil, err
		}
	}

	flags := config.Config{
		Workers:        c.Workers,
		Timeout:        c.Timeout,
		BrowserTimeout: c.BrowserTimeout,
		Retries:        c.Retries,
		Proxies:        c.Proxies,
		Rate:           c.Rate,
		History:        c.History,
		Archive:        c.Archive,
		MaxPages:       c.MaxPages,
		BrowserBin:     c.BrowserBin,
		Search: search.Config{
			GoogleAPIKey: c.GoogleAPIKey,
			GoogleCSEID:  c.GoogleCSEID,
			BingAPIKey:   c.BingAPIKey,
			SafeSearch:   c.SafeSearch,
			TimeLimit:    c.TimeLimit,
		},
	}
	if err := flags.Validate(); err != nil {
		return nil, err
	}
	cfg.Override(flags)
	return cfg.WithDefaults(), nil
}

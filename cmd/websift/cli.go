package main

import (
	"context"
	"io"
	"time"

	"github.com/fwojciec/websift"
	"github.com/fwojciec/websift/crawl"
	"github.com/rs/zerolog"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger zerolog.Logger

	Aggregator *crawl.Aggregator

	// Runs records completed runs. Nil when no history database is set.
	Runs websift.RunService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Query            string `arg:"" help:"The query to search and scrape"`
	Path             string `help:"File path to store JSON output"`
	NumSearchResults int    `name:"num_search_results" default:"5" help:"Number of URLs to scrape from search results"`
	Engine           string `default:"duckduckgo" help:"Search engine: duckduckgo, google or bing"`
	Quick            bool   `help:"Only use the fast HTTP fetcher, never a browser"`
	Quiet            bool   `short:"q" help:"Suppress progress output"`
	Verbose          bool   `short:"v" help:"Log every search and fetch"`

	Config         string        `help:"YAML file with default settings"`
	Proxies        string        `env:"WEBSIFT_PROXIES" help:"File listing proxy URLs, one per line"`
	Workers        int           `short:"w" help:"Concurrent fetches (default 5)"`
	Timeout        time.Duration `help:"HTTP fetch timeout per attempt (default 10s)"`
	BrowserTimeout time.Duration `name:"browser_timeout" help:"Browser navigation timeout (default 20s)"`
	Retries        int           `help:"HTTP attempts per URL (default 2)"`
	Rate           float64       `help:"Requests per second per domain, 0 for no limit"`
	History        string        `help:"SQLite database recording each run"`
	Archive        string        `help:"Directory receiving a markdown copy of every fetched page"`
	MaxPages       int           `name:"max_pages" help:"Browser sessions before the browser is restarted (default 75)"`
	BrowserBin     string        `name:"browser_bin" env:"WEBSIFT_BROWSER" help:"Chrome or Chromium binary"`
	SafeSearch     string        `name:"safesearch" help:"DuckDuckGo safe search: on, moderate or off (default moderate)"`
	TimeLimit      string        `name:"timelimit" help:"DuckDuckGo time limit: d, w, m or y"`

	GoogleAPIKey string `name:"google_api_key" env:"GOOGLE_API_KEY" hidden:""`
	GoogleCSEID  string `name:"google_cse_id" env:"GOOGLE_CSE_ID" hidden:""`
	BingAPIKey   string `name:"bing_api_key" env:"BING_API_KEY" hidden:""`
}

// ScrapeCmd searches for a query and writes the report.
type ScrapeCmd struct {
	Query string
	Path  string
	N     int
	Quick bool
}

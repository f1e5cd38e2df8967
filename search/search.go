// Package search resolves a query into result URLs through DuckDuckGo,
// Google Custom Search or Bing Web Search.
//
// Engine selection and credential checks happen in New, so a misconfigured
// engine fails before any network traffic.
package search

import (
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/fwojciec/websift"
	"github.com/fwojciec/websift/identity"
)

// DefaultTimeout bounds every search request.
const DefaultTimeout = 15 * time.Second

// DuckDuckGo safe search levels.
const (
	SafeSearchOn       = "on"
	SafeSearchModerate = "moderate"
	SafeSearchOff      = "off"
)

// Base URLs of the supported engines.
const (
	DuckDuckGoURL = "https://html.duckduckgo.com/html/"
	GoogleURL     = "https://www.googleapis.com/customsearch/v1"
	BingURL       = "https://api.bing.microsoft.com/v7.0/search"
)

// Config carries engine credentials and tuning. Zero values are replaced by
// defaults in WithDefaults.
type Config struct {
	GoogleAPIKey string `yaml:"google_api_key"`
	GoogleCSEID  string `yaml:"google_cse_id"`
	BingAPIKey   string `yaml:"bing_api_key"`

	// SafeSearch is one of on, moderate or off. DuckDuckGo only.
	SafeSearch string `yaml:"safesearch"`
	// TimeLimit restricts results to the past d, w, m or y. DuckDuckGo only.
	TimeLimit string `yaml:"timelimit"`
	// Market is the Bing market code.
	Market string `yaml:"market"`

	DuckDuckGoURL string `yaml:"duckduckgo_url"`
	GoogleURL     string `yaml:"google_url"`
	BingURL       string `yaml:"bing_url"`

	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`

	Client *http.Client `yaml:"-"`
	// GOOS selects the platform for credential instructions.
	GOOS string `yaml:"-"`
}

// WithDefaults fills unset fields.
func (c *Config) WithDefaults() *Config {
	if c == nil {
		c = &Config{}
	}
	if strings.TrimSpace(c.SafeSearch) == "" {
		c.SafeSearch = SafeSearchModerate
	}
	if c.Market == "" {
		c.Market = "en-US"
	}
	if c.DuckDuckGoURL == "" {
		c.DuckDuckGoURL = DuckDuckGoURL
	}
	if c.GoogleURL == "" {
		c.GoogleURL = GoogleURL
	}
	if c.BingURL == "" {
		c.BingURL = BingURL
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = identity.DefaultUserAgents[0]
	}
	if c.Client == nil {
		c.Client = &http.Client{Timeout: c.Timeout}
	}
	if c.GOOS == "" {
		c.GOOS = runtime.GOOS
	}
	return c
}

// New returns the Searcher for engine. Unknown engines yield EUNSUPPORTED and
// missing credentials yield ECREDENTIAL.
func New(engine string, cfg *Config) (websift.Searcher, error) {
	var c Config
	if cfg != nil {
		c = *cfg
	}
	cfg = c.WithDefaults()

	switch strings.ToLower(strings.TrimSpace(engine)) {
	case websift.EngineDuckDuckGo:
		if err := validateDuckDuckGo(cfg); err != nil {
			return nil, err
		}
		return &DuckDuckGo{cfg: cfg}, nil
	case websift.EngineGoogle:
		if cfg.GoogleAPIKey == "" {
			return nil, missingCredential(cfg.GOOS, "GOOGLE_API_KEY", googleKeyDocs)
		}
		if cfg.GoogleCSEID == "" {
			return nil, missingCredential(cfg.GOOS, "GOOGLE_CSE_ID", googleCSEDocs)
		}
		return &Google{cfg: cfg}, nil
	case websift.EngineBing:
		if cfg.BingAPIKey == "" {
			return nil, missingCredential(cfg.GOOS, "BING_API_KEY", bingDocs)
		}
		return &Bing{cfg: cfg}, nil
	default:
		return nil, websift.Errorf(websift.EUNSUPPORTED,
			"Unsupported search engine: %q. Choose from: %s", engine, strings.Join(websift.Engines, ", "))
	}
}

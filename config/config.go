// Package config loads websift defaults from a YAML file.
//
// Command-line flags take precedence: the CLI overlays every flag that was
// given a non-zero value onto the loaded file with Override, then fills the
// rest with WithDefaults.
package config

import (
	"errors"
	"io"
	"os"
	"time"

	"github.com/fwojciec/websift"
	"github.com/fwojciec/websift/search"
	yaml "gopkg.in/yaml.v3"
)

const (
	DefaultWorkers        = 5
	DefaultTimeout        = 10 * time.Second
	DefaultBrowserTimeout = 20 * time.Second
	DefaultRetries        = 2
	DefaultMaxPages       = 75
)

// Config holds the tunables shared by the CLI and the config file.
type Config struct {
	Workers        int           `yaml:"workers"`
	Timeout        time.Duration `yaml:"timeout"`
	BrowserTimeout time.Duration `yaml:"browser_timeout"`
	Retries        int           `yaml:"retries"`

	// Proxies is a file listing one proxy URL per line.
	Proxies string `yaml:"proxies"`

	// Rate is the per-domain request rate in requests per second. Zero
	// disables rate limiting.
	Rate float64 `yaml:"rate"`

	// History is the SQLite database recording each run.
	History string `yaml:"history"`
	// Archive is the directory receiving markdown copies of fetched pages.
	Archive string `yaml:"archive"`

	MaxPages   int    `yaml:"max_pages"`
	BrowserBin string `yaml:"browser_bin"`

	Search search.Config `yaml:"search"`
}

// WithDefaults fills unset fields.
func (c *Config) WithDefaults() *Config {
	if c == nil {
		c = &Config{}
	}
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.BrowserTimeout <= 0 {
		c.BrowserTimeout = DefaultBrowserTimeout
	}
	if c.Retries <= 0 {
		c.Retries = DefaultRetries
	}
	if c.MaxPages <= 0 {
		c.MaxPages = DefaultMaxPages
	}
	return c
}

// Validate returns an error if a field holds a value no default can repair.
func (c *Config) Validate() error {
	switch {
	case c.Workers < 0:
		return websift.Errorf(websift.EINVALID, "workers must not be negative")
	case c.Retries < 0:
		return websift.Errorf(websift.EINVALID, "retries must not be negative")
	case c.Rate < 0:
		return websift.Errorf(websift.EINVALID, "rate must not be negative")
	case c.Timeout < 0 || c.BrowserTimeout < 0:
		return websift.Errorf(websift.EINVALID, "timeouts must not be negative")
	}
	return nil
}

// Override copies every non-zero field of o onto c.
func (c *Config) Override(o Config) {
	if o.Workers != 0 {
		c.Workers = o.Workers
	}
	if o.Timeout != 0 {
		c.Timeout = o.Timeout
	}
	if o.BrowserTimeout != 0 {
		c.BrowserTimeout = o.BrowserTimeout
	}
	if o.Retries != 0 {
		c.Retries = o.Retries
	}
	if o.Proxies != "" {
		c.Proxies = o.Proxies
	}
	if o.Rate != 0 {
		c.Rate = o.Rate
	}
	if o.History != "" {
		c.History = o.History
	}
	if o.Archive != "" {
		c.Archive = o.Archive
	}
	if o.MaxPages != 0 {
		c.MaxPages = o.MaxPages
	}
	if o.BrowserBin != "" {
		c.BrowserBin = o.BrowserBin
	}

	s := &c.Search
	if o.Search.GoogleAPIKey != "" {
		s.GoogleAPIKey = o.Search.GoogleAPIKey
	}
	if o.Search.GoogleCSEID != "" {
		s.GoogleCSEID = o.Search.GoogleCSEID
	}
	if o.Search.BingAPIKey != "" {
		s.BingAPIKey = o.Search.BingAPIKey
	}
	if o.Search.SafeSearch != "" {
		s.SafeSearch = o.Search.SafeSearch
	}
	if o.Search.TimeLimit != "" {
		s.TimeLimit = o.Search.TimeLimit
	}
}

// Load reads a YAML config file. Unknown keys are rejected so typos
// surface instead of silently falling back to defaults.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, websift.Errorf(websift.ENOTFOUND, "config file not found: %s", path)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Decode(f)
}

// Decode parses a YAML config document. An empty document yields a zero
// Config.
func Decode(r io.Reader) (*Config, error) {
	var c Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, websift.Errorf(websift.EINVALID, "invalid config: %v", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

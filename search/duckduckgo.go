package search

import (
	"context"
	"net/url"

	"github.com/fwojciec/websift"
	"github.com/fwojciec/websift/bloom"
	"github.com/fwojciec/websift/goquery"
)

// maxDuckDuckGoPages bounds pagination when pages keep repeating results.
const maxDuckDuckGoPages = 10

var safeSearchParam = map[string]string{
	SafeSearchOn:       "1",
	SafeSearchModerate: "-1",
	SafeSearchOff:      "-2",
}

var validTimeLimits = map[string]bool{"": true, "d": true, "w": true, "m": true, "y": true}

// Ensure DuckDuckGo implements websift.Searcher at compile time.
var _ websift.Searcher = (*DuckDuckGo)(nil)

// DuckDuckGo searches the DuckDuckGo HTML endpoint. It needs no credentials.
type DuckDuckGo struct {
	cfg *Config
}

// Name returns the engine name.
func (s *DuckDuckGo) Name() string { return websift.EngineDuckDuckGo }

// Search returns up to n result URLs, following the result pages' Next
// form until enough distinct URLs are collected.
func (s *DuckDuckGo) Search(ctx context.Context, query string, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}

	form := url.Values{}
	form.Set("q", query)
	form.Set("b", "")
	form.Set("kp", safeSearchParam[s.cfg.SafeSearch])
	if s.cfg.TimeLimit != "" {
		form.Set("df", s.cfg.TimeLimit)
	}

	seen := bloom.NewDedup(n)
	var urls []string
	for page := 0; page < maxDuckDuckGoPages && form != nil; page++ {
		html, err := s.cfg.postForm(ctx, s.cfg.DuckDuckGoURL, form)
		if err != nil {
			return urls, err
		}
		result, err := goquery.ParseDuckDuckGo(html)
		if err != nil {
			return urls, err
		}

		added := 0
		for _, u := range result.URLs {
			if seen.Seen(u) {
				continue
			}
			urls = append(urls, u)
			added++
			if len(urls) >= n {
				return urls, nil
			}
		}
		if added == 0 {
			break
		}
		form = result.Next
		if form != nil {
			form.Set("kp", safeSearchParam[s.cfg.SafeSearch])
			if s.cfg.TimeLimit != "" {
				form.Set("df", s.cfg.TimeLimit)
			}
		}
	}
	return urls, nil
}

func validateDuckDuckGo(cfg *Config) error {
	if _, ok := safeSearchParam[cfg.SafeSearch]; !ok {
		return websift.Errorf(websift.EINVALID, "invalid safesearch %q: choose from on, moderate, off", cfg.SafeSearch)
	}
	if !validTimeLimits[cfg.TimeLimit] {
		return websift.Errorf(websift.EINVALID, "invalid timelimit %q: choose from d, w, m, y", cfg.TimeLimit)
	}
	return nil
}

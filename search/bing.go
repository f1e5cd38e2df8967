package search

import (
	"context"
	"net/url"
	"strconv"

	"github.com/fwojciec/websift"
	"github.com/fwojciec/websift/bloom"
	"github.com/rs/zerolog"
)

const bingPageSize = 50

// Ensure Bing implements websift.Searcher at compile time.
var _ websift.Searcher = (*Bing)(nil)

// Bing searches through the Bing Web Search v7 API.
type Bing struct {
	cfg *Config
}

// Name returns the engine name.
func (s *Bing) Name() string { return websift.EngineBing }

// Search returns up to n result URLs, requesting them in batches of 50.
func (s *Bing) Search(ctx context.Context, query string, n int) ([]string, error) {
	headers := map[string]string{"Ocp-Apim-Subscription-Key": s.cfg.BingAPIKey}

	seen := bloom.NewDedup(n)
	var urls []string
	for offset := 0; offset < n; offset += bingPageSize {
		q := url.Values{}
		q.Set("q", query)
		q.Set("count", strconv.Itoa(min(bingPageSize, n-offset)))
		q.Set("offset", strconv.Itoa(offset))
		q.Set("mkt", s.cfg.Market)

		var resp struct {
			WebPages *struct {
				Value []struct {
					URL string `json:"url"`
				} `json:"value"`
			} `json:"webPages"`
		}
		if err := s.cfg.getJSON(ctx, s.cfg.BingURL, q, headers, &resp); err != nil {
			return nil, err
		}
		if resp.WebPages == nil || len(resp.WebPages.Value) == 0 {
			zerolog.Ctx(ctx).Debug().Int("offset", offset).Msg("no more results found")
			break
		}
		for _, v := range resp.WebPages.Value {
			if v.URL != "" && !seen.Seen(v.URL) {
				urls = append(urls, v.URL)
			}
		}
	}

	if len(urls) > n {
		urls = urls[:n]
	}
	return urls, nil
}

package search

import (
	"context"
	"net/url"
	"strconv"

	"github.com/fwojciec/websift"
	"github.com/fwojciec/websift/bloom"
	"github.com/rs/zerolog"
)

const (
	googlePageSize   = 10
	googleMaxResults = 100
)

// Ensure Google implements websift.Searcher at compile time.
var _ websift.Searcher = (*Google)(nil)

// Google searches through the Custom Search JSON API.
type Google struct {
	cfg *Config
}

// Name returns the engine name.
func (s *Google) Name() string { return websift.EngineGoogle }

// Search returns up to n result URLs. The API serves at most 100 results,
// so larger requests are capped.
func (s *Google) Search(ctx context.Context, query string, n int) ([]string, error) {
	if n > googleMaxResults {
		zerolog.Ctx(ctx).Warn().
			Int("requested", n).
			Msg("The API is limited to a maximum of 100 results. Fetching 100 results instead.")
		n = googleMaxResults
	}

	seen := bloom.NewDedup(n)
	var urls []string
	for i := 0; i < n; i += googlePageSize {
		q := url.Values{}
		q.Set("key", s.cfg.GoogleAPIKey)
		q.Set("cx", s.cfg.GoogleCSEID)
		q.Set("q", query)
		q.Set("start", strconv.Itoa(i+1))
		q.Set("num", strconv.Itoa(min(googlePageSize, n-i)))

		var resp struct {
			Items []struct {
				Link string `json:"link"`
			} `json:"items"`
		}
		if err := s.cfg.getJSON(ctx, s.cfg.GoogleURL, q, nil, &resp); err != nil {
			return nil, err
		}
		if len(resp.Items) == 0 {
			break
		}
		for _, item := range resp.Items {
			if item.Link != "" && !seen.Seen(item.Link) {
				urls = append(urls, item.Link)
			}
		}
	}

	if len(urls) > n {
		urls = urls[:n]
	}
	return urls, nil
}

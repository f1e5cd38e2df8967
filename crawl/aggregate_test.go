package crawl_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/websift"
	"github.com/fwojciec/websift/crawl"
	"github.com/fwojciec/websift/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingFetcher fails for the URLs in failures and succeeds otherwise.
func failingFetcher(failures map[string]error) *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (string, error) {
			if err, ok := failures[url]; ok {
				return "", err
			}
			return "html:" + url, nil
		},
		CloseFn: func() error { return nil },
	}
}

func testURLs(n int) []string {
	urls := make([]string, n)
	for i := range urls {
		urls[i] = fmt.Sprintf("https://example.com/%d", i)
	}
	return urls
}

func TestAggregator_Aggregate(t *testing.T) {
	t.Parallel()

	t.Run("partitions ten urls with one failure", func(t *testing.T) {
		t.Parallel()

		urls := testURLs(10)
		a := &crawl.Aggregator{
			Scraper: &crawl.Scraper{
				Fast: failingFetcher(map[string]error{
					urls[4]: websift.Errorf(websift.EREQUEST, "Request failed: HTTP 500"),
				}),
				Extractor: recordExtractor(),
			},
			Workers: 3,
		}

		report, err := a.Aggregate(context.Background(), "golang", urls, true)

		require.NoError(t, err)
		require.NoError(t, report.Validate())
		assert.Equal(t, "golang", report.Query)
		assert.Equal(t, urls, report.URLs)
		assert.Len(t, report.Results, 9)
		assert.Equal(t, []string{urls[4]}, report.Errors)

		var got []string
		for _, r := range report.Results {
			got = append(got, r.URL)
		}
		want := append(append([]string{}, urls[:4]...), urls[5:]...)
		assert.Equal(t, want, got, "results keep input order")
	})

	t.Run("results follow input order despite completion order", func(t *testing.T) {
		t.Parallel()

		urls := testURLs(5)
		a := &crawl.Aggregator{
			Scraper: &crawl.Scraper{
				Fast: &mock.Fetcher{
					FetchFn: func(_ context.Context, url string) (string, error) {
						// Earlier URLs finish last.
						for i, u := range urls {
							if u == url {
								time.Sleep(time.Duration(len(urls)-i) * 10 * time.Millisecond)
							}
						}
						return "ok", nil
					},
				},
				Extractor: recordExtractor(),
			},
			Workers: 5,
		}

		report, err := a.Aggregate(context.Background(), "q", urls, true)

		require.NoError(t, err)
		for i, r := range report.Results {
			assert.Equal(t, urls[i], r.URL)
		}
	})

	t.Run("all failures is a valid report", func(t *testing.T) {
		t.Parallel()

		urls := testURLs(3)
		failures := map[string]error{}
		for _, u := range urls {
			failures[u] = websift.Errorf(websift.ETIMEOUT, "Timeout")
		}
		a := &crawl.Aggregator{
			Scraper: &crawl.Scraper{Fast: failingFetcher(failures), Extractor: recordExtractor()},
		}

		report, err := a.Aggregate(context.Background(), "q", urls, true)

		require.NoError(t, err)
		require.NoError(t, report.Validate())
		assert.Empty(t, report.Results)
		assert.NotNil(t, report.Results)
		assert.Equal(t, urls, report.Errors)
	})

	t.Run("duplicate urls are fetched independently", func(t *testing.T) {
		t.Parallel()

		urls := []string{"https://example.com/", "https://example.com/"}
		a := &crawl.Aggregator{
			Scraper: &crawl.Scraper{Fast: failingFetcher(nil), Extractor: recordExtractor()},
		}

		report, err := a.Aggregate(context.Background(), "q", urls, true)

		require.NoError(t, err)
		assert.Len(t, report.Results, 2)
		require.NoError(t, report.Validate())
	})

	t.Run("empty urls returns no results without fetching", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int64
		a := &crawl.Aggregator{
			Scraper: &crawl.Scraper{Fast: countingFetcher("", nil, &calls), Extractor: recordExtractor()},
		}

		report, err := a.Aggregate(context.Background(), "q", nil, false)

		require.Error(t, err)
		assert.Nil(t, report)
		assert.Equal(t, websift.ENORESULTS, websift.ErrorCode(err))
		assert.Equal(t, websift.NoResultsMessage, websift.ErrorMessage(err))
		assert.Zero(t, calls.Load())
	})

	t.Run("never exceeds worker limit", func(t *testing.T) {
		t.Parallel()

		var active, peak atomic.Int64
		a := &crawl.Aggregator{
			Scraper: &crawl.Scraper{
				Fast: &mock.Fetcher{
					FetchFn: func(_ context.Context, _ string) (string, error) {
						n := active.Add(1)
						for {
							p := peak.Load()
							if n <= p || peak.CompareAndSwap(p, n) {
								break
							}
						}
						time.Sleep(20 * time.Millisecond)
						active.Add(-1)
						return "ok", nil
					},
				},
				Extractor: recordExtractor(),
			},
			Workers: 3,
		}

		_, err := a.Aggregate(context.Background(), "q", testURLs(12), true)

		require.NoError(t, err)
		assert.LessOrEqual(t, peak.Load(), int64(3))
	})

	t.Run("reports progress", func(t *testing.T) {
		t.Parallel()

		urls := testURLs(3)
		var mu sync.Mutex
		var events []crawl.ProgressEvent
		a := &crawl.Aggregator{
			Scraper: &crawl.Scraper{
				Fast:      failingFetcher(map[string]error{urls[1]: websift.Errorf(websift.ETIMEOUT, "Timeout")}),
				Extractor: recordExtractor(),
			},
			Progress: func(e crawl.ProgressEvent) {
				mu.Lock()
				events = append(events, e)
				mu.Unlock()
			},
		}

		_, err := a.Aggregate(context.Background(), "q", urls, true)
		require.NoError(t, err)

		mu.Lock()
		defer mu.Unlock()
		require.Len(t, events, 5)
		assert.Equal(t, crawl.ProgressStarted, events[0].Type)
		assert.Equal(t, 3, events[0].Total)
		assert.Equal(t, urls, events[0].URLs)
		assert.Equal(t, crawl.ProgressFinished, events[4].Type)

		var failed int
		for _, e := range events[1:4] {
			if e.Type == crawl.ProgressFailed {
				failed++
				assert.Equal(t, urls[1], e.URL)
				assert.Equal(t, "Timeout", websift.ErrorMessage(e.Error))
			}
		}
		assert.Equal(t, 1, failed)
		assert.Equal(t, 3, events[3].Completed)
	})
}

func TestAggregator_Run(t *testing.T) {
	t.Parallel()

	searcher := func(urls []string, err error) *mock.Searcher {
		return &mock.Searcher{
			NameFn: func() string { return websift.EngineDuckDuckGo },
			SearchFn: func(_ context.Context, _ string, _ int) ([]string, error) {
				return urls, err
			},
		}
	}

	t.Run("searches then aggregates", func(t *testing.T) {
		t.Parallel()

		urls := testURLs(2)
		var gotN int
		s := searcher(urls, nil)
		s.SearchFn = func(_ context.Context, query string, n int) ([]string, error) {
			gotN = n
			return urls, nil
		}
		a := &crawl.Aggregator{
			Searcher: s,
			Scraper: &crawl.Scraper{
				Fast:      failingFetcher(map[string]error{urls[1]: websift.Errorf(websift.ETIMEOUT, "Timeout")}),
				Extractor: recordExtractor(),
			},
		}

		run, err := a.Run(context.Background(), "golang", 2, true)

		require.NoError(t, err)
		assert.Equal(t, 2, gotN)
		assert.Equal(t, websift.EngineDuckDuckGo, run.Engine)
		assert.True(t, run.Quick)
		assert.Equal(t, urls, run.Report.URLs)
		assert.Equal(t, map[string]string{urls[1]: "Timeout"}, run.Reasons)
		require.NoError(t, run.Validate())
	})

	t.Run("fetches at most n results", func(t *testing.T) {
		t.Parallel()

		urls := testURLs(8)
		var calls atomic.Int64
		a := &crawl.Aggregator{
			Searcher: searcher(urls, nil),
			Scraper:  &crawl.Scraper{Fast: countingFetcher("<p>ok</p>", nil, &calls), Extractor: recordExtractor()},
		}

		run, err := a.Run(context.Background(), "golang", 3, true)

		require.NoError(t, err)
		assert.Equal(t, urls[:3], run.Report.URLs)
		assert.Equal(t, int64(3), calls.Load())
	})

	t.Run("search failure becomes no results", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int64
		a := &crawl.Aggregator{
			Searcher: searcher(nil, errors.New("connection refused")),
			Scraper:  &crawl.Scraper{Fast: countingFetcher("", nil, &calls), Extractor: recordExtractor()},
		}

		_, err := a.Run(context.Background(), "golang", 5, false)

		assert.Equal(t, websift.ENORESULTS, websift.ErrorCode(err))
		assert.Zero(t, calls.Load())
	})

	t.Run("configuration errors are returned", func(t *testing.T) {
		t.Parallel()

		for _, code := range []string{websift.EUNSUPPORTED, websift.ECREDENTIAL} {
			a := &crawl.Aggregator{
				Searcher: searcher(nil, websift.Errorf(code, "bad config")),
				Scraper:  &crawl.Scraper{Extractor: recordExtractor()},
			}

			_, err := a.Run(context.Background(), "golang", 5, false)

			assert.Equal(t, code, websift.ErrorCode(err))
			assert.Equal(t, "bad config", websift.ErrorMessage(err))
		}
	})
}

package zerolog_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/websift"
	"github.com/fwojciec/websift/mock"
	wzerolog "github.com/fwojciec/websift/zerolog"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("logs fetch with bytes and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "<html>content</html>", nil
			},
		}

		fetcher := wzerolog.NewLoggingFetcher(inner, websift.TierFast, zerolog.New(&buf))
		html, err := fetcher.Fetch(context.Background(), "https://example.com/docs")

		require.NoError(t, err)
		assert.Equal(t, "<html>content</html>", html)
		output := buf.String()
		assert.Contains(t, output, `"message":"fetch"`)
		assert.Contains(t, output, `"tier":"fast"`)
		assert.Contains(t, output, `"url":"https://example.com/docs"`)
		assert.Contains(t, output, `"bytes":20`)
		assert.Contains(t, output, `"duration":`)
		assert.NotContains(t, output, `"err"`)
	})

	t.Run("logs code and reason on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "", websift.Errorf(websift.ETIMEOUT, "Timeout (Browser)")
			},
		}

		fetcher := wzerolog.NewLoggingFetcher(inner, websift.TierResilient, zerolog.New(&buf))
		_, err := fetcher.Fetch(context.Background(), "https://example.com/docs")

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, `"code":"timeout"`)
		assert.Contains(t, output, `"err":"Timeout (Browser)"`)
	})

	t.Run("respects logger level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) { return "x", nil },
		}

		fetcher := wzerolog.NewLoggingFetcher(inner, websift.TierFast, zerolog.New(&buf).Level(zerolog.InfoLevel))
		_, err := fetcher.Fetch(context.Background(), "https://example.com/")

		require.NoError(t, err)
		assert.Empty(t, buf.String())
	})
}

func TestLoggingFetcher_Close(t *testing.T) {
	t.Parallel()

	closeCalled := false
	inner := &mock.Fetcher{
		CloseFn: func() error {
			closeCalled = true
			return nil
		},
	}

	fetcher := wzerolog.NewLoggingFetcher(inner, websift.TierFast, zerolog.Nop())

	require.NoError(t, fetcher.Close())
	assert.True(t, closeCalled)
}

func TestLoggingSearcher_Search(t *testing.T) {
	t.Parallel()

	t.Run("logs query and count", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Searcher{
			NameFn: func() string { return websift.EngineBing },
			SearchFn: func(_ context.Context, _ string, _ int) ([]string, error) {
				return []string{"https://a.example/", "https://b.example/"}, nil
			},
		}

		s := wzerolog.NewLoggingSearcher(inner, zerolog.New(&buf))
		urls, err := s.Search(context.Background(), "golang", 2)

		require.NoError(t, err)
		assert.Len(t, urls, 2)
		assert.Equal(t, websift.EngineBing, s.Name())
		output := buf.String()
		assert.Contains(t, output, `"message":"search"`)
		assert.Contains(t, output, `"engine":"bing"`)
		assert.Contains(t, output, `"query":"golang"`)
		assert.Contains(t, output, `"count":2`)
	})

	t.Run("logs failure at warn", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Searcher{
			NameFn: func() string { return websift.EngineGoogle },
			SearchFn: func(_ context.Context, _ string, _ int) ([]string, error) {
				return nil, errors.New("quota exceeded")
			},
		}

		s := wzerolog.NewLoggingSearcher(inner, zerolog.New(&buf))
		_, err := s.Search(context.Background(), "golang", 5)

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, `"level":"warn"`)
		assert.Contains(t, output, `"error":"quota exceeded"`)
	})
}

func TestNewConsoleLogger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		quiet     bool
		verbose   bool
		wantInfo  bool
		wantDebug bool
	}{
		{"default shows info", false, false, true, false},
		{"verbose shows debug", false, true, true, true},
		{"quiet shows nothing", true, false, false, false},
		{"quiet wins over verbose", true, true, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := wzerolog.NewConsoleLogger(&buf, tt.quiet, tt.verbose)
			logger.Info().Msg("info-line")
			logger.Debug().Msg("debug-line")

			assert.Equal(t, tt.wantInfo, bytes.Contains(buf.Bytes(), []byte("info-line")))
			assert.Equal(t, tt.wantDebug, bytes.Contains(buf.Bytes(), []byte("debug-line")))
		})
	}
}

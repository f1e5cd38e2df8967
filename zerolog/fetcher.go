// Package zerolog provides logging decorators and the console logger used
// by the command line tool.
package zerolog

import (
	"context"
	"time"

	"github.com/fwojciec/websift"
	"github.com/rs/zerolog"
)

// Ensure LoggingFetcher implements websift.Fetcher.
var _ websift.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with debug logging.
type LoggingFetcher struct {
	next   websift.Fetcher
	tier   websift.Tier
	logger zerolog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher for the given tier.
func NewLoggingFetcher(next websift.Fetcher, tier websift.Tier, logger zerolog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, tier: tier, logger: logger}
}

// Fetch logs the URL being fetched and delegates to the wrapped fetcher.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		e := f.logger.Debug().
			Str("tier", string(f.tier)).
			Str("url", url).
			Int("bytes", len(html)).
			Dur("duration", time.Since(begin))
		if err != nil {
			e = e.Str("code", websift.ErrorCode(err)).Str("err", websift.ErrorMessage(err))
		}
		e.Msg("fetch")
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}

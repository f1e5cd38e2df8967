package zerolog

import (
	"context"
	"time"

	"github.com/fwojciec/websift"
	"github.com/rs/zerolog"
)

// Ensure LoggingSearcher implements websift.Searcher.
var _ websift.Searcher = (*LoggingSearcher)(nil)

// LoggingSearcher wraps a Searcher with debug logging.
type LoggingSearcher struct {
	next   websift.Searcher
	logger zerolog.Logger
}

// NewLoggingSearcher creates a new LoggingSearcher.
func NewLoggingSearcher(next websift.Searcher, logger zerolog.Logger) *LoggingSearcher {
	return &LoggingSearcher{next: next, logger: logger}
}

// Name delegates to the wrapped searcher.
func (s *LoggingSearcher) Name() string {
	return s.next.Name()
}

// Search logs the query and delegates to the wrapped searcher.
func (s *LoggingSearcher) Search(ctx context.Context, query string, n int) (urls []string, err error) {
	defer func(begin time.Time) {
		e := s.logger.Debug()
		if err != nil {
			e = s.logger.Warn().Err(err)
		}
		e.Str("engine", s.next.Name()).
			Str("query", query).
			Int("count", len(urls)).
			Dur("duration", time.Since(begin)).
			Msg("search")
	}(time.Now())
	return s.next.Search(ctx, query, n)
}

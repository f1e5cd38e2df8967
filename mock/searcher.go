package mock

import (
	"context"

	"github.com/fwojciec/websift"
)

var _ websift.Searcher = (*Searcher)(nil)

// Searcher is a mock implementation of websift.Searcher.
type Searcher struct {
	NameFn   func() string
	SearchFn func(ctx context.Context, query string, n int) ([]string, error)
}

func (s *Searcher) Name() string {
	return s.NameFn()
}

func (s *Searcher) Search(ctx context.Context, query string, n int) ([]string, error) {
	return s.SearchFn(ctx, query, n)
}

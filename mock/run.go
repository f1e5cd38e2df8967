package mock

import (
	"context"

	"github.com/fwojciec/websift"
)

var _ websift.RunService = (*RunService)(nil)

// RunService is a mock implementation of websift.RunService.
type RunService struct {
	CreateRunFn   func(ctx context.Context, run *websift.Run) error
	FindRunByIDFn func(ctx context.Context, id string) (*websift.Run, error)
	FindRunsFn    func(ctx context.Context, filter websift.RunFilter) ([]*websift.Run, error)
}

func (s *RunService) CreateRun(ctx context.Context, run *websift.Run) error {
	return s.CreateRunFn(ctx, run)
}

func (s *RunService) FindRunByID(ctx context.Context, id string) (*websift.Run, error) {
	return s.FindRunByIDFn(ctx, id)
}

func (s *RunService) FindRuns(ctx context.Context, filter websift.RunFilter) ([]*websift.Run, error) {
	return s.FindRunsFn(ctx, filter)
}

var _ websift.PageArchive = (*PageArchive)(nil)

// PageArchive is a mock implementation of websift.PageArchive.
type PageArchive struct {
	SavePageFn func(ctx context.Context, page *websift.Page) error
}

func (a *PageArchive) SavePage(ctx context.Context, page *websift.Page) error {
	return a.SavePageFn(ctx, page)
}

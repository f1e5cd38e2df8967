package websift

import (
	"context"
	"time"
)

// Run is a persisted search report together with its metadata.
type Run struct {
	ID        string    `json:"id"`
	Engine    string    `json:"engine"`
	Quick     bool      `json:"quick"`
	Report    *Report   `json:"report"`
	CreatedAt time.Time `json:"createdAt"`

	// Reasons maps each failed URL to its error message.
	Reasons map[string]string `json:"reasons"`
}

// Validate returns an error if the run contains invalid fields.
func (r *Run) Validate() error {
	if r.Engine == "" {
		return Errorf(EINVALID, "run engine required")
	}
	if r.Report == nil {
		return Errorf(EINVALID, "run report required")
	}
	return r.Report.Validate()
}

// RunService represents a service for managing the run history.
type RunService interface {
	// CreateRun stores a run and assigns its ID and creation time.
	CreateRun(ctx context.Context, run *Run) error

	// FindRunByID retrieves a run by ID.
	// Returns ENOTFOUND if the run does not exist.
	FindRunByID(ctx context.Context, id string) (*Run, error)

	// FindRuns retrieves runs matching the filter, newest first.
	FindRuns(ctx context.Context, filter RunFilter) ([]*Run, error)
}

// RunFilter represents a filter for FindRuns.
type RunFilter struct {
	Query *string `json:"query"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// Page is a fetched page archived as markdown.
type Page struct {
	URL       string
	Title     string
	Content   string
	Hash      string
	FetchedAt time.Time
}

// PageArchive stores fetched pages.
type PageArchive interface {
	SavePage(ctx context.Context, page *Page) error
}

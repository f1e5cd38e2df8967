package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/websift"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ websift.RunService = (*RunService)(nil)

// RunService implements websift.RunService using SQLite.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

// CreateRun stores the run, its records and its failures in one transaction.
func (s *RunService) CreateRun(ctx context.Context, run *websift.Run) error {
	if err := run.Validate(); err != nil {
		return err
	}

	urls, err := encodeStrings(run.Report.URLs)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	id := uuid.New().String()
	createdAt := time.Now().UTC()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, query, engine, quick, urls, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, run.Report.Query, run.Engine, run.Quick, urls, formatTime(createdAt)); err != nil {
		return err
	}

	for i, rec := range run.Report.Results {
		paragraphs, err := encodeStrings(rec.Paragraphs)
		if err != nil {
			return err
		}
		links, err := encodeStrings(rec.Links)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO records (run_id, position, url, title, paragraphs, links, content_hash)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, id, i, rec.URL, rec.Title, paragraphs, links, ContentHash(rec)); err != nil {
			return err
		}
	}

	for i, u := range run.Report.Errors {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO failures (run_id, position, url, reason)
			VALUES (?, ?, ?, ?)
		`, id, i, u, run.Reasons[u]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	run.ID = id
	run.CreatedAt = createdAt
	return nil
}

// FindRunByID retrieves a run by ID.
func (s *RunService) FindRunByID(ctx context.Context, id string) (*websift.Run, error) {
	var run websift.Run
	var query, urls, createdAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, query, engine, quick, urls, created_at
		FROM runs
		WHERE id = ?
	`, id).Scan(&run.ID, &query, &run.Engine, &run.Quick, &urls, &createdAt)

	if err == sql.ErrNoRows {
		return nil, websift.Errorf(websift.ENOTFOUND, "run not found")
	}
	if err != nil {
		return nil, err
	}

	run.CreatedAt, err = parseTime(createdAt, "created_at")
	if err != nil {
		return nil, err
	}

	run.Report = &websift.Report{Query: query}
	run.Report.URLs, err = decodeStrings(urls, "urls")
	if err != nil {
		return nil, err
	}

	if err := s.loadRecords(ctx, &run); err != nil {
		return nil, err
	}
	if err := s.loadFailures(ctx, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

// FindRuns retrieves runs matching the filter, newest first.
func (s *RunService) FindRuns(ctx context.Context, filter websift.RunFilter) ([]*websift.Run, error) {
	var query strings.Builder
	query.WriteString("SELECT id FROM runs WHERE 1=1")

	var args []any
	if filter.Query != nil {
		query.WriteString(" AND query = ?")
		args = append(args, *filter.Query)
	}

	query.WriteString(" ORDER BY created_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}

	// The pool holds a single connection, so ids are drained before the
	// child rows are loaded.
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	runs := make([]*websift.Run, 0, len(ids))
	for _, id := range ids {
		run, err := s.FindRunByID(ctx, id)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, nil
}

func (s *RunService) loadRecords(ctx context.Context, run *websift.Run) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT url, title, paragraphs, links
		FROM records
		WHERE run_id = ?
		ORDER BY position
	`, run.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	run.Report.Results = []*websift.Record{}
	for rows.Next() {
		var rec websift.Record
		var paragraphs, links string
		if err := rows.Scan(&rec.URL, &rec.Title, &paragraphs, &links); err != nil {
			return err
		}
		if rec.Paragraphs, err = decodeStrings(paragraphs, "paragraphs"); err != nil {
			return err
		}
		if rec.Links, err = decodeStrings(links, "links"); err != nil {
			return err
		}
		run.Report.Results = append(run.Report.Results, &rec)
	}
	return rows.Err()
}

func (s *RunService) loadFailures(ctx context.Context, run *websift.Run) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT url, reason
		FROM failures
		WHERE run_id = ?
		ORDER BY position
	`, run.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	run.Report.Errors = []string{}
	run.Reasons = map[string]string{}
	for rows.Next() {
		var u, reason string
		if err := rows.Scan(&u, &reason); err != nil {
			return err
		}
		run.Report.Errors = append(run.Report.Errors, u)
		if reason != "" {
			run.Reasons[u] = reason
		}
	}
	return rows.Err()
}

// ContentHash fingerprints a record's text so repeated pages can be found
// across runs.
func ContentHash(rec *websift.Record) string {
	d := xxhash.New()
	_, _ = d.WriteString(rec.Title)
	for _, p := range rec.Paragraphs {
		_, _ = d.WriteString("\n")
		_, _ = d.WriteString(p)
	}
	return fmt.Sprintf("%016x", d.Sum64())
}

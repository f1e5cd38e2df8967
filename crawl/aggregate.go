package crawl

import (
	"context"
	"sync/atomic"

	"github.com/fwojciec/websift"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is the default number of concurrent fetches.
const DefaultWorkers = 5

// Aggregator runs a Scraper over many URLs and assembles a report.
type Aggregator struct {
	Searcher websift.Searcher
	Scraper  *Scraper
	Workers  int

	// Progress, if set, receives events as URLs complete.
	Progress ProgressFunc
}

// ProgressEvent reports progress during aggregation.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Tier      websift.Tier
	Error     error

	// URLs lists every URL to be fetched. Set on ProgressStarted only.
	URLs []string
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting aggregation progress. It is
// called from a single goroutine.
type ProgressFunc func(event ProgressEvent)

// Run searches for query and aggregates the first n results into a run.
// Results beyond n are dropped even if the searcher returned them.
//
// A failed search is logged and treated as an empty result list, which
// yields ENORESULTS. Unsupported engines and missing credentials are
// returned as is.
func (a *Aggregator) Run(ctx context.Context, query string, n int, quick bool) (*websift.Run, error) {
	urls, err := a.Searcher.Search(ctx, query, n)
	if err != nil {
		switch websift.ErrorCode(err) {
		case websift.EUNSUPPORTED, websift.ECREDENTIAL:
			return nil, err
		}
		zerolog.Ctx(ctx).Error().Err(err).
			Str("engine", a.Searcher.Name()).
			Str("query", query).
			Msg("search failed")
		urls = nil
	}
	if n > 0 && len(urls) > n {
		urls = urls[:n]
	}

	run, err := a.aggregate(ctx, query, urls, quick)
	if err != nil {
		return nil, err
	}
	run.Engine = a.Searcher.Name()
	return run, nil
}

// Aggregate fetches every URL and returns the report. The report lists
// urls in input order, and results and errors follow the same order.
// One URL's failure never affects the others.
func (a *Aggregator) Aggregate(ctx context.Context, query string, urls []string, quick bool) (*websift.Report, error) {
	run, err := a.aggregate(ctx, query, urls, quick)
	if err != nil {
		return nil, err
	}
	return run.Report, nil
}

func (a *Aggregator) aggregate(ctx context.Context, query string, urls []string, quick bool) (*websift.Run, error) {
	if len(urls) == 0 {
		return nil, websift.Errorf(websift.ENORESULTS, "%s", websift.NoResultsMessage)
	}

	outcomes := a.collect(ctx, urls, quick)

	report := &websift.Report{
		Query:   query,
		URLs:    append([]string(nil), urls...),
		Results: []*websift.Record{},
		Errors:  []string{},
	}
	reasons := make(map[string]string)
	for _, o := range outcomes {
		if o.Failed() {
			report.Errors = append(report.Errors, o.URL)
			reasons[o.URL] = o.Reason()
			continue
		}
		report.Results = append(report.Results, o.Record)
	}

	return &websift.Run{
		Quick:   quick,
		Report:  report,
		Reasons: reasons,
	}, nil
}

// collect runs the scraper over urls and returns outcomes by input position.
func (a *Aggregator) collect(ctx context.Context, urls []string, quick bool) []websift.Outcome {
	progress := a.Progress
	workers := a.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	type result struct {
		position int
		outcome  websift.Outcome
	}
	resultCh := make(chan result, len(urls))

	var completed atomic.Int64
	total := len(urls)

	if progress != nil {
		progress(ProgressEvent{
			Type:  ProgressStarted,
			Total: total,
			URLs:  urls,
		})
	}

	// Workers never return an error, so the group context is never
	// canceled by a sibling's failure.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	go func() {
		for i, u := range urls {
			g.Go(func() error {
				resultCh <- result{position: i, outcome: a.Scraper.FetchAndParse(gctx, u, quick)}
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	outcomes := make([]websift.Outcome, len(urls))
	for r := range resultCh {
		completed.Add(1)
		outcomes[r.position] = r.outcome

		if progress == nil {
			continue
		}
		event := ProgressEvent{
			Type:      ProgressCompleted,
			Completed: int(completed.Load()),
			Total:     total,
			URL:       r.outcome.URL,
			Tier:      r.outcome.Tier,
		}
		if r.outcome.Failed() {
			event.Type = ProgressFailed
			event.Error = r.outcome.Err
		}
		progress(event)
	}

	if progress != nil {
		progress(ProgressEvent{
			Type:      ProgressFinished,
			Completed: total,
			Total:     total,
		})
	}

	return outcomes
}

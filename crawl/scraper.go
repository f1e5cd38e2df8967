// Package crawl turns a list of search results into a report. The Scraper
// fetches and parses one URL, escalating from the fast fetcher to the
// resilient one, and the Aggregator runs it over a bounded worker pool.
package crawl

import (
	"context"

	"github.com/fwojciec/websift"
	"github.com/rs/zerolog"
)

// Scraper fetches a single URL and extracts its record.
type Scraper struct {
	Fast      websift.Fetcher
	Resilient websift.Fetcher
	Extractor websift.Extractor

	// RateLimiter, if set, is waited on before every fetch tier.
	RateLimiter websift.DomainLimiter

	// Archiver, if set, receives every successfully fetched page. Archive
	// failures are logged and never change the outcome.
	Archiver *Archiver
}

// state is a step of FetchAndParse.
type state int

const (
	stateIdle state = iota
	stateFastAttempted
	stateEscalatedAttempted
	stateDone
)

// FetchAndParse fetches url with the fast fetcher and, unless quick is set,
// escalates once to the resilient fetcher when the fast fetch fails. The
// reported reason is always that of the last tier attempted.
//
// Fetch failures are returned inside the Outcome, never as a Go error.
func (s *Scraper) FetchAndParse(ctx context.Context, url string, quick bool) websift.Outcome {
	out := websift.Outcome{URL: url}

	var html string
	var err error
	for st := stateIdle; st != stateDone; {
		switch st {
		case stateIdle:
			out.Tier = websift.TierFast
			html, err = s.fetch(ctx, s.Fast, url)
			st = stateFastAttempted
		case stateFastAttempted:
			if err == nil || quick || s.Resilient == nil {
				st = stateDone
				continue
			}
			zerolog.Ctx(ctx).Debug().
				Str("url", url).
				Str("reason", websift.ErrorMessage(err)).
				Msg("escalating to browser")
			out.Tier = websift.TierResilient
			html, err = s.fetch(ctx, s.Resilient, url)
			st = stateEscalatedAttempted
		case stateEscalatedAttempted:
			st = stateDone
		}
	}

	if err != nil {
		out.Err = err
		return out
	}

	out.Record = s.Extractor.Extract(url, html)
	out.HTML = html

	if s.Archiver != nil {
		if err := s.Archiver.Save(ctx, url, html); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("url", url).Msg("archive failed")
		}
	}
	return out
}

func (s *Scraper) fetch(ctx context.Context, f websift.Fetcher, url string) (string, error) {
	if s.RateLimiter != nil {
		if err := s.RateLimiter.Wait(ctx, Host(url)); err != nil {
			return "", websift.Errorf(websift.EREQUEST, "Request failed: %v", err)
		}
	}
	return f.Fetch(ctx, url)
}

package main

import (
	"fmt"

	"github.com/fwojciec/websift"
	"github.com/fwojciec/websift/crawl"
	"github.com/fwojciec/websift/fs"
	"github.com/rs/zerolog"
)

const noPathWarning = "JSON output path not specified. Scraped data will NOT be saved. To save results, provide: --path <file.json>"

// Run executes the scrape command.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	log := deps.Logger

	log.Info().Msgf("Starting web scraping for query: '%s'", c.Query)
	if c.Path == "" {
		log.Warn().Msg(noPathWarning)
	} else {
		log.Info().Msgf("Results will be saved to: %s", c.Path)
	}

	run, err := deps.Aggregator.Run(deps.Ctx, c.Query, c.N, c.Quick)
	if websift.ErrorCode(err) == websift.ENORESULTS {
		log.Warn().Msg(websift.NoResultsMessage)
		return c.write(deps, &websift.ErrorReport{Errors: websift.NoResultsMessage})
	}
	if err != nil {
		return err
	}

	log.Info().Msgf("Total URLs processed: %d", len(run.Report.URLs))
	log.Info().Msgf("Errors encountered: %d", len(run.Report.Errors))

	if deps.Runs != nil {
		if err := deps.Runs.CreateRun(deps.Ctx, run); err != nil {
			log.Warn().Err(err).Msg("failed to record run history")
		} else {
			log.Debug().Str("run", run.ID).Msg("recorded run")
		}
	}

	return c.write(deps, run.Report)
}

// write persists v to the output path, or prints it when no path is set.
func (c *ScrapeCmd) write(deps *Dependencies, v any) error {
	if c.Path == "" {
		return fs.Encode(deps.Stdout, v)
	}
	if err := fs.WriteReport(c.Path, v); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// LogProgress returns a progress callback that lists the search results
// and logs every skipped URL.
func LogProgress(log zerolog.Logger, engine string) crawl.ProgressFunc {
	return func(e crawl.ProgressEvent) {
		switch e.Type {
		case crawl.ProgressStarted:
			log.Info().Msgf("------- %s search results -------", engine)
			for i, u := range e.URLs {
				log.Info().Msgf("%d. %s", i+1, u)
			}
		case crawl.ProgressCompleted:
			log.Debug().
				Str("url", e.URL).
				Str("tier", string(e.Tier)).
				Int("completed", e.Completed).
				Int("total", e.Total).
				Msg("scraped")
		case crawl.ProgressFailed:
			log.Warn().Msgf("Skipping %s due to error: %s", e.URL, websift.ErrorMessage(e.Error))
		}
	}
}

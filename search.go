package websift

import "context"

// Search engine names.
const (
	EngineDuckDuckGo = "duckduckgo"
	EngineGoogle     = "google"
	EngineBing       = "bing"
)

// Engines lists the supported search engines.
var Engines = []string{EngineDuckDuckGo, EngineGoogle, EngineBing}

// Searcher turns a query into an ordered list of result URLs.
type Searcher interface {
	// Name returns the engine name.
	Name() string

	// Search returns at most n result URLs for the query, in rank order.
	Search(ctx context.Context, query string, n int) ([]string, error)
}

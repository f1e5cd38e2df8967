package websift

// NoResultsMessage is reported when a search produced no URLs to fetch.
const NoResultsMessage = "No URLs found for the search query or an error occurred."

// TitleMissing is the title recorded for pages without a <title> element.
const TitleMissing = "N/A"

// Record holds the content extracted from one fetched page.
type Record struct {
	URL        string   `json:"url"`
	Title      string   `json:"title"`
	Paragraphs []string `json:"paragraphs"`
	Links      []string `json:"links"`
}

// Tier identifies which fetcher produced an outcome.
type Tier string

// Tier constants.
const (
	TierFast      Tier = "fast"
	TierResilient Tier = "resilient"
)

// Outcome is the result of fetching and parsing a single URL.
// Exactly one of Record and Err is set.
type Outcome struct {
	URL    string
	Record *Record
	Err    error

	// Tier is the last fetcher tier that was attempted.
	Tier Tier

	// HTML is the markup the record was extracted from. Empty on failure.
	HTML string
}

// Failed reports whether the outcome is an error.
func (o *Outcome) Failed() bool {
	return o.Err != nil
}

// Reason returns the error message for a failed outcome.
func (o *Outcome) Reason() string {
	return ErrorMessage(o.Err)
}

// Report aggregates the outcomes for every URL returned by a search.
type Report struct {
	Query   string    `json:"query"`
	URLs    []string  `json:"urls"`
	Results []*Record `json:"results"`
	Errors  []string  `json:"errors"`
}

// Validate returns an error if the results and errors do not partition
// the report's URLs.
func (r *Report) Validate() error {
	if r.Query == "" {
		return Errorf(EINVALID, "report query required")
	}
	if len(r.Results)+len(r.Errors) != len(r.URLs) {
		return Errorf(EINVALID, "report accounts for %d of %d urls", len(r.Results)+len(r.Errors), len(r.URLs))
	}

	pending := make(map[string]int, len(r.URLs))
	for _, u := range r.URLs {
		pending[u]++
	}
	claim := func(u string) error {
		if pending[u] == 0 {
			return Errorf(EINVALID, "report outcome %q does not match a pending url", u)
		}
		pending[u]--
		return nil
	}
	for _, rec := range r.Results {
		if rec == nil {
			return Errorf(EINVALID, "report contains nil result")
		}
		if err := claim(rec.URL); err != nil {
			return err
		}
	}
	for _, u := range r.Errors {
		if err := claim(u); err != nil {
			return err
		}
	}
	return nil
}

// ErrorReport is written instead of a Report when there was nothing to fetch.
type ErrorReport struct {
	Errors string `json:"errors"`
}

// Package trafilatura reduces fetched pages to their main content before
// they are archived.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/websift"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements websift.ContentExtractor at compile time.
var _ websift.ContentExtractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura. Comments sections are dropped and tables
// are kept. Anchors survive only when the main extractor produces the
// content; short pages handled by the baseline fallback come back as plain
// paragraphs with the link text inline.
type Extractor struct {
	opts trafilatura.Options
}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{
		opts: trafilatura.Options{
			EnableFallback:  true,
			ExcludeComments: true,
			IncludeLinks:    true,
		},
	}
}

// ExtractContent returns the page title and main content as HTML. Pages
// without recognizable content yield EINVALID.
func (e *Extractor) ExtractContent(rawHTML string) (string, string, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return "", "", websift.Errorf(websift.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), e.opts)
	if err != nil {
		return "", "", websift.Errorf(websift.EINVALID, "no main content: %v", err)
	}
	if result.ContentNode == nil {
		return "", "", websift.Errorf(websift.EINVALID, "no main content")
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, result.ContentNode); err != nil {
		return "", "", err
	}

	title := strings.TrimSpace(result.Metadata.Title)
	if title == "" {
		title = websift.TitleMissing
	}
	return title, buf.String(), nil
}

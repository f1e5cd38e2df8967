// Package readability is the fallback main-content extractor for archived
// pages that trafilatura cannot reduce.
package readability

import (
	"strings"

	"github.com/fwojciec/websift"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements websift.ContentExtractor at compile time.
var _ websift.ContentExtractor = (*Extractor)(nil)

// Extractor wraps go-readability.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractContent returns the article title and content HTML.
func (e *Extractor) ExtractContent(rawHTML string) (string, string, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return "", "", websift.Errorf(websift.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return "", "", websift.Errorf(websift.EINVALID, "no readable content: %v", err)
	}
	if strings.TrimSpace(article.Content) == "" {
		return "", "", websift.Errorf(websift.EINVALID, "no readable content")
	}

	title := strings.TrimSpace(article.Title)
	if title == "" {
		title = websift.TitleMissing
	}
	return title, article.Content, nil
}

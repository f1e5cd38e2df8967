// Package goquery implements HTML parsing on top of goquery: page content
// extraction and search result page scraping.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/websift"
)

// Ensure Extractor implements websift.Extractor at compile time.
var _ websift.Extractor = (*Extractor)(nil)

// Extractor extracts the title, paragraphs and absolute links of a page.
// It holds no state and is safe for concurrent use.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract parses html and returns its record. Malformed or empty markup
// yields a record with the "N/A" title and empty sequences.
func (e *Extractor) Extract(url, html string) *websift.Record {
	rec := &websift.Record{
		URL:        url,
		Title:      websift.TitleMissing,
		Paragraphs: []string{},
		Links:      []string{},
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return rec
	}

	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		rec.Title = title
	}

	doc.Find("p").Each(func(_ int, sel *goquery.Selection) {
		if text := strings.TrimSpace(sel.Text()); text != "" {
			rec.Paragraphs = append(rec.Paragraphs, text)
		}
	})

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href := strings.TrimSpace(sel.AttrOr("href", ""))
		if isAbsoluteHTTP(href) {
			rec.Links = append(rec.Links, href)
		}
	})

	return rec
}

// isAbsoluteHTTP reports whether href is an absolute http or https URL.
func isAbsoluteHTTP(href string) bool {
	lower := strings.ToLower(href)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

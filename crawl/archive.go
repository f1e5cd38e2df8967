package crawl

import (
	"context"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/websift"
)

// Archiver stores the main content of fetched pages as markdown.
type Archiver struct {
	// Content reduces a page to its main content. When nil the full page
	// is converted.
	Content   websift.ContentExtractor
	Converter websift.Converter
	Archive   websift.PageArchive

	// Now returns the archive timestamp. Defaults to time.Now.
	Now func() time.Time
}

// Save converts html fetched from url and stores it.
func (a *Archiver) Save(ctx context.Context, url, html string) error {
	title, content := websift.TitleMissing, html
	if a.Content != nil {
		var err error
		title, content, err = a.Content.ExtractContent(html)
		if err != nil {
			return fmt.Errorf("extracting content: %w", err)
		}
	}

	markdown, err := a.Converter.Convert(content)
	if err != nil {
		return fmt.Errorf("converting to markdown: %w", err)
	}

	now := time.Now
	if a.Now != nil {
		now = a.Now
	}

	return a.Archive.SavePage(ctx, &websift.Page{
		URL:       url,
		Title:     title,
		Content:   markdown,
		Hash:      ComputeHash(markdown),
		FetchedAt: now().UTC(),
	})
}

// ContentChain tries each extractor in turn and returns the first success.
type ContentChain []websift.ContentExtractor

// ExtractContent implements websift.ContentExtractor. The last extractor's
// error is returned when all of them fail.
func (c ContentChain) ExtractContent(html string) (string, string, error) {
	var err error = websift.Errorf(websift.EINVALID, "no content extractor")
	for _, ext := range c {
		var title, content string
		if title, content, err = ext.ExtractContent(html); err == nil {
			return title, content, nil
		}
	}
	return "", "", err
}

// ComputeHash computes a hash of the content using xxhash.
func ComputeHash(content string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(content))
}

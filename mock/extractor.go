package mock

import "github.com/fwojciec/websift"

var _ websift.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of websift.Extractor.
type Extractor struct {
	ExtractFn func(url, html string) *websift.Record
}

func (e *Extractor) Extract(url, html string) *websift.Record {
	return e.ExtractFn(url, html)
}

var _ websift.Converter = (*Converter)(nil)

// Converter is a mock implementation of websift.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

var _ websift.ContentExtractor = (*ContentExtractor)(nil)

// ContentExtractor is a mock implementation of websift.ContentExtractor.
type ContentExtractor struct {
	ExtractContentFn func(html string) (string, string, error)
}

func (e *ContentExtractor) ExtractContent(html string) (string, string, error) {
	return e.ExtractContentFn(html)
}

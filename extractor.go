package websift

// Extractor turns page markup into a Record.
//
// Extraction is a pure transformation: the same markup always yields an
// identical Record and malformed markup degrades to empty fields instead of
// failing.
type Extractor interface {
	Extract(url, html string) *Record
}

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms HTML content into Markdown.
	Convert(html string) (string, error)
}

// ContentExtractor reduces a full page to its main content, removing
// navigation, footers and other boilerplate.
type ContentExtractor interface {
	// ExtractContent returns the page title and the main content as HTML.
	ExtractContent(html string) (title, contentHTML string, err error)
}

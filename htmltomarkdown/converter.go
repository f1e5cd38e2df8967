// Package htmltomarkdown renders the main content of archived pages as
// Markdown.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/strikethrough"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/websift"
)

var _ websift.Converter = (*Converter)(nil)

// Converter renders extracted page content as CommonMark. Tables and
// strikethrough are kept since scraped articles use both.
type Converter struct {
	md *converter.Converter
}

// NewConverter returns a Converter with the archive plugin set.
func NewConverter() *Converter {
	return &Converter{md: converter.NewConverter(converter.WithPlugins(archivePlugins()...))}
}

func archivePlugins() []converter.Plugin {
	return []converter.Plugin{
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
		strikethrough.NewStrikethroughPlugin(),
		table.NewTablePlugin(),
	}
}

// Convert renders contentHTML. Blank input is EINVALID, and the output is
// trimmed so the archive front matter is followed by text directly.
func (c *Converter) Convert(contentHTML string) (string, error) {
	if strings.TrimSpace(contentHTML) == "" {
		return "", websift.Errorf(websift.EINVALID, "empty HTML input")
	}

	out, err := c.md.ConvertString(contentHTML)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

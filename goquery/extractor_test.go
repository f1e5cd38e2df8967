package goquery_test

import (
	"testing"

	"github.com/fwojciec/websift"
	"github.com/fwojciec/websift/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts title, non-empty paragraphs and absolute links", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><title>T</title></head><body><p>Hello</p><p>  </p><a href="https://x.com">x</a><a href="/rel">r</a></body></html>`

		rec := goquery.NewExtractor().Extract("https://example.com", html)

		require.NotNil(t, rec)
		assert.Equal(t, "https://example.com", rec.URL)
		assert.Equal(t, "T", rec.Title)
		assert.Equal(t, []string{"Hello"}, rec.Paragraphs)
		assert.Equal(t, []string{"https://x.com"}, rec.Links)
	})

	t.Run("missing title becomes N/A", func(t *testing.T) {
		t.Parallel()

		rec := goquery.NewExtractor().Extract("https://example.com", `<html><body><p>Body</p></body></html>`)

		assert.Equal(t, websift.TitleMissing, rec.Title)
	})

	t.Run("blank title becomes N/A", func(t *testing.T) {
		t.Parallel()

		rec := goquery.NewExtractor().Extract("https://example.com", `<html><head><title>   </title></head></html>`)

		assert.Equal(t, "N/A", rec.Title)
	})

	t.Run("uses first title element", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><title> First </title></head><body><svg><title>Second</title></svg></body></html>`

		rec := goquery.NewExtractor().Extract("https://example.com", html)

		assert.Equal(t, "First", rec.Title)
	})

	t.Run("keeps paragraphs in document order and trims them", func(t *testing.T) {
		t.Parallel()

		html := `<body><p>  one </p><div><p>two <b>bold</b></p></div><p>
			three
		</p></body>`

		rec := goquery.NewExtractor().Extract("https://example.com", html)

		assert.Equal(t, []string{"one", "two bold", "three"}, rec.Paragraphs)
	})

	t.Run("retains duplicate links and skips non-http schemes", func(t *testing.T) {
		t.Parallel()

		html := `<body>
			<a href="https://a.com">a</a>
			<a href="mailto:me@a.com">mail</a>
			<a href="javascript:void(0)">js</a>
			<a href="HTTP://B.COM/x">b</a>
			<a href="https://a.com">a again</a>
			<a href="ftp://files.a.com">ftp</a>
			<a>no href</a>
		</body>`

		rec := goquery.NewExtractor().Extract("https://example.com", html)

		assert.Equal(t, []string{"https://a.com", "HTTP://B.COM/x", "https://a.com"}, rec.Links)
	})

	t.Run("empty markup yields empty record", func(t *testing.T) {
		t.Parallel()

		rec := goquery.NewExtractor().Extract("https://example.com", "")

		assert.Equal(t, "N/A", rec.Title)
		assert.Empty(t, rec.Paragraphs)
		assert.NotNil(t, rec.Paragraphs)
		assert.Empty(t, rec.Links)
		assert.NotNil(t, rec.Links)
	})

	t.Run("is deterministic across calls", func(t *testing.T) {
		t.Parallel()

		html := `<title>Same</title><p>a</p><p>b</p><a href="https://c.com">c</a>`
		e := goquery.NewExtractor()

		first := e.Extract("https://example.com", html)
		second := e.Extract("https://example.com", html)

		assert.Equal(t, first, second)
	})
}

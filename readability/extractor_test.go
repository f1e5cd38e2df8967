package readability_test

import (
	"testing"

	"github.com/fwojciec/websift"
	"github.com/fwojciec/websift/readability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_ExtractContent(t *testing.T) {
	t.Parallel()

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		_, _, err := readability.NewExtractor().ExtractContent(" \n")

		require.Error(t, err)
		assert.Equal(t, websift.EINVALID, websift.ErrorCode(err))
	})

	t.Run("extracts title", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Page Title</title></head>
<body><article><p>Content</p></article></body>
</html>`

		title, _, err := readability.NewExtractor().ExtractContent(html)

		require.NoError(t, err)
		assert.Equal(t, "Page Title", title)
	})

	t.Run("drops navigation", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Test</title></head>
<body>
<nav><a href="/home">Home Nav Link</a><a href="/about">About Nav Link</a></nav>
<article><p>This is the main article content that should be preserved in the output.</p></article>
</body>
</html>`

		_, content, err := readability.NewExtractor().ExtractContent(html)

		require.NoError(t, err)
		assert.Contains(t, content, "main article content")
		assert.NotContains(t, content, "Home Nav Link")
	})
}

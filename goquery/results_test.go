package goquery_test

import (
	"testing"

	"github.com/fwojciec/websift/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const duckDuckGoPage = `<!DOCTYPE html>
<html>
<body>
<div class="results">
	<div class="result results_links results_links_deep result--ad">
		<a class="result__a" href="https://duckduckgo.com/y.js?ad_provider=bing">Sponsored</a>
	</div>
	<div class="result results_links results_links_deep web-result">
		<h2 class="result__title">
			<a rel="nofollow" class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fgo.dev%2Fdoc%2F&amp;rut=abc">Documentation</a>
		</h2>
	</div>
	<div class="result results_links results_links_deep web-result">
		<h2 class="result__title">
			<a rel="nofollow" class="result__a" href="https://pkg.go.dev/std">Standard library</a>
		</h2>
	</div>
	<div class="result results_links web-result">
		<a class="result__a" href="/relative">Relative</a>
	</div>
</div>
<div class="nav-link">
	<form action="/html/" method="post">
		<input type="submit" class="btn btn--alt" value="Next">
		<input type="hidden" name="q" value="golang">
		<input type="hidden" name="s" value="10">
		<input type="hidden" name="dc" value="11">
		<input type="hidden" name="vqd" value="4-123">
	</form>
</div>
</body>
</html>`

func TestParseDuckDuckGo(t *testing.T) {
	t.Parallel()

	t.Run("returns organic results with redirects unwrapped", func(t *testing.T) {
		t.Parallel()

		page, err := goquery.ParseDuckDuckGo(duckDuckGoPage)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://go.dev/doc/", "https://pkg.go.dev/std"}, page.URLs)
	})

	t.Run("returns next page form values", func(t *testing.T) {
		t.Parallel()

		page, err := goquery.ParseDuckDuckGo(duckDuckGoPage)

		require.NoError(t, err)
		require.NotNil(t, page.Next)
		assert.Equal(t, "golang", page.Next.Get("q"))
		assert.Equal(t, "10", page.Next.Get("s"))
		assert.Equal(t, "4-123", page.Next.Get("vqd"))
	})

	t.Run("last page has no next form", func(t *testing.T) {
		t.Parallel()

		html := `<div class="result"><a class="result__a" href="https://a.com">A</a></div>
<div class="nav-link"><form><input type="submit" value="Previous"><input type="hidden" name="s" value="0"></form></div>`

		page, err := goquery.ParseDuckDuckGo(html)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://a.com"}, page.URLs)
		assert.Nil(t, page.Next)
	})

	t.Run("no results", func(t *testing.T) {
		t.Parallel()

		page, err := goquery.ParseDuckDuckGo(`<div class="no-results">No results.</div>`)

		require.NoError(t, err)
		assert.Empty(t, page.URLs)
		assert.Nil(t, page.Next)
	})
}

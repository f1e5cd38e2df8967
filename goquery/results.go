package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/websift"
)

// SearchPage is a parsed search engine result page.
type SearchPage struct {
	// URLs are the organic result links in rank order.
	URLs []string

	// Next holds the form values that request the following page, or nil
	// on the last page.
	Next url.Values
}

// ParseDuckDuckGo parses a page from DuckDuckGo's HTML endpoint. Ads are
// skipped and redirect links are unwrapped to their targets.
func ParseDuckDuckGo(html string) (*SearchPage, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, websift.Errorf(websift.EINVALID, "failed to parse HTML: %v", err)
	}

	page := &SearchPage{}
	doc.Find("div.result").Not(".result--ad").Find("a.result__a").Each(func(_ int, sel *goquery.Selection) {
		target := unwrapRedirect(sel.AttrOr("href", ""))
		if isAbsoluteHTTP(target) {
			page.URLs = append(page.URLs, target)
		}
	})

	doc.Find("div.nav-link form").EachWithBreak(func(_ int, form *goquery.Selection) bool {
		if form.Find(`input[type="submit"][value="Next"]`).Length() == 0 {
			return true
		}
		values := url.Values{}
		form.Find(`input[type="hidden"][name]`).Each(func(_ int, input *goquery.Selection) {
			values.Set(input.AttrOr("name", ""), input.AttrOr("value", ""))
		})
		page.Next = values
		return false
	})

	return page, nil
}

// unwrapRedirect returns the target of a DuckDuckGo /l/?uddg= redirect link,
// or href unchanged.
func unwrapRedirect(href string) string {
	href = strings.TrimSpace(href)
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}

	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if strings.HasSuffix(u.Hostname(), "duckduckgo.com") && strings.HasPrefix(u.Path, "/l/") {
		if target := u.Query().Get("uddg"); target != "" {
			return target
		}
	}
	return href
}

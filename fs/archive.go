// Package fs provides file-based storage for reports and archived pages.
package fs

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/websift"
)

// URLToPath converts a page URL to a relative file path under its host.
// Example: https://example.com/docs/api/users → example.com/docs/api/users.md
//
// Distinct query strings map to distinct files. Fragments are ignored.
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", websift.Errorf(websift.EINVALID, "url has no host: %s", rawURL)
	}

	for _, seg := range strings.Split(u.Path, "/") {
		if seg == ".." {
			return "", websift.Errorf(websift.EINVALID, "path traversal in url: %s", rawURL)
		}
	}

	p := strings.TrimPrefix(u.Path, "/")
	switch {
	case p == "":
		p = "index"
	case strings.HasSuffix(p, "/"):
		p += "index"
	}
	if u.RawQuery != "" {
		p += fmt.Sprintf("-%08x", uint32(xxhash.Sum64String(u.RawQuery)))
	}

	return path.Join(host, p) + ".md", nil
}

// FormatPage formats a page with YAML front matter.
func FormatPage(page *websift.Page) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("source: ")
	b.WriteString(page.URL)
	b.WriteString("\ntitle: ")
	b.WriteString(page.Title)
	b.WriteString("\nfetched: ")
	b.WriteString(page.FetchedAt.Format("2006-01-02T15:04:05Z07:00"))
	if page.Hash != "" {
		b.WriteString("\nhash: ")
		b.WriteString(page.Hash)
	}
	b.WriteString("\n---\n\n")
	b.WriteString(page.Content)
	b.WriteString("\n")
	return b.String()
}

// Ensure Archive implements websift.PageArchive at compile time.
var _ websift.PageArchive = (*Archive)(nil)

// Archive writes pages as markdown files below a base directory. Each file
// is written to a temporary name and renamed into place, so readers never
// observe a partial page.
type Archive struct {
	baseDir string
}

// NewArchive creates an Archive rooted at baseDir.
func NewArchive(baseDir string) *Archive {
	return &Archive{baseDir: baseDir}
}

// SavePage writes page to <baseDir>/<host>/<path>.md, replacing any
// previous version.
func (a *Archive) SavePage(ctx context.Context, page *websift.Page) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	relPath, err := URLToPath(page.URL)
	if err != nil {
		return err
	}
	fullPath := filepath.Join(a.baseDir, filepath.FromSlash(relPath))

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".page-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(FormatPage(page)); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), fullPath)
}

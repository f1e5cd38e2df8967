package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/websift"
	main "github.com/fwojciec/websift/cmd/websift"
	"github.com/fwojciec/websift/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain_Run_Help(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"--help"}, &stdout, &stderr)

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "websift")
	assert.Contains(t, stdout.String(), "--num_search_results")
	assert.Contains(t, stdout.String(), "--quick")
}

func TestMain_Run_NoArgs(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{}, &stdout, &stderr)

	assert.Error(t, err)
}

func TestMain_Run_UnsupportedEngine(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	defer m.Close()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"golang", "--engine", "yahoo"}, &stdout, &stderr)

	require.Error(t, err)
	assert.Equal(t, websift.EUNSUPPORTED, websift.ErrorCode(err))
	assert.Empty(t, stdout.String())
}

func TestMain_Run_MissingCredential(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")

	m := main.NewMain()
	defer m.Close()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"golang", "--engine", "google"}, &stdout, &stderr)

	require.Error(t, err)
	assert.Equal(t, websift.ECREDENTIAL, websift.ErrorCode(err))
	assert.Contains(t, websift.ErrorMessage(err), "GOOGLE_API_KEY")
}

func TestMain_Run_InvalidConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "websift.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: many\n"), 0o644))

	m := main.NewMain()
	defer m.Close()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"golang", "--config", path}, &stdout, &stderr)

	require.Error(t, err)
	assert.Equal(t, websift.EINVALID, websift.ErrorCode(err))
}

func TestMain_Run_Quick(t *testing.T) {
	t.Parallel()

	article := `<html><head><title>Goroutines Explained</title></head><body>
<article>
<h1>Goroutines Explained</h1>
<p>Goroutines are lightweight threads managed by the Go runtime and they are cheap to start.</p>
<p>Channels let goroutines communicate without sharing memory, see <a href="https://go.dev/tour">the tour</a>.</p>
<p>The scheduler multiplexes many goroutines onto a small number of operating system threads.</p>
</article>
</body></html>`

	pages := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/article" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, article)
	}))
	defer pages.Close()

	good := pages.URL + "/article"
	missing := pages.URL + "/missing"

	ddg := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, `<html><body>
<div class="result"><a class="result__a" href="%s">Article</a></div>
<div class="result"><a class="result__a" href="%s">Missing</a></div>
</body></html>`, good, missing)
	}))
	defer ddg.Close()

	dir := t.TempDir()
	configPath := filepath.Join(dir, "websift.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("search:\n  duckduckgo_url: "+ddg.URL+"\n"), 0o644))
	reportPath := filepath.Join(dir, "report.json")
	historyPath := filepath.Join(dir, "history.db")
	archiveDir := filepath.Join(dir, "pages")

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{
		"golang",
		"--quick",
		"--quiet",
		"--config", configPath,
		"--path", reportPath,
		"--history", historyPath,
		"--archive", archiveDir,
		"--retries", "1",
	}, &stdout, &stderr)
	require.NoError(t, err)
	require.NoError(t, m.Close())

	assert.Empty(t, stderr.String(), "quiet mode logs nothing")

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	var report websift.Report
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, "golang", report.Query)
	assert.Equal(t, []string{good, missing}, report.URLs)
	assert.Equal(t, []string{missing}, report.Errors)
	require.Len(t, report.Results, 1)
	assert.Equal(t, "Goroutines Explained", report.Results[0].Title)
	assert.Contains(t, report.Results[0].Links, "https://go.dev/tour")

	_, err = os.Stat(filepath.Join(archiveDir, "127.0.0.1", "article.md"))
	assert.NoError(t, err)

	db := sqlite.NewDB(historyPath)
	require.NoError(t, db.Open())
	defer db.Close()
	runs, err := sqlite.NewRunService(db).FindRuns(context.Background(), websift.RunFilter{})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.True(t, runs[0].Quick)
	assert.Equal(t, websift.EngineDuckDuckGo, runs[0].Engine)
	assert.Equal(t, []string{missing}, runs[0].Report.Errors)
	assert.Contains(t, runs[0].Reasons[missing], "404")
}

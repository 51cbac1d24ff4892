package main_test

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	main "github.com/fwojciec/docdex/cmd/docdex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
[politeness]
default_delay = "0s"

[logging]
level = "error"
`

func docsPage(title, body, link string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
<title>%[1]s | Example Docs</title>
<meta name="generator" content="Docusaurus v3.1.0">
</head>
<body>
<nav><a href="/">Home</a></nav>
<article>
<h1>%[1]s</h1>
<p>%[2]s</p>
<p><a href="%[3]s">Next page</a></p>
</article>
</body>
</html>`, title, body, link)
}

func newDocsServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/docs/alpha", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, docsPage("Alpha", "The elephant section explains how herds migrate across the savanna each season.", "/docs/beta"))
	})
	mux.HandleFunc("/docs/beta", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, docsPage("Beta", "The giraffe section covers feeding habits and the structure of their long necks.", "/docs/alpha"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestMain(t *testing.T, dir string) *main.Main {
	t.Helper()

	configPath := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(testConfig), 0644))

	m := main.NewMain()
	m.ConfigPath = configPath
	m.DBPath = filepath.Join(dir, "docdex.db")
	return m
}

func TestMain_Run(t *testing.T) {
	t.Parallel()

	t.Run("returns error without a command", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		err := newTestMain(t, t.TempDir()).Run(context.Background(), nil, stdout, stderr)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no command specified")
	})

	t.Run("prints help", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		err := newTestMain(t, t.TempDir()).Run(context.Background(), []string{"--help"}, stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "crawl")
		assert.Contains(t, stdout.String(), "serve")
	})

	t.Run("reports empty store", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		err := newTestMain(t, t.TempDir()).Run(context.Background(), []string{"stats"}, stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Documents: 0")
	})

	t.Run("crawls statically then searches the index", func(t *testing.T) {
		t.Parallel()

		srv := newDocsServer(t)
		dir := t.TempDir()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		err := newTestMain(t, dir).Run(context.Background(), []string{
			"crawl", srv.URL + "/docs/alpha", "--static", "--version", "v1", "--max-pages", "5",
		}, stdout, stderr)
		require.NoError(t, err, stderr.String())
		assert.Contains(t, stdout.String(), "Indexed 2 pages")

		stdout.Reset()
		err = newTestMain(t, dir).Run(context.Background(), []string{"search", "elephant", "--version", "v1"}, stdout, stderr)
		require.NoError(t, err, stderr.String())
		assert.Contains(t, stdout.String(), srv.URL+"/docs/alpha")
		assert.NotContains(t, stdout.String(), srv.URL+"/docs/beta")

		stdout.Reset()
		err = newTestMain(t, dir).Run(context.Background(), []string{"get", srv.URL + "/docs/beta", "--version", "v1"}, stdout, stderr)
		require.NoError(t, err, stderr.String())
		assert.Contains(t, stdout.String(), "giraffe")

		stdout.Reset()
		err = newTestMain(t, dir).Run(context.Background(), []string{"stats"}, stdout, stderr)
		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Documents: 2")
	})
}

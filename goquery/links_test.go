package goquery_test

import (
	"testing"

	"github.com/fwojciec/docdex"
	"github.com/fwojciec/docdex/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractLinks(t *testing.T) {
	t.Parallel()

	t.Run("resolves relative links in document order", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<nav><a href="/docs/intro">Intro</a></nav>
<main>
	<a href="guide">Guide</a>
	<a href="../api/reference">API</a>
</main>
</body></html>`

		links, err := goquery.ExtractLinks(html, "https://example.com/docs/start")

		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://example.com/docs/intro",
			"https://example.com/docs/guide",
			"https://example.com/api/reference",
		}, links)
	})

	t.Run("strips fragments and deduplicates", func(t *testing.T) {
		t.Parallel()

		html := `<a href="/docs/a#one">A</a><a href="/docs/a#two">A again</a><a href="/docs/b">B</a>`

		links, err := goquery.ExtractLinks(html, "https://example.com/")

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/docs/a", "https://example.com/docs/b"}, links)
	})

	t.Run("filters other hosts and non-HTTP schemes", func(t *testing.T) {
		t.Parallel()

		html := `
<a href="https://other.com/page">External</a>
<a href="https://sub.example.com/page">Subdomain</a>
<a href="mailto:team@example.com">Mail</a>
<a href="javascript:void(0)">JS</a>
<a href="tel:123">Phone</a>
<a href="ftp://example.com/file">FTP</a>
<a href="https://EXAMPLE.com/kept">Kept</a>`

		links, err := goquery.ExtractLinks(html, "https://example.com/")

		require.NoError(t, err)
		assert.Equal(t, []string{"https://EXAMPLE.com/kept"}, links)
	})

	t.Run("drops links to the page itself", func(t *testing.T) {
		t.Parallel()

		html := `<a href="#section">Section</a><a href="/docs/page">Self</a><a href="/docs/other">Other</a>`

		links, err := goquery.ExtractLinks(html, "https://example.com/docs/page")

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/docs/other"}, links)
	})

	t.Run("honors base element", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><base href="/v2/"></head><body><a href="intro">Intro</a></body></html>`

		links, err := goquery.ExtractLinks(html, "https://example.com/docs/page")

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/v2/intro"}, links)
	})

	t.Run("returns empty slice when there are no anchors", func(t *testing.T) {
		t.Parallel()

		links, err := goquery.ExtractLinks("<p>No links</p>", "https://example.com/")

		require.NoError(t, err)
		assert.NotNil(t, links)
		assert.Empty(t, links)
	})

	t.Run("returns EINVALID for bad base URL", func(t *testing.T) {
		t.Parallel()

		_, err := goquery.ExtractLinks("<a href='/x'>x</a>", "://bad")

		assert.Equal(t, docdex.EINVALID, docdex.ErrorCode(err))
	})
}

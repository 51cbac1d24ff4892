package docdex_test

import (
	"testing"

	"github.com/fwojciec/docdex"
	"github.com/stretchr/testify/assert"
)

func TestFormatSearchResults(t *testing.T) {
	t.Parallel()

	t.Run("formats single result with title and heading path", func(t *testing.T) {
		t.Parallel()

		results := []docdex.SearchResult{
			{
				URL:         "https://example.com/docs/button",
				Version:     "latest",
				Title:       "Button",
				HeadingPath: []string{"Button", "Props"},
				Content:     "The variant prop controls the style.",
			},
		}

		result := docdex.FormatSearchResults(results)

		expected := "## 1. Button\nhttps://example.com/docs/button (latest)\nSection: Button > Props\nThe variant prop controls the style."
		assert.Equal(t, expected, result)
	})

	t.Run("uses URL when title is empty", func(t *testing.T) {
		t.Parallel()

		results := []docdex.SearchResult{
			{URL: "https://example.com/docs", Version: "v1", Content: "Some content."},
		}

		result := docdex.FormatSearchResults(results)

		expected := "## 1. https://example.com/docs\nhttps://example.com/docs (v1)\nSome content."
		assert.Equal(t, expected, result)
	})

	t.Run("separates multiple results with blank line", func(t *testing.T) {
		t.Parallel()

		results := []docdex.SearchResult{
			{URL: "https://a.com", Version: "latest", Title: "One", Content: "First."},
			{URL: "https://b.com", Version: "latest", Title: "Two", Content: "Second."},
		}

		result := docdex.FormatSearchResults(results)

		expected := "## 1. One\nhttps://a.com (latest)\nFirst.\n\n## 2. Two\nhttps://b.com (latest)\nSecond."
		assert.Equal(t, expected, result)
	})

	t.Run("returns empty string for no results", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, docdex.FormatSearchResults(nil))
	})
}

func TestFormatHeadingPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", docdex.FormatHeadingPath(nil))
	assert.Equal(t, "Top > Sub", docdex.FormatHeadingPath([]string{"Top", "Sub"}))
}

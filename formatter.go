package docdex

import (
	"fmt"
	"strings"
)

// HeadingSeparator joins heading path elements for display and indexing.
const HeadingSeparator = " > "

// FormatHeadingPath joins a heading path for display.
func FormatHeadingPath(path []string) string {
	return strings.Join(path, HeadingSeparator)
}

// FormatSearchResults formats search results for display or agent context.
// Each result is headed by its title, falling back to the URL, followed by
// the heading path and the chunk content. Results are separated by blank lines.
func FormatSearchResults(results []SearchResult) string {
	if len(results) == 0 {
		return ""
	}

	parts := make([]string, 0, len(results))
	for i, r := range results {
		title := r.Title
		if title == "" {
			title = r.URL
		}
		var b strings.Builder
		fmt.Fprintf(&b, "## %d. %s\n", i+1, title)
		fmt.Fprintf(&b, "%s (%s)\n", r.URL, r.Version)
		if len(r.HeadingPath) > 0 {
			b.WriteString("Section: " + FormatHeadingPath(r.HeadingPath) + "\n")
		}
		b.WriteString(r.Content)
		parts = append(parts, b.String())
	}

	return strings.Join(parts, "\n\n")
}

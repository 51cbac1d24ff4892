package crawl

import (
	"fmt"
	"strings"
)

// TruncateURL shortens a URL for display, keeping the end which is more informative.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		// Too short for "..." prefix, just return dots
		return url[:min(len(url), maxLen)]
	}
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}

// FormatBytes formats bytes in human-readable form.
func FormatBytes(bytes int) string {
	const (
		KB = 1024
		MB = KB * 1024
	)
	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// FormatResult summarizes a crawl result on one line. Zero counts other
// than the page count are omitted.
func FormatResult(r *Result) string {
	var details []string
	if r.Reused > 0 {
		details = append(details, fmt.Sprintf("%d unchanged", r.Reused))
	}
	if r.Failed > 0 {
		details = append(details, fmt.Sprintf("%d failed", r.Failed))
	}
	if r.Skipped > 0 {
		details = append(details, fmt.Sprintf("%d disallowed", r.Skipped))
	}

	noun := "pages"
	if len(r.URLs) == 1 {
		noun = "page"
	}
	s := fmt.Sprintf("Indexed %d %s (%s)", len(r.URLs), noun, FormatBytes(r.Bytes))
	if len(details) > 0 {
		s += ", " + strings.Join(details, ", ")
	}
	return s
}

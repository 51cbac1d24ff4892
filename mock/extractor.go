package mock

import "github.com/fwojciec/docdex"

var (
	_ docdex.Extractor         = (*Extractor)(nil)
	_ docdex.ProfileDetector   = (*ProfileDetector)(nil)
	_ docdex.RootExtractor     = (*RootExtractor)(nil)
	_ docdex.MarkdownExtractor = (*MarkdownExtractor)(nil)
)

// Extractor is a mock implementation of docdex.Extractor.
type Extractor struct {
	ExtractFn func(html, pageURL string) (*docdex.ExtractResult, error)
}

func (e *Extractor) Extract(html, pageURL string) (*docdex.ExtractResult, error) {
	return e.ExtractFn(html, pageURL)
}

// ProfileDetector is a mock implementation of docdex.ProfileDetector.
type ProfileDetector struct {
	DetectFn func(html string) docdex.Profile
}

func (d *ProfileDetector) Detect(html string) docdex.Profile {
	return d.DetectFn(html)
}

// RootExtractor is a mock implementation of docdex.RootExtractor.
type RootExtractor struct {
	ExtractRootFn func(html string, profile docdex.Profile) (*docdex.ExtractResult, error)
}

func (e *RootExtractor) ExtractRoot(html string, profile docdex.Profile) (*docdex.ExtractResult, error) {
	return e.ExtractRootFn(html, profile)
}

// MarkdownExtractor is a mock implementation of docdex.MarkdownExtractor.
type MarkdownExtractor struct {
	ExtractMarkdownFn func(html, url string, profile docdex.Profile) (*docdex.Extraction, error)
}

func (e *MarkdownExtractor) ExtractMarkdown(html, url string, profile docdex.Profile) (*docdex.Extraction, error) {
	return e.ExtractMarkdownFn(html, url, profile)
}

// Package extract composes content extractors and an HTML to Markdown
// converter into a docdex.MarkdownExtractor.
package extract

import (
	"strings"

	"github.com/fwojciec/docdex"
)

var _ docdex.MarkdownExtractor = (*Pipeline)(nil)

// Pipeline turns a rendered page into Markdown.
//
// A known profile selects the content root directly. Without one, the
// primary extractor runs and the fallback is used when it fails or finds
// nothing. The chosen HTML is then converted to Markdown.
type Pipeline struct {
	Detector  docdex.ProfileDetector
	Roots     docdex.RootExtractor
	Extractor docdex.Extractor
	Fallback  docdex.Extractor
	Converter docdex.Converter
}

// ExtractMarkdown extracts the main content of html as Markdown. An empty
// profile is detected from the page. The returned Markdown may be short or
// empty; length rules are left to the caller.
func (p *Pipeline) ExtractMarkdown(html, url string, profile docdex.Profile) (*docdex.Extraction, error) {
	if strings.TrimSpace(html) == "" {
		return nil, docdex.Errorf(docdex.EINVALID, "empty HTML input")
	}

	if profile == docdex.ProfileAuto && p.Detector != nil {
		profile = p.Detector.Detect(html)
	}

	result, err := p.extract(html, url, profile)
	if err != nil {
		return nil, err
	}

	markdown, err := p.Converter.Convert(result.ContentHTML, url)
	if err != nil {
		return nil, err
	}

	return &docdex.Extraction{
		Title:    strings.TrimSpace(result.Title),
		Markdown: markdown,
	}, nil
}

func (p *Pipeline) extract(html, url string, profile docdex.Profile) (*docdex.ExtractResult, error) {
	if profile != docdex.ProfileAuto && p.Roots != nil {
		if result, err := p.Roots.ExtractRoot(html, profile); err == nil && hasContent(result) {
			return result, nil
		}
	}

	result, err := p.Extractor.Extract(html, url)
	if err == nil && hasContent(result) {
		return result, nil
	}
	if p.Fallback == nil {
		if err == nil {
			err = docdex.Errorf(docdex.ENOTFOUND, "no main content found")
		}
		return nil, err
	}

	fallback, ferr := p.Fallback.Extract(html, url)
	if ferr != nil {
		return nil, ferr
	}
	if fallback.Title == "" && result != nil {
		fallback.Title = result.Title
	}
	return fallback, nil
}

func hasContent(r *docdex.ExtractResult) bool {
	return r != nil && strings.TrimSpace(r.ContentHTML) != ""
}

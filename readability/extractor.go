// Package readability adapts go-readability as a docdex.Extractor. It is the
// fallback when trafilatura finds no content.
package readability

import (
	"net/url"
	"strings"

	"github.com/fwojciec/docdex"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements docdex.Extractor at compile time.
var _ docdex.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the article content. Relative
// links and images are resolved against pageURL when it is absolute. A page
// without article text yields ENOTFOUND.
func (e *Extractor) Extract(rawHTML, pageURL string) (*docdex.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, docdex.Errorf(docdex.EINVALID, "empty HTML input")
	}

	var u *url.URL
	if parsed, err := url.Parse(pageURL); err == nil && parsed.Host != "" {
		u = parsed
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), u)
	if err != nil {
		return nil, docdex.Errorf(docdex.ENOTFOUND, "no article content found: %v", err)
	}
	if strings.TrimSpace(article.TextContent) == "" {
		return nil, docdex.Errorf(docdex.ENOTFOUND, "no article content found")
	}

	return &docdex.ExtractResult{
		Title:       article.Title,
		ContentHTML: article.Content,
	}, nil
}

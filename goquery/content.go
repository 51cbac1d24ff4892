package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docdex"
)

var _ docdex.RootExtractor = (*RootExtractor)(nil)

// contentRoots maps each profile to the selector of its main content element.
var contentRoots = map[docdex.Profile]string{
	docdex.ProfileDocusaurus: "article",
	docdex.ProfileMkDocs:     ".md-content",
	docdex.ProfileSphinx:     "div[role='main']",
	docdex.ProfileVuePress:   ".theme-default-content",
	docdex.ProfileVitePress:  ".VPDoc",
	docdex.ProfileGitBook:    "main",
	docdex.ProfileNextra:     "article",
}

// chrome is removed from inside a content root before conversion.
const chrome = "script, style, noscript, nav, footer, button, .hash-link, .headerlink, .md-source-file, .theme-doc-footer"

// RootExtractor cuts the content root a profile designates out of a page.
type RootExtractor struct{}

// NewRootExtractor creates a new RootExtractor.
func NewRootExtractor() *RootExtractor {
	return &RootExtractor{}
}

// ExtractRoot returns the content root of html for profile. Returns ENOTFOUND
// if the profile has no root selector or the page has no matching element.
func (e *RootExtractor) ExtractRoot(html string, profile docdex.Profile) (*docdex.ExtractResult, error) {
	selector, ok := contentRoots[profile]
	if !ok {
		return nil, docdex.Errorf(docdex.ENOTFOUND, "no content root for profile %q", profile)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, docdex.Errorf(docdex.EINVALID, "failed to parse HTML: %v", err)
	}

	root := doc.Find(selector).First()
	if root.Length() == 0 {
		return nil, docdex.Errorf(docdex.ENOTFOUND, "content root %q not found", selector)
	}
	root.Find(chrome).Remove()

	content, err := goquery.OuterHtml(root)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(root.Find("h1").First().Text())
	if title == "" {
		title = documentTitle(doc)
	}

	return &docdex.ExtractResult{Title: title, ContentHTML: content}, nil
}

// PageTitle returns the title of an HTML page: og:title, then <title>.
func PageTitle(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return documentTitle(doc)
}

func documentTitle(doc *goquery.Document) string {
	if og, ok := doc.Find("meta[property='og:title']").Attr("content"); ok && strings.TrimSpace(og) != "" {
		return strings.TrimSpace(og)
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

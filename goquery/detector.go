// Package goquery implements HTML inspection on top of goquery: documentation
// framework detection, content root extraction, and link discovery.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docdex"
)

var _ docdex.ProfileDetector = (*Detector)(nil)

// marker lists selectors unique to one documentation framework. Any match
// identifies the framework.
type marker struct {
	profile   docdex.Profile
	selectors []string
}

// markers are checked in order. VitePress precedes VuePress because
// VitePress sites may carry VuePress classes.
var markers = []marker{
	{docdex.ProfileDocusaurus, []string{
		"#__docusaurus_skipToContent_fallback",
		".theme-doc-sidebar-container",
		"[data-rh][data-theme]",
	}},
	{docdex.ProfileMkDocs, []string{
		"[data-md-color-scheme]",
		"[data-md-component]",
		".md-nav--primary",
	}},
	{docdex.ProfileSphinx, []string{
		".toctree-wrapper",
		".wy-nav-side",
		".wy-menu-vertical",
		".sphinxsidebar",
	}},
	{docdex.ProfileVitePress, []string{
		"#VPContent",
		".VPDoc",
		".VPDocAsideOutline",
	}},
	{docdex.ProfileVuePress, []string{
		".theme-default-content",
		".sidebar-links",
		".vuepress-navbar",
	}},
	{docdex.ProfileGitBook, []string{
		"[data-testid='space.sidebar']",
		"[data-testid='page.desktopTableOfContents']",
	}},
	{docdex.ProfileNextra, []string{
		".nextra-navbar",
		".nextra-sidebar",
		".nextra-toc",
	}},
}

// generators maps meta generator substrings to profiles, in match order.
var generators = []struct {
	name    string
	profile docdex.Profile
}{
	{"sphinx", docdex.ProfileSphinx},
	{"gitbook", docdex.ProfileGitBook},
	{"docusaurus", docdex.ProfileDocusaurus},
	{"mkdocs", docdex.ProfileMkDocs},
	{"vitepress", docdex.ProfileVitePress},
	{"vuepress", docdex.ProfileVuePress},
	{"nextra", docdex.ProfileNextra},
}

// Detector identifies documentation frameworks from HTML content using meta
// generator tags and framework specific markup.
type Detector struct{}

// NewDetector creates a new Detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect returns the profile of the page, or docdex.ProfileAuto if the
// framework cannot be determined.
func (d *Detector) Detect(html string) docdex.Profile {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return docdex.ProfileAuto
	}

	// The generator tag is the most reliable signal when present.
	if generator, ok := doc.Find("meta[name='generator']").Last().Attr("content"); ok {
		generator = strings.ToLower(generator)
		for _, g := range generators {
			if strings.Contains(generator, g.name) {
				return g.profile
			}
		}
	}

	for _, m := range markers {
		if doc.Find(strings.Join(m.selectors, ", ")).Length() > 0 {
			return m.profile
		}
		if m.profile == docdex.ProfileGitBook && hasGitBookClasses(doc) {
			return m.profile
		}
	}

	return docdex.ProfileAuto
}

// hasGitBookClasses reports whether the html element carries at least two of
// the class names GitBook puts there.
func hasGitBookClasses(doc *goquery.Document) bool {
	class, _ := doc.Find("html").Attr("class")
	count := 0
	for _, c := range []string{"circular-corners", "theme-clean", "tint"} {
		if strings.Contains(class, c) {
			count++
		}
	}
	return count >= 2
}

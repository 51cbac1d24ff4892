package crawl

import (
	"net/url"
	"slices"
	"strings"
)

// DefaultSubtabs are the tab suffixes component documentation pages commonly
// split their content into.
var DefaultSubtabs = []string{"usage", "examples", "accessibility", "api", "props", "code"}

// ComponentMatcher bounds how deep below an index page a link may point and
// still be treated as a component base URL.
type ComponentMatcher struct {
	MinSegments int
	MaxSegments int
}

// DefaultComponentMatcher accepts one or two path segments below the index.
func DefaultComponentMatcher() ComponentMatcher {
	return ComponentMatcher{MinSegments: 1, MaxSegments: 2}
}

func (m ComponentMatcher) accepts(segments int) bool {
	if m.MinSegments <= 0 && m.MaxSegments <= 0 {
		m = DefaultComponentMatcher()
	}
	return segments >= m.MinSegments && segments <= m.MaxSegments
}

// SubtabVariants returns rawURL with each subtab appended as a final path
// segment. URLs that already end in one of the subtabs have no variants.
func SubtabVariants(rawURL string, subtabs []string) []string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return nil
	}
	p := strings.TrimSuffix(u.Path, "/")
	if isSubtab(lastSegment(p), subtabs) {
		return nil
	}

	variants := make([]string, 0, len(subtabs))
	for _, tab := range subtabs {
		v := url.URL{Scheme: u.Scheme, Host: u.Host, Path: p + "/" + tab}
		variants = append(variants, v.String())
	}
	return variants
}

// ComponentBases derives component base URLs from the links of a component
// index page. A trailing "/index" segment and a trailing subtab segment are
// stripped; the remaining path must lie strictly under the index path with
// a segment count accepted by m. Results keep first-seen order.
func ComponentBases(indexURL string, links []string, m ComponentMatcher, subtabs []string) []string {
	index, err := url.Parse(indexURL)
	if err != nil || index.Host == "" {
		return nil
	}
	indexPath := trimIndexSegment(strings.TrimSuffix(index.Path, "/"))

	seen := make(map[string]bool)
	var bases []string
	for _, link := range links {
		u, err := url.Parse(link)
		if err != nil || !strings.EqualFold(u.Host, index.Host) {
			continue
		}

		p := trimIndexSegment(strings.TrimSuffix(u.Path, "/"))
		if !strings.HasPrefix(p, indexPath+"/") {
			continue
		}

		segments := splitSegments(strings.TrimPrefix(p, indexPath))
		if len(segments) > 1 && isSubtab(segments[len(segments)-1], subtabs) {
			segments = segments[:len(segments)-1]
		}
		if !m.accepts(len(segments)) {
			continue
		}

		base := url.URL{Scheme: index.Scheme, Host: index.Host, Path: indexPath + "/" + strings.Join(segments, "/")}
		s := base.String()
		if seen[s] {
			continue
		}
		seen[s] = true
		bases = append(bases, s)
	}
	return bases
}

// ComponentQueue expands each base URL into the base itself followed by its
// subtab variants. Duplicates are left for the frontier to drop.
func ComponentQueue(bases, subtabs []string) []string {
	queue := make([]string, 0, len(bases)*(1+len(subtabs)))
	for _, base := range bases {
		queue = append(queue, base)
		queue = append(queue, SubtabVariants(base, subtabs)...)
	}
	return queue
}

func trimIndexSegment(p string) string {
	return strings.TrimSuffix(p, "/index")
}

func splitSegments(p string) []string {
	var segments []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

func lastSegment(p string) string {
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[i+1:]
	}
	return p
}

func isSubtab(segment string, subtabs []string) bool {
	return segment != "" && slices.Contains(subtabs, strings.ToLower(segment))
}

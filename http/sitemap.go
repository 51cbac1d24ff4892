package http

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/docdex"
	"github.com/temoto/robotstxt"
)

// MaxSitemapDepth bounds sitemap index recursion. The located sitemap is at
// depth 1.
const MaxSitemapDepth = 3

// maxSitemapSize caps the bytes read from one sitemap.
const maxSitemapSize = 50 << 20

// sitemapPaths are the conventional sitemap locations, tried in order.
var sitemapPaths = []string{"/sitemap.xml", "/sitemap_index.xml", "/sitemap-index.xml"}

var locRe = regexp.MustCompile(`(?is)<loc>\s*(?:<!\[CDATA\[)?\s*(.*?)\s*(?:\]\]>)?\s*</loc>`)

// Ensure SitemapService implements docdex.SitemapService.
var _ docdex.SitemapService = (*SitemapService)(nil)

// SitemapService discovers URLs from website sitemaps via HTTP.
type SitemapService struct {
	client *http.Client
}

// NewSitemapService creates a new SitemapService with the given HTTP client.
// If client is nil, a client with DefaultFetchTimeout is used.
func NewSitemapService(client *http.Client) *SitemapService {
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}
	return &SitemapService{client: client}
}

// DiscoverURLs returns the page URLs of the first sitemap location at the
// origin of baseURL that yields any. The conventional paths are tried before
// sitemaps declared in robots.txt. Returns an empty slice (not nil) if no
// sitemap yields URLs.
func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL, pathFilter string) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, docdex.Errorf(docdex.EINVALID, "invalid base URL %q", baseURL)
	}
	origin := &url.URL{Scheme: base.Scheme, Host: base.Host}

	for _, p := range sitemapPaths {
		if urls := s.resolve(ctx, origin.ResolveReference(&url.URL{Path: p}).String(), pathFilter); len(urls) > 0 {
			return urls, nil
		}
	}

	for _, candidate := range s.robotsSitemaps(ctx, origin) {
		if urls := s.resolve(ctx, candidate, pathFilter); len(urls) > 0 {
			return urls, nil
		}
	}

	return []string{}, nil
}

// resolve collects the page URLs reachable from one located sitemap.
func (s *SitemapService) resolve(ctx context.Context, sitemapURL, pathFilter string) []string {
	c := &collector{
		filter:   pathFilter,
		seen:     make(map[string]bool),
		sitemaps: make(map[string]bool),
	}
	s.walk(ctx, sitemapURL, 1, c)
	return c.urls
}

// collector accumulates deduplicated page URLs up to docdex.MaxSitemapURLs.
type collector struct {
	filter   string
	urls     []string
	seen     map[string]bool
	sitemaps map[string]bool
}

func (c *collector) full() bool {
	return len(c.urls) >= docdex.MaxSitemapURLs
}

func (c *collector) add(rawURL string) {
	if c.full() || c.seen[rawURL] {
		return
	}
	if c.filter != "" {
		u, err := url.Parse(rawURL)
		if err != nil || !strings.Contains(u.Path, c.filter) {
			return
		}
	}
	c.seen[rawURL] = true
	c.urls = append(c.urls, rawURL)
}

// walk fetches one sitemap and either recurses into its children or records
// its page URLs. Failures contribute nothing.
func (s *SitemapService) walk(ctx context.Context, sitemapURL string, depth int, c *collector) {
	if depth > MaxSitemapDepth || c.full() || c.sitemaps[sitemapURL] || ctx.Err() != nil {
		return
	}
	c.sitemaps[sitemapURL] = true

	body, err := s.fetch(ctx, sitemapURL)
	if err != nil {
		return
	}

	locs := extractLocs(body)
	if isSitemapIndex(body) {
		for _, child := range locs {
			s.walk(ctx, child, depth+1, c)
		}
		return
	}
	for _, loc := range locs {
		c.add(loc)
	}
}

// robotsSitemaps returns the Sitemap directives of the origin's robots.txt.
func (s *SitemapService) robotsSitemaps(ctx context.Context, origin *url.URL) []string {
	body, err := s.fetch(ctx, origin.ResolveReference(&url.URL{Path: "/robots.txt"}).String())
	if err != nil {
		return nil
	}
	data, err := robotstxt.FromBytes(body)
	if err != nil {
		return nil
	}
	return data.Sitemaps
}

func isSitemapIndex(body []byte) bool {
	return strings.Contains(strings.ToLower(string(body)), "<sitemapindex")
}

// extractLocs returns the <loc> values of a sitemap. Well-formed XML is read
// with etree; anything else is scanned with a tolerant pattern.
func extractLocs(body []byte) []string {
	var locs []string

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err == nil && doc.Root() != nil {
		for _, el := range doc.FindElements("//loc") {
			if loc := strings.TrimSpace(el.Text()); loc != "" {
				locs = append(locs, loc)
			}
		}
		if len(locs) > 0 {
			return locs
		}
	}

	for _, m := range locRe.FindAllSubmatch(body, -1) {
		if loc := strings.TrimSpace(html.UnescapeString(string(m[1]))); loc != "" {
			locs = append(locs, loc)
		}
	}
	return locs
}

// fetch returns the body of a 200 response.
func (s *SitemapService) fetch(ctx context.Context, targetURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, targetURL)
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxSitemapSize))
}

package docdex

import "context"

// MaxSitemapURLs caps the number of URLs a single sitemap discovery returns.
const MaxSitemapURLs = 5000

// SitemapService discovers URLs from website sitemaps.
type SitemapService interface {
	// DiscoverURLs finds page URLs listed in the sitemap at the origin of
	// baseURL. Sitemap indexes are resolved recursively. If pathFilter is
	// not empty, only URLs whose path contains it are returned.
	//
	// Unreachable or malformed sitemaps yield no URLs rather than an error.
	// Only an unparsable baseURL is reported as EINVALID.
	DiscoverURLs(ctx context.Context, baseURL, pathFilter string) ([]string, error)
}

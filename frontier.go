package docdex

import "context"

// Origin records how a URL entered the crawl queue.
type Origin string

// Frontier entry origins.
const (
	OriginSeed    Origin = "seed"
	OriginSitemap Origin = "sitemap"
	OriginLink    Origin = "link"
	OriginSubtab  Origin = "subtab"
)

// FrontierEntry is a normalized URL waiting to be visited.
type FrontierEntry struct {
	URL    string
	Origin Origin
}

// PolitenessGovernor enforces robots.txt rules and per-host request spacing.
type PolitenessGovernor interface {
	// IsAllowed reports whether url may be fetched. Missing or unreachable
	// robots files allow everything.
	IsAllowed(ctx context.Context, url string) bool

	// EnforceDelay blocks until the host of url may receive another request.
	// Returns an error only if the context is canceled.
	EnforceDelay(ctx context.Context, url string) error

	// Reset forgets every cached policy and request time.
	Reset()
}

// RecrawlDecision is the outcome of comparing a stored document against the
// live resource.
type RecrawlDecision struct {
	// Crawl is true when the document must be fetched again.
	Crawl bool

	// Previous is the stored document, nil on first crawl.
	Previous *Document

	// Validators observed by the header probe, empty if the probe failed.
	ETag         string
	LastModified string
}

// RecrawlCache decides whether a document is worth fetching again.
type RecrawlCache interface {
	// ShouldCrawl returns false only when a stored document exists and the
	// server confirms, by matching validators, that it has not changed.
	ShouldCrawl(ctx context.Context, url, version string) bool

	// Check returns the full decision including validators and the stored
	// document.
	Check(ctx context.Context, url, version string) RecrawlDecision
}

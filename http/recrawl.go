package http

import (
	"context"
	"net/http"

	"github.com/fwojciec/docdex"
)

// Ensure RecrawlCache implements docdex.RecrawlCache.
var _ docdex.RecrawlCache = (*RecrawlCache)(nil)

// RecrawlCache decides whether a stored document must be fetched again by
// probing the live resource with a HEAD request and comparing validators.
// Every uncertain outcome favors crawling.
type RecrawlCache struct {
	client    *http.Client
	documents docdex.DocumentService
	userAgent string

	// Politeness spaces probes like any other request to the host when set.
	Politeness docdex.PolitenessGovernor
}

// NewRecrawlCache creates a RecrawlCache reading stored validators from
// documents. If client is nil, a client with DefaultFetchTimeout is used.
func NewRecrawlCache(client *http.Client, documents docdex.DocumentService) *RecrawlCache {
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}
	return &RecrawlCache{
		client:    client,
		documents: documents,
		userAgent: DefaultUserAgent,
	}
}

// ShouldCrawl returns false only when the stored document for (url, version)
// carries validators and the server reports the same ones.
func (c *RecrawlCache) ShouldCrawl(ctx context.Context, url, version string) bool {
	return c.Check(ctx, url, version).Crawl
}

// Check returns the recrawl decision along with the validators observed by
// the probe. The probe also runs on first crawl so the caller can persist
// validators with the new document.
func (c *RecrawlCache) Check(ctx context.Context, url, version string) docdex.RecrawlDecision {
	prev, err := c.documents.FindDocument(ctx, url, version)
	if err != nil {
		prev = nil
	}

	etag, lastModified, ok := c.probe(ctx, url)
	decision := docdex.RecrawlDecision{
		Crawl:        true,
		Previous:     prev,
		ETag:         etag,
		LastModified: lastModified,
	}
	if prev == nil || !ok {
		return decision
	}

	decision.Crawl = changed(prev, etag, lastModified)
	return decision
}

// changed compares probe validators against the stored document. ETags
// take precedence; Last-Modified is compared only when no ETag pair exists.
func changed(prev *docdex.Document, etag, lastModified string) bool {
	switch {
	case prev.ETag != "" && etag != "":
		return prev.ETag != etag
	case prev.LastModified != "" && lastModified != "":
		return prev.LastModified != lastModified
	default:
		return true
	}
}

// probe issues a HEAD request and reports the validators of a 2xx response.
func (c *RecrawlCache) probe(ctx context.Context, url string) (etag, lastModified string, ok bool) {
	if c.Politeness != nil {
		if err := c.Politeness.EnforceDelay(ctx, url); err != nil {
			return "", "", false
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return "", "", false
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", "", false
	}
	return resp.Header.Get("ETag"), resp.Header.Get("Last-Modified"), true
}

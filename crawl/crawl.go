// Package crawl provides documentation crawling orchestration.
// It coordinates sitemap discovery, politeness, recrawl checks, rendering,
// extraction, chunking, and storage of documentation pages.
package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/fwojciec/docdex"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Defaults applied to zero-valued Scheduler fields and requests.
const (
	DefaultWorkers           = 3
	DefaultMaxPages          = 50
	DefaultSeedFactor        = 2
	DefaultNavigationTimeout = 30 * time.Second
	DefaultMinContentLength  = 50
)

// Frontier configuration for a single crawl run.
const (
	// frontierExpectedURLs is the expected number of URLs for Bloom filter sizing.
	frontierExpectedURLs = 10000
	// frontierFalsePositiveRate is the acceptable false positive rate for deduplication.
	frontierFalsePositiveRate = 0.01
)

// Scheduler orchestrates the crawling of documentation sites.
//
// Sitemaps, Politeness, and Recrawl are optional. Without them no sitemap
// seeds are added, every URL is allowed without delay, and every URL is
// rendered.
type Scheduler struct {
	Sitemaps   docdex.SitemapService
	Renderer   docdex.Renderer
	Extractor  docdex.MarkdownExtractor
	Documents  docdex.DocumentService
	Chunks     docdex.ChunkService
	Politeness docdex.PolitenessGovernor
	Recrawl    docdex.RecrawlCache
	Logger     *slog.Logger

	Workers           int
	Subtabs           []string
	Components        ComponentMatcher
	SeedFactor        int
	NavigationTimeout time.Duration
	RetryDelays       []time.Duration
	MinContentLength  int
}

// SiteRequest describes a breadth-first crawl.
type SiteRequest struct {
	URL           string
	Version       string
	MaxPages      int
	PathFilter    string
	ExpandSubtabs bool
	Profile       docdex.Profile
}

// ComponentRequest describes a component index crawl.
type ComponentRequest struct {
	URL      string
	Version  string
	MaxPages int
	Profile  docdex.Profile
}

// Result holds the outcome of a crawl operation.
type Result struct {
	RunID string `json:"runId"`

	// URLs lists successfully processed pages in completion order.
	URLs []string `json:"urls"`

	Visited int `json:"visited"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
	Reused  int `json:"reused"`
	Bytes   int `json:"bytes"`
}

// ProgressEvent reports progress during a crawl operation.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

// CrawlSite crawls breadth-first from req.URL, one page at a time. The start
// URL is queued first, followed by sitemap URLs and, if requested, subtab
// variants of every seed. Each successful page queues its unseen same-host
// links. The crawl stops when the queue is empty or req.MaxPages pages
// succeeded.
func (s *Scheduler) CrawlSite(ctx context.Context, req SiteRequest, progress ProgressFunc) (*Result, error) {
	start, err := parseStartURL(req.URL)
	if err != nil {
		return nil, err
	}
	maxPages := req.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	page, err := s.newPage(ctx)
	if err != nil {
		return nil, err
	}
	defer page.Close()

	r := s.newRun(versionOrDefault(req.Version), maxPages, progress)
	frontier := NewFrontier(frontierExpectedURLs, frontierFalsePositiveRate)

	seeds := append([]docdex.FrontierEntry{{URL: start, Origin: docdex.OriginSeed}}, s.sitemapSeeds(ctx, start, req.PathFilter, maxPages)...)
	for _, seed := range seeds {
		frontier.Push(seed)
	}
	if req.ExpandSubtabs {
		for _, seed := range seeds {
			s.pushSubtabs(frontier, seed.URL)
		}
	}

	r.started()
	for r.successes() < maxPages {
		if ctx.Err() != nil {
			break
		}
		entry, ok := frontier.Pop()
		if !ok {
			break
		}

		o := s.visit(ctx, page, entry.URL, r.version, req.Profile, true)
		if !r.record(o) {
			continue
		}

		for _, link := range o.links {
			if inScope(link, start, req.PathFilter) {
				frontier.Push(docdex.FrontierEntry{URL: link, Origin: docdex.OriginLink})
			}
		}
		if req.ExpandSubtabs {
			s.pushSubtabs(frontier, entry.URL)
		}
	}

	return r.finish(), nil
}

// CrawlComponentIndex visits the index page at req.URL, derives component
// base URLs from its links, and crawls every base and its subtab variants
// with a bounded pool of workers. Each worker renders with its own page.
// The index page itself is not stored.
func (s *Scheduler) CrawlComponentIndex(ctx context.Context, req ComponentRequest, progress ProgressFunc) (*Result, error) {
	index, err := parseStartURL(req.URL)
	if err != nil {
		return nil, err
	}
	maxPages := req.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	workers := s.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	pages := make(chan docdex.Page, workers)
	defer func() {
		close(pages)
		for p := range pages {
			_ = p.Close()
		}
	}()
	for range workers {
		p, err := s.newPage(ctx)
		if err != nil {
			return nil, err
		}
		pages <- p
	}

	r := s.newRun(versionOrDefault(req.Version), maxPages, progress)
	frontier := NewFrontier(frontierExpectedURLs, frontierFalsePositiveRate)
	frontier.Claim(index)

	indexPage := <-pages
	links, err := s.indexLinks(ctx, indexPage, index)
	pages <- indexPage
	if err != nil {
		r.record(outcome{url: index, err: err})
		return r.finish(), nil
	}

	subtabs := s.subtabs()
	matcher := s.Components
	if matcher == (ComponentMatcher{}) {
		matcher = DefaultComponentMatcher()
	}
	queue := ComponentQueue(ComponentBases(index, links, matcher, subtabs), subtabs)
	r.total = len(queue)
	r.log.Info("component queue built", "index", index, "entries", len(queue))
	r.started()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, rawURL := range queue {
		u, err := Normalize(rawURL)
		if err != nil {
			continue
		}

		page := <-pages
		if gctx.Err() != nil {
			pages <- page
			break
		}
		if !frontier.Claim(u) {
			pages <- page
			continue
		}
		if !r.reserve(maxPages) {
			pages <- page
			break
		}

		g.Go(func() error {
			defer func() { pages <- page }()
			r.settle(s.visit(gctx, page, u, r.version, req.Profile, false))
			return nil
		})
	}
	_ = g.Wait()

	return r.finish(), nil
}

// ExtractSingle visits one page without link discovery and returns its
// Markdown. It returns an empty string when the extracted content is below
// the minimum length.
func (s *Scheduler) ExtractSingle(ctx context.Context, rawURL, version string) (string, error) {
	u, err := parseStartURL(rawURL)
	if err != nil {
		return "", err
	}

	page, err := s.newPage(ctx)
	if err != nil {
		return "", err
	}
	defer page.Close()

	o := s.visit(ctx, page, u, versionOrDefault(version), docdex.ProfileAuto, false)
	switch {
	case o.disallowed:
		return "", docdex.Errorf(docdex.EINVALID, "%s is disallowed by robots.txt", u)
	case o.short:
		return "", nil
	case o.err != nil:
		return "", o.err
	}
	return o.markdown, nil
}

// outcome is the result of one visit.
type outcome struct {
	url        string
	markdown   string
	links      []string
	reused     bool
	disallowed bool
	short      bool
	err        error
}

// visit runs the visit pipeline for one URL: robots check, recrawl check,
// politeness delay, navigation, reveal, snapshot, extraction, and storage.
// Link discovery happens only when discover is set and the page was
// rendered.
func (s *Scheduler) visit(ctx context.Context, page docdex.Page, rawURL, version string, profile docdex.Profile, discover bool) outcome {
	o := outcome{url: rawURL}

	if s.Politeness != nil && !s.Politeness.IsAllowed(ctx, rawURL) {
		o.disallowed = true
		return o
	}

	decision := docdex.RecrawlDecision{Crawl: true}
	if s.Recrawl != nil {
		decision = s.Recrawl.Check(ctx, rawURL, version)
	}
	if !decision.Crawl && decision.Previous != nil {
		o.markdown = decision.Previous.Markdown
		o.reused = true
		return o
	}

	rendered, links, err := s.render(ctx, page, rawURL, discover)
	if err != nil {
		o.err = err
		return o
	}
	o.links = links

	pageURL := rendered.FinalURL
	if pageURL == "" {
		pageURL = rawURL
	}
	extraction, err := s.Extractor.ExtractMarkdown(rendered.HTML, pageURL, profile)
	if err != nil {
		o.err = fmt.Errorf("extract: %w", err)
		return o
	}

	markdown := strings.TrimSpace(extraction.Markdown)
	if utf8.RuneCountInString(markdown) < s.minContentLength() {
		o.short = true
		return o
	}

	title := extraction.Title
	if title == "" {
		title = rendered.Title
	}

	changed, err := s.Documents.UpsertDocument(ctx, &docdex.Document{
		URL:          rawURL,
		Version:      version,
		Title:        title,
		Markdown:     markdown,
		ETag:         decision.ETag,
		LastModified: decision.LastModified,
	})
	if err != nil {
		o.err = fmt.Errorf("save document: %w", err)
		return o
	}
	if changed {
		if err := s.Chunks.ReplaceChunks(ctx, rawURL, version, docdex.ChunkMarkdown(markdown)); err != nil {
			o.err = fmt.Errorf("save chunks: %w", err)
			return o
		}
	}

	o.markdown = markdown
	return o
}

// render waits for politeness, navigates with retry, reveals hidden
// content, and snapshots the page.
func (s *Scheduler) render(ctx context.Context, page docdex.Page, rawURL string, discover bool) (*docdex.Rendered, []string, error) {
	if s.Politeness != nil {
		if err := s.Politeness.EnforceDelay(ctx, rawURL); err != nil {
			return nil, nil, fmt.Errorf("politeness delay: %w", err)
		}
	}

	if err := s.navigate(ctx, page, rawURL); err != nil {
		return nil, nil, err
	}

	page.RevealHidden(ctx)

	rendered, err := page.Snapshot(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("snapshot: %w", err)
	}

	var links []string
	if discover {
		links, err = page.ExtractLinks(ctx)
		if err != nil {
			s.logger().Debug("link extraction failed", "url", rawURL, "err", err)
		}
	}
	return rendered, links, nil
}

func (s *Scheduler) navigate(ctx context.Context, page docdex.Page, rawURL string) error {
	timeout := s.NavigationTimeout
	if timeout <= 0 {
		timeout = DefaultNavigationTimeout
	}
	delays := s.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}

	err := WithRetry(ctx, delays, func(ctx context.Context) error {
		nctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return page.Navigate(nctx, rawURL)
	}, func(attempt int, err error) {
		s.logger().Debug("retrying navigation", "url", rawURL, "attempt", attempt, "err", err)
	})
	if err != nil {
		return fmt.Errorf("navigate: %w", err)
	}
	return nil
}

// indexLinks renders the component index page and returns its links.
func (s *Scheduler) indexLinks(ctx context.Context, page docdex.Page, indexURL string) ([]string, error) {
	if s.Politeness != nil && !s.Politeness.IsAllowed(ctx, indexURL) {
		return nil, docdex.Errorf(docdex.EINVALID, "%s is disallowed by robots.txt", indexURL)
	}
	_, links, err := s.render(ctx, page, indexURL, true)
	if err != nil {
		return nil, err
	}
	return links, nil
}

// sitemapSeeds returns the sitemap URLs for start, capped to a multiple of
// maxPages. Discovery errors are logged and yield no seeds.
func (s *Scheduler) sitemapSeeds(ctx context.Context, start, pathFilter string, maxPages int) []docdex.FrontierEntry {
	if s.Sitemaps == nil {
		return nil
	}

	urls, err := s.Sitemaps.DiscoverURLs(ctx, start, pathFilter)
	if err != nil {
		s.logger().Warn("sitemap discovery failed", "url", start, "err", err)
		return nil
	}

	factor := s.SeedFactor
	if factor <= 0 {
		factor = DefaultSeedFactor
	}
	if limit := factor * maxPages; len(urls) > limit {
		urls = urls[:limit]
	}

	seeds := make([]docdex.FrontierEntry, 0, len(urls))
	for _, u := range urls {
		seeds = append(seeds, docdex.FrontierEntry{URL: u, Origin: docdex.OriginSitemap})
	}
	return seeds
}

func (s *Scheduler) pushSubtabs(frontier *Frontier, rawURL string) {
	for _, v := range SubtabVariants(rawURL, s.subtabs()) {
		frontier.Push(docdex.FrontierEntry{URL: v, Origin: docdex.OriginSubtab})
	}
}

func (s *Scheduler) newPage(ctx context.Context) (docdex.Page, error) {
	page, err := s.Renderer.NewPage(ctx)
	if err != nil {
		return nil, docdex.Errorf(docdex.EUNAVAILABLE, "renderer unavailable: %v", err)
	}
	return page, nil
}

func (s *Scheduler) subtabs() []string {
	if s.Subtabs == nil {
		return DefaultSubtabs
	}
	return s.Subtabs
}

func (s *Scheduler) minContentLength() int {
	if s.MinContentLength <= 0 {
		return DefaultMinContentLength
	}
	return s.MinContentLength
}

func (s *Scheduler) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}

// run accumulates the result of one crawl. It is safe for concurrent use.
type run struct {
	version  string
	total    int
	progress ProgressFunc
	log      *slog.Logger

	mu     sync.Mutex
	cond   *sync.Cond
	result Result
	done   int

	// Visits dispatched but not yet settled. They count against the page
	// cap until their outcome is known.
	pending int
}

func (s *Scheduler) newRun(version string, total int, progress ProgressFunc) *run {
	id := uuid.NewString()
	r := &run{
		version:  version,
		total:    total,
		progress: progress,
		log:      s.logger().With("run", id, "version", version),
		result:   Result{RunID: id, URLs: []string{}},
	}
	r.cond = sync.NewCond(&r.mu)
	return r
}

func (r *run) started() {
	r.notify(ProgressEvent{Type: ProgressStarted, Total: r.total})
}

// reserve claims a slot for one visit under limit successes. While the
// slots are taken by pending visits it blocks until one settles, and it
// reports false once limit visits have succeeded.
func (r *run) reserve(limit int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for {
		if len(r.result.URLs) >= limit {
			return false
		}
		if len(r.result.URLs)+r.pending < limit {
			r.pending++
			return true
		}
		r.cond.Wait()
	}
}

// settle records the outcome of a reserved visit and releases its slot.
func (r *run) settle(o outcome) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.pending--
	r.cond.Broadcast()
	return r.recordLocked(o)
}

// record accounts for a visit outcome and reports whether it succeeded.
func (r *run) record(o outcome) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.recordLocked(o)
}

func (r *run) recordLocked(o outcome) bool {
	r.result.Visited++
	r.done++

	switch {
	case o.disallowed:
		r.result.Skipped++
		r.log.Info("disallowed by robots.txt", "url", o.url)
		return false
	case o.short:
		r.result.Failed++
		err := docdex.Errorf(docdex.ENOTFOUND, "content below minimum length")
		r.log.Warn("visit rejected", "url", o.url, "err", err)
		r.notify(ProgressEvent{Type: ProgressFailed, Completed: r.done, Total: r.total, URL: o.url, Error: err})
		return false
	case o.err != nil:
		r.result.Failed++
		r.log.Warn("visit failed", "url", o.url, "err", o.err)
		r.notify(ProgressEvent{Type: ProgressFailed, Completed: r.done, Total: r.total, URL: o.url, Error: o.err})
		return false
	}

	if o.reused {
		r.result.Reused++
	}
	r.result.URLs = append(r.result.URLs, o.url)
	r.result.Bytes += len(o.markdown)
	r.notify(ProgressEvent{Type: ProgressCompleted, Completed: r.done, Total: r.total, URL: o.url})
	return true
}

func (r *run) successes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.result.URLs)
}

func (r *run) finish() *Result {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.notify(ProgressEvent{Type: ProgressFinished, Completed: r.done, Total: r.total})
	r.log.Info("crawl finished",
		"succeeded", len(r.result.URLs),
		"failed", r.result.Failed,
		"skipped", r.result.Skipped,
		"reused", r.result.Reused)

	result := r.result
	return &result
}

func (r *run) notify(event ProgressEvent) {
	if r.progress != nil {
		r.progress(event)
	}
}

// parseStartURL validates an absolute http(s) URL and returns its
// normalized form.
func parseStartURL(rawURL string) (string, error) {
	if strings.TrimSpace(rawURL) == "" {
		return "", docdex.Errorf(docdex.EINVALID, "URL required")
	}
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", docdex.Errorf(docdex.EINVALID, "invalid URL %q", rawURL)
	}
	normalized, err := Normalize(rawURL)
	if err != nil {
		return "", docdex.Errorf(docdex.EINVALID, "invalid URL %q", rawURL)
	}
	return normalized, nil
}

// inScope reports whether link shares the host of start and, if pathFilter
// is set, has a path containing it.
func inScope(link, start, pathFilter string) bool {
	l, err := url.Parse(link)
	if err != nil {
		return false
	}
	s, err := url.Parse(start)
	if err != nil || !strings.EqualFold(l.Host, s.Host) {
		return false
	}
	return pathFilter == "" || strings.Contains(l.Path, pathFilter)
}

func versionOrDefault(version string) string {
	if version == "" {
		return docdex.DefaultVersion
	}
	return version
}

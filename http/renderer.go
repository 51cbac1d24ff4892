// Package http provides HTTP-based adapters: a static Renderer for sites that
// don't require JavaScript, sitemap discovery, and recrawl validation.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/fwojciec/docdex"
	"github.com/fwojciec/docdex/goquery"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
// Kept consistent with rod.DefaultFetchTimeout (10s).
const DefaultFetchTimeout = 10 * time.Second

// DefaultUserAgent identifies requests made by the HTTP adapters.
const DefaultUserAgent = "docdex-bot"

// maxPageSize caps the bytes read from one page.
const maxPageSize = 20 << 20

var (
	_ docdex.Renderer = (*Renderer)(nil)
	_ docdex.Page     = (*Page)(nil)
)

// Renderer loads pages with plain HTTP requests. Unlike rod.Renderer, it
// does not execute JavaScript and is suitable for static sites only.
type Renderer struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(r *Renderer) {
		r.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(r *Renderer) {
		r.userAgent = ua
	}
}

// NewRenderer creates a new HTTP-based Renderer.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		timeout:   DefaultFetchTimeout,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.client = &http.Client{
		Timeout: r.timeout,
	}

	return r
}

// NewPage returns a page backed by the renderer's client. It never fails.
func (r *Renderer) NewPage(_ context.Context) (docdex.Page, error) {
	return &Page{renderer: r}, nil
}

// Close releases resources. This is a no-op since http.Client doesn't
// require explicit cleanup.
func (r *Renderer) Close() error {
	return nil
}

// Page holds the last document loaded over HTTP.
type Page struct {
	renderer *Renderer

	mu       sync.Mutex
	finalURL string
	html     string
}

// Navigate fetches url and keeps the response body for later snapshots.
func (p *Page) Navigate(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", p.renderer.userAgent)

	resp, err := p.renderer.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.finalURL = resp.Request.URL.String()
	p.html = string(body)
	return nil
}

// RevealHidden is a no-op: static HTML already contains collapsed content.
func (p *Page) RevealHidden(_ context.Context) {}

// Snapshot returns the loaded document.
func (p *Page) Snapshot(_ context.Context) (*docdex.Rendered, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.finalURL == "" {
		return nil, docdex.Errorf(docdex.EINVALID, "page has not been navigated")
	}
	return &docdex.Rendered{
		FinalURL: p.finalURL,
		HTML:     p.html,
		Title:    goquery.PageTitle(p.html),
	}, nil
}

// ExtractLinks returns the same-host anchors of the loaded document.
func (p *Page) ExtractLinks(_ context.Context) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.finalURL == "" {
		return nil, docdex.Errorf(docdex.EINVALID, "page has not been navigated")
	}
	return goquery.ExtractLinks(p.html, p.finalURL)
}

// Close forgets the loaded document.
func (p *Page) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.finalURL, p.html = "", ""
	return nil
}

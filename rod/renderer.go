// Package rod renders JavaScript-driven documentation pages with headless
// Chrome.
package rod

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/fwojciec/docdex"
	"github.com/fwojciec/docdex/goquery"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds the wait for a page to settle after navigation.
const DefaultFetchTimeout = 10 * time.Second

// DefaultRevealTimeout bounds the interaction that expands hidden content.
const DefaultRevealTimeout = 2 * time.Second

// domStableWindow is how long the DOM must stay unchanged to count as settled.
const domStableWindow = 300 * time.Millisecond

// revealScript opens closed <details> elements and clicks collapsed
// disclosure controls. It returns the number of elements touched.
const revealScript = `() => {
	let n = 0;
	document.querySelectorAll('details:not([open])').forEach((el) => {
		el.open = true;
		n++;
	});
	document.querySelectorAll('[aria-expanded="false"]').forEach((el) => {
		try {
			el.click();
			n++;
		} catch (e) {}
	});
	return n;
}`

var (
	_ docdex.Renderer = (*Renderer)(nil)
	_ docdex.Page     = (*Page)(nil)
)

// Renderer opens Chrome pages from a BrowserManager.
// Renderer is safe for concurrent use by multiple goroutines.
type Renderer struct {
	manager       *BrowserManager
	fetchTimeout  time.Duration
	revealTimeout time.Duration
	closed        atomic.Bool
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithFetchTimeout sets how long navigation waits for the page to settle.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithFetchTimeout(d time.Duration) Option {
	return func(r *Renderer) {
		r.fetchTimeout = d
	}
}

// WithRevealTimeout sets the time budget for expanding hidden content.
// Defaults to DefaultRevealTimeout (2s) if not specified.
func WithRevealTimeout(d time.Duration) Option {
	return func(r *Renderer) {
		r.revealTimeout = d
	}
}

// NewRenderer creates a Renderer backed by manager. Closing the renderer
// closes the manager.
func NewRenderer(manager *BrowserManager, opts ...Option) *Renderer {
	r := &Renderer{
		manager:       manager,
		fetchTimeout:  DefaultFetchTimeout,
		revealTimeout: DefaultRevealTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewPage opens a blank browser tab.
func (r *Renderer) NewPage(ctx context.Context) (docdex.Page, error) {
	if r.closed.Load() {
		return nil, docdex.Errorf(docdex.EINVALID, "renderer is closed")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p, err := r.manager.Browser().Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, err
	}
	return &Page{page: p, renderer: r}, nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (r *Renderer) Close() error {
	if !r.closed.CompareAndSwap(false, true) {
		return nil
	}
	return r.manager.Close()
}

// Page is a browser tab.
type Page struct {
	page     *rod.Page
	renderer *Renderer
}

// Navigate loads url and waits, within the fetch timeout, for the load
// event and a stable DOM. Only the navigation itself can fail.
func (p *Page) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := p.page.Context(ctx).Navigate(url); err != nil {
		return err
	}
	p.renderer.manager.IncrementPageCount()

	settle := p.page.Context(ctx).Timeout(p.renderer.fetchTimeout)
	_ = settle.WaitLoad()
	_ = settle.WaitDOMStable(domStableWindow, 0)
	return nil
}

// RevealHidden expands collapsed content within the reveal timeout.
// Failures are ignored.
func (p *Page) RevealHidden(ctx context.Context) {
	reveal := p.page.Context(ctx).Timeout(p.renderer.revealTimeout)
	res, err := reveal.Eval(revealScript)
	if err != nil || res.Value.Int() == 0 {
		return
	}
	_ = reveal.WaitDOMStable(domStableWindow, 0)
}

// Snapshot returns the current DOM serialized as HTML.
func (p *Page) Snapshot(ctx context.Context) (*docdex.Rendered, error) {
	pg := p.page.Context(ctx)

	html, err := pg.HTML()
	if err != nil {
		return nil, err
	}
	info, err := pg.Info()
	if err != nil {
		return nil, err
	}

	return &docdex.Rendered{
		FinalURL: info.URL,
		HTML:     html,
		Title:    info.Title,
	}, nil
}

// ExtractLinks returns the same-host anchors of the current DOM.
func (p *Page) ExtractLinks(ctx context.Context) ([]string, error) {
	rendered, err := p.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return goquery.ExtractLinks(rendered.HTML, rendered.FinalURL)
}

// Close closes the browser tab.
func (p *Page) Close() error {
	return p.page.Close()
}

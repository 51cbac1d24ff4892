package mock

import (
	"context"

	"github.com/fwojciec/docdex"
)

var (
	_ docdex.Renderer = (*Renderer)(nil)
	_ docdex.Page     = (*Page)(nil)
)

// Renderer is a mock implementation of docdex.Renderer.
type Renderer struct {
	NewPageFn func(ctx context.Context) (docdex.Page, error)
	CloseFn   func() error
}

func (r *Renderer) NewPage(ctx context.Context) (docdex.Page, error) {
	return r.NewPageFn(ctx)
}

func (r *Renderer) Close() error {
	return r.CloseFn()
}

// Page is a mock implementation of docdex.Page.
type Page struct {
	NavigateFn     func(ctx context.Context, url string) error
	RevealHiddenFn func(ctx context.Context)
	SnapshotFn     func(ctx context.Context) (*docdex.Rendered, error)
	ExtractLinksFn func(ctx context.Context) ([]string, error)
	CloseFn        func() error
}

func (p *Page) Navigate(ctx context.Context, url string) error {
	return p.NavigateFn(ctx, url)
}

func (p *Page) RevealHidden(ctx context.Context) {
	p.RevealHiddenFn(ctx)
}

func (p *Page) Snapshot(ctx context.Context) (*docdex.Rendered, error) {
	return p.SnapshotFn(ctx)
}

func (p *Page) ExtractLinks(ctx context.Context) ([]string, error) {
	return p.ExtractLinksFn(ctx)
}

func (p *Page) Close() error {
	return p.CloseFn()
}

package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docdex"
)

var (
	_ docdex.Renderer = (*LoggingRenderer)(nil)
	_ docdex.Page     = (*LoggingPage)(nil)
)

// LoggingRenderer wraps a Renderer so that every page it opens logs
// navigation and snapshots.
type LoggingRenderer struct {
	next   docdex.Renderer
	logger *slog.Logger
}

// NewLoggingRenderer creates a new LoggingRenderer.
func NewLoggingRenderer(next docdex.Renderer, logger *slog.Logger) *LoggingRenderer {
	return &LoggingRenderer{next: next, logger: logger}
}

// NewPage delegates to the wrapped renderer and wraps the page.
func (r *LoggingRenderer) NewPage(ctx context.Context) (docdex.Page, error) {
	page, err := r.next.NewPage(ctx)
	if err != nil {
		r.logger.Error("open page", "err", err)
		return nil, err
	}
	return &LoggingPage{next: page, logger: r.logger}, nil
}

// Close delegates to the wrapped renderer.
func (r *LoggingRenderer) Close() error {
	return r.next.Close()
}

// LoggingPage wraps a Page with logging.
type LoggingPage struct {
	next   docdex.Page
	logger *slog.Logger
}

// Navigate logs the URL being loaded and delegates to the wrapped page.
func (p *LoggingPage) Navigate(ctx context.Context, url string) (err error) {
	defer func(begin time.Time) {
		p.logger.Info("navigate",
			"url", url,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.Navigate(ctx, url)
}

// RevealHidden delegates to the wrapped page.
func (p *LoggingPage) RevealHidden(ctx context.Context) {
	p.next.RevealHidden(ctx)
}

// Snapshot logs the size of the rendered document.
func (p *LoggingPage) Snapshot(ctx context.Context) (rendered *docdex.Rendered, err error) {
	defer func(begin time.Time) {
		var url string
		var size int
		if rendered != nil {
			url, size = rendered.FinalURL, len(rendered.HTML)
		}
		p.logger.Info("snapshot",
			"url", url,
			"bytes", size,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.Snapshot(ctx)
}

// ExtractLinks delegates to the wrapped page.
func (p *LoggingPage) ExtractLinks(ctx context.Context) ([]string, error) {
	return p.next.ExtractLinks(ctx)
}

// Close delegates to the wrapped page.
func (p *LoggingPage) Close() error {
	return p.next.Close()
}

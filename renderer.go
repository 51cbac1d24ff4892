package docdex

import "context"

// Rendered is the state of a page after navigation settled.
type Rendered struct {
	// FinalURL is the URL after redirects.
	FinalURL string
	HTML     string
	Title    string
}

// Renderer creates pages that load and render documents.
type Renderer interface {
	// NewPage opens a page. An error means the renderer itself is unusable
	// and is reported as EUNAVAILABLE.
	NewPage(ctx context.Context) (Page, error)

	// Close releases every resource held by the renderer.
	Close() error
}

// Page is a single reusable rendering surface.
type Page interface {
	// Navigate loads url and waits for the page to settle. The settle wait
	// is best effort; only the navigation itself can fail.
	Navigate(ctx context.Context, url string) error

	// RevealHidden expands collapsed disclosure controls so their content is
	// part of the snapshot. It never fails and always returns.
	RevealHidden(ctx context.Context)

	// Snapshot returns the rendered HTML of the current document.
	Snapshot(ctx context.Context) (*Rendered, error)

	// ExtractLinks returns the absolute same-host anchor targets of the
	// current document with fragments removed.
	ExtractLinks(ctx context.Context) ([]string, error)

	Close() error
}

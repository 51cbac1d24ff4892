package docdex

import (
	"context"
	"time"
)

// DefaultVersion is the version label used when the caller does not name one.
const DefaultVersion = "latest"

// Document represents a crawled documentation page at a specific version.
// A document is identified by the (URL, Version) pair.
type Document struct {
	URL          string    `json:"url"`
	Version      string    `json:"version"`
	Domain       string    `json:"domain"`
	Title        string    `json:"title"`
	Markdown     string    `json:"markdown"`
	ETag         string    `json:"etag,omitempty"`
	LastModified string    `json:"lastModified,omitempty"`
	ContentHash  string    `json:"contentHash"`
	CrawledAt    time.Time `json:"crawledAt"`
}

// Validate returns an error if the document contains invalid fields.
func (d *Document) Validate() error {
	if d.URL == "" {
		return Errorf(EINVALID, "document URL required")
	}
	if d.Version == "" {
		return Errorf(EINVALID, "document version required")
	}
	return nil
}

// DisplayTitle returns the document title, falling back to the URL.
func (d *Document) DisplayTitle() string {
	if d.Title == "" {
		return d.URL
	}
	return d.Title
}

// DocumentService represents a service for managing documents.
type DocumentService interface {
	// UpsertDocument inserts or overwrites the document keyed by (URL, Version).
	// If the stored document carries the same non-empty ETag as doc, nothing
	// is written and changed is false.
	UpsertDocument(ctx context.Context, doc *Document) (changed bool, err error)

	// FindDocument retrieves a document by URL and version.
	// Returns ENOTFOUND if document does not exist.
	FindDocument(ctx context.Context, url, version string) (*Document, error)

	// FindDocuments retrieves documents matching the filter.
	FindDocuments(ctx context.Context, filter DocumentFilter) ([]*Document, error)

	// DeleteDocument permanently removes a document and all associated chunks.
	// Returns ENOTFOUND if document does not exist.
	DeleteDocument(ctx context.Context, url, version string) error

	// CountDocuments returns the number of stored documents.
	CountDocuments(ctx context.Context) (int, error)
}

// DocumentFilter represents a filter for FindDocuments.
type DocumentFilter struct {
	Version *string `json:"version"`
	Domain  *string `json:"domain"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// DocumentWriter writes documents to an export destination.
type DocumentWriter interface {
	WriteDocument(ctx context.Context, doc *Document) error
}

// Stats summarizes the contents of the store.
type Stats struct {
	Documents int `json:"documentCount"`
	Chunks    int `json:"chunkCount"`
}

// StatsService reports the size of the store.
type StatsService interface {
	Stats(ctx context.Context) (*Stats, error)
}

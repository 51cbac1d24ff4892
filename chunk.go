package docdex

import (
	"context"
)

// Chunk represents a heading-addressed section of a document.
type Chunk struct {
	// Ancestor heading titles from the document root to this section.
	// Empty for content preceding the first heading.
	HeadingPath []string `json:"headingPath"`
	Content     string   `json:"content"`
	Position    int      `json:"position"`
}

// ChunkService represents a service for managing chunks.
type ChunkService interface {
	// ReplaceChunks atomically replaces every chunk of the document identified
	// by (url, version) with chunks. The search index is updated in the same
	// transaction.
	ReplaceChunks(ctx context.Context, url, version string, chunks []Chunk) error

	// FindChunks returns the chunks of a document ordered by position.
	FindChunks(ctx context.Context, url, version string) ([]Chunk, error)

	// CountChunks returns the number of stored chunks.
	CountChunks(ctx context.Context) (int, error)
}

// MaxSearchResults caps the number of results returned by a search.
const MaxSearchResults = 20

// SearchService provides ranked full-text search over chunks.
type SearchService interface {
	// Search returns chunks containing every whitespace-separated query token,
	// ordered by descending relevance score. An unmatched query returns an
	// empty slice, not an error.
	Search(ctx context.Context, query string, opts SearchOptions) ([]SearchResult, error)
}

// SearchOptions configures search behavior.
type SearchOptions struct {
	// Restrict candidates to a single version. Empty means all versions.
	Version string `json:"version,omitempty"`

	// Maximum number of results to return, capped at MaxSearchResults.
	Limit int `json:"limit,omitempty"`
}

// SearchResult represents a search match.
type SearchResult struct {
	URL         string   `json:"url"`
	Version     string   `json:"version"`
	Title       string   `json:"title"`
	HeadingPath []string `json:"headingPath"`
	Content     string   `json:"content"`
	Score       float64  `json:"score"`
}

package mock

import (
	"context"

	"github.com/fwojciec/docdex"
)

var (
	_ docdex.DocumentService = (*DocumentService)(nil)
	_ docdex.ChunkService    = (*ChunkService)(nil)
	_ docdex.SearchService   = (*SearchService)(nil)
	_ docdex.StatsService    = (*StatsService)(nil)
)

// DocumentService is a mock implementation of docdex.DocumentService.
type DocumentService struct {
	UpsertDocumentFn func(ctx context.Context, doc *docdex.Document) (bool, error)
	FindDocumentFn   func(ctx context.Context, url, version string) (*docdex.Document, error)
	FindDocumentsFn  func(ctx context.Context, filter docdex.DocumentFilter) ([]*docdex.Document, error)
	DeleteDocumentFn func(ctx context.Context, url, version string) error
	CountDocumentsFn func(ctx context.Context) (int, error)
}

func (s *DocumentService) UpsertDocument(ctx context.Context, doc *docdex.Document) (bool, error) {
	return s.UpsertDocumentFn(ctx, doc)
}

func (s *DocumentService) FindDocument(ctx context.Context, url, version string) (*docdex.Document, error) {
	return s.FindDocumentFn(ctx, url, version)
}

func (s *DocumentService) FindDocuments(ctx context.Context, filter docdex.DocumentFilter) ([]*docdex.Document, error) {
	return s.FindDocumentsFn(ctx, filter)
}

func (s *DocumentService) DeleteDocument(ctx context.Context, url, version string) error {
	return s.DeleteDocumentFn(ctx, url, version)
}

func (s *DocumentService) CountDocuments(ctx context.Context) (int, error) {
	return s.CountDocumentsFn(ctx)
}

// ChunkService is a mock implementation of docdex.ChunkService.
type ChunkService struct {
	ReplaceChunksFn func(ctx context.Context, url, version string, chunks []docdex.Chunk) error
	FindChunksFn    func(ctx context.Context, url, version string) ([]docdex.Chunk, error)
	CountChunksFn   func(ctx context.Context) (int, error)
}

func (s *ChunkService) ReplaceChunks(ctx context.Context, url, version string, chunks []docdex.Chunk) error {
	return s.ReplaceChunksFn(ctx, url, version, chunks)
}

func (s *ChunkService) FindChunks(ctx context.Context, url, version string) ([]docdex.Chunk, error) {
	return s.FindChunksFn(ctx, url, version)
}

func (s *ChunkService) CountChunks(ctx context.Context) (int, error) {
	return s.CountChunksFn(ctx)
}

// SearchService is a mock implementation of docdex.SearchService.
type SearchService struct {
	SearchFn func(ctx context.Context, query string, opts docdex.SearchOptions) ([]docdex.SearchResult, error)
}

func (s *SearchService) Search(ctx context.Context, query string, opts docdex.SearchOptions) ([]docdex.SearchResult, error) {
	return s.SearchFn(ctx, query, opts)
}

// StatsService is a mock implementation of docdex.StatsService.
type StatsService struct {
	StatsFn func(ctx context.Context) (*docdex.Stats, error)
}

func (s *StatsService) Stats(ctx context.Context) (*docdex.Stats, error) {
	return s.StatsFn(ctx)
}

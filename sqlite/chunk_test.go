package sqlite_test

import (
	"context"
	"testing"

	"github.com/fwojciec/docdex"
	"github.com/fwojciec/docdex/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkService_ReplaceChunks(t *testing.T) {
	t.Parallel()

	t.Run("stores chunks in order with heading paths", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewChunkService(db)
		ctx := context.Background()
		doc := createTestDocument(t, db, "https://example.com/a", "latest")

		err := svc.ReplaceChunks(ctx, doc.URL, doc.Version, []docdex.Chunk{
			{Content: "Preamble without a heading."},
			{HeadingPath: []string{"Top", "Sub"}, Content: "Nested section content."},
		})
		require.NoError(t, err)

		chunks, err := svc.FindChunks(ctx, doc.URL, doc.Version)
		require.NoError(t, err)
		require.Len(t, chunks, 2)
		assert.Equal(t, []string{}, chunks[0].HeadingPath)
		assert.Equal(t, 0, chunks[0].Position)
		assert.Equal(t, []string{"Top", "Sub"}, chunks[1].HeadingPath)
		assert.Equal(t, 1, chunks[1].Position)
		assert.Equal(t, "Nested section content.", chunks[1].Content)
	})

	t.Run("second replacement leaves only the second set", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewChunkService(db)
		search := sqlite.NewSearchService(db)
		ctx := context.Background()
		doc := createTestDocument(t, db, "https://example.com/a", "latest")

		require.NoError(t, svc.ReplaceChunks(ctx, doc.URL, doc.Version, []docdex.Chunk{
			{HeadingPath: []string{"Old"}, Content: "First set mentions giraffe."},
			{HeadingPath: []string{"Old"}, Content: "First set mentions giraffe again."},
			{HeadingPath: []string{"Old"}, Content: "First set third chunk."},
		}))
		require.NoError(t, svc.ReplaceChunks(ctx, doc.URL, doc.Version, []docdex.Chunk{
			{HeadingPath: []string{"New"}, Content: "Second set mentions penguin."},
		}))

		chunks, err := svc.FindChunks(ctx, doc.URL, doc.Version)
		require.NoError(t, err)
		require.Len(t, chunks, 1)
		assert.Equal(t, "Second set mentions penguin.", chunks[0].Content)

		n, err := svc.CountChunks(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		old, err := search.Search(ctx, "giraffe", docdex.SearchOptions{})
		require.NoError(t, err)
		assert.Empty(t, old)

		current, err := search.Search(ctx, "penguin", docdex.SearchOptions{})
		require.NoError(t, err)
		assert.Len(t, current, 1)
	})

	t.Run("does not touch chunks of other versions", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewChunkService(db)
		ctx := context.Background()
		createTestDocument(t, db, "https://example.com/a", "v1")
		createTestDocument(t, db, "https://example.com/a", "v2")

		require.NoError(t, svc.ReplaceChunks(ctx, "https://example.com/a", "v1", []docdex.Chunk{{Content: "Version one content."}}))
		require.NoError(t, svc.ReplaceChunks(ctx, "https://example.com/a", "v2", []docdex.Chunk{{Content: "Version two content."}}))

		v1, err := svc.FindChunks(ctx, "https://example.com/a", "v1")
		require.NoError(t, err)
		require.Len(t, v1, 1)
		assert.Equal(t, "Version one content.", v1[0].Content)
	})

	t.Run("rejects chunks for a missing document and keeps existing rows", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewChunkService(db)
		ctx := context.Background()

		err := svc.ReplaceChunks(ctx, "https://example.com/missing", "latest", []docdex.Chunk{{Content: "Orphan chunk content."}})
		require.Error(t, err)

		n, err := svc.CountChunks(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})

	t.Run("replacing with nothing clears chunks", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewChunkService(db)
		ctx := context.Background()
		doc := createTestDocument(t, db, "https://example.com/a", "latest")

		require.NoError(t, svc.ReplaceChunks(ctx, doc.URL, doc.Version, []docdex.Chunk{{Content: "Soon to be removed."}}))
		require.NoError(t, svc.ReplaceChunks(ctx, doc.URL, doc.Version, nil))

		chunks, err := svc.FindChunks(ctx, doc.URL, doc.Version)
		require.NoError(t, err)
		assert.Empty(t, chunks)
	})

	t.Run("returns EINVALID without document key", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewChunkService(db)

		err := svc.ReplaceChunks(context.Background(), "", "latest", nil)
		assert.Equal(t, docdex.EINVALID, docdex.ErrorCode(err))
	})
}

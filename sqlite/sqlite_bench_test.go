package sqlite_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/docdex"
	"github.com/fwojciec/docdex/sqlite"
	"github.com/stretchr/testify/require"
)

func openBenchDB(b *testing.B) *sqlite.DB {
	b.Helper()

	dbPath := filepath.Join(b.TempDir(), "bench.db")
	db := sqlite.NewDB(dbPath)
	require.NoError(b, db.Open())
	b.Cleanup(func() {
		db.Close()
		os.Remove(dbPath + "-wal")
		os.Remove(dbPath + "-shm")
	})
	return db
}

func benchMarkdown(i int) string {
	return fmt.Sprintf("# Page %d\n\nIntroduction to page %d with enough text to be kept as a section.\n\n"+
		"## Usage\n\nCall the widget with a configuration object. Lorem ipsum dolor sit amet, consectetur adipiscing elit.\n\n"+
		"## Props\n\nThe variant prop selects the visual style; size controls padding and font scale.", i, i)
}

// BenchmarkIndexPage measures the write path of one crawled page: the
// document upsert followed by a full chunk replacement and index sync.
func BenchmarkIndexPage(b *testing.B) {
	db := openBenchDB(b)
	docs := sqlite.NewDocumentService(db)
	chunks := sqlite.NewChunkService(db)
	ctx := context.Background()

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		doc := &docdex.Document{
			URL:      fmt.Sprintf("https://example.com/docs/page%d", i),
			Version:  docdex.DefaultVersion,
			Title:    fmt.Sprintf("Page %d", i),
			Markdown: benchMarkdown(i),
		}
		if _, err := docs.UpsertDocument(ctx, doc); err != nil {
			b.Fatal(err)
		}
		if err := chunks.ReplaceChunks(ctx, doc.URL, doc.Version, docdex.ChunkMarkdown(doc.Markdown)); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkSearch measures ranked retrieval over a populated index.
func BenchmarkSearch(b *testing.B) {
	db := openBenchDB(b)
	docs := sqlite.NewDocumentService(db)
	chunks := sqlite.NewChunkService(db)
	search := sqlite.NewSearchService(db)
	ctx := context.Background()

	for i := 0; i < 500; i++ {
		doc := &docdex.Document{
			URL:      fmt.Sprintf("https://example.com/docs/page%d", i),
			Version:  docdex.DefaultVersion,
			Markdown: benchMarkdown(i),
		}
		_, err := docs.UpsertDocument(ctx, doc)
		require.NoError(b, err)
		require.NoError(b, chunks.ReplaceChunks(ctx, doc.URL, doc.Version, docdex.ChunkMarkdown(doc.Markdown)))
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := search.Search(ctx, "variant prop", docdex.SearchOptions{}); err != nil {
			b.Fatal(err)
		}
	}
}

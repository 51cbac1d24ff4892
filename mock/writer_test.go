package mock_test

import (
	"context"
	"testing"

	"github.com/fwojciec/docdex"
	"github.com/fwojciec/docdex/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentWriter_WriteDocument(t *testing.T) {
	t.Parallel()

	t.Run("delegates to WriteDocumentFn", func(t *testing.T) {
		t.Parallel()

		var calledWith *docdex.Document
		w := &mock.DocumentWriter{
			WriteDocumentFn: func(_ context.Context, doc *docdex.Document) error {
				calledWith = doc
				return nil
			},
		}

		doc := &docdex.Document{
			URL:      "https://example.com/doc",
			Version:  "latest",
			Title:    "Test Doc",
			Markdown: "Test content",
		}

		err := w.WriteDocument(context.Background(), doc)

		require.NoError(t, err)
		assert.Equal(t, doc, calledWith)
	})
}

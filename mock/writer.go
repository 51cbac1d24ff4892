package mock

import (
	"context"

	"github.com/fwojciec/docdex"
)

var _ docdex.DocumentWriter = (*DocumentWriter)(nil)

// DocumentWriter is a mock implementation of docdex.DocumentWriter.
type DocumentWriter struct {
	WriteDocumentFn func(ctx context.Context, doc *docdex.Document) error
}

func (w *DocumentWriter) WriteDocument(ctx context.Context, doc *docdex.Document) error {
	return w.WriteDocumentFn(ctx, doc)
}

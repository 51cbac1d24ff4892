package main

import (
	"fmt"

	"github.com/fwojciec/docdex"
	"github.com/fwojciec/docdex/fs"
)

// exportPageSize is the number of documents read from the store at a time.
const exportPageSize = 100

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	filter := docdex.DocumentFilter{
		Version: &c.Version,
		Limit:   exportPageSize,
	}
	if c.Domain != "" {
		filter.Domain = &c.Domain
	}

	w := fs.NewWriter(c.Dir)
	var n int
	for {
		docs, err := deps.Documents.FindDocuments(deps.Ctx, filter)
		if err != nil {
			_ = w.Abort()
			fmt.Fprintf(deps.Stderr, "error: %s\n", docdex.ErrorMessage(err))
			return err
		}
		for _, doc := range docs {
			if err := w.WriteDocument(deps.Ctx, doc); err != nil {
				_ = w.Abort()
				fmt.Fprintf(deps.Stderr, "error exporting %s: %s\n", doc.URL, docdex.ErrorMessage(err))
				return err
			}
			n++
		}
		if len(docs) < exportPageSize {
			break
		}
		filter.Offset += exportPageSize
	}

	if n == 0 {
		_ = w.Abort()
		fmt.Fprintf(deps.Stderr, "error: no documents for version %q\n", c.Version)
		return docdex.Errorf(docdex.ENOTFOUND, "no documents for version %q", c.Version)
	}

	if err := w.Commit(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "Exported %d documents to %s\n", n, c.Dir)
	return nil
}

package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fwojciec/docdex"
	"github.com/fwojciec/docdex/crawl"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	query := strings.Join(c.Query, " ")

	results, err := deps.Search.Search(deps.Ctx, query, docdex.SearchOptions{
		Version: c.Version,
		Limit:   c.Limit,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docdex.ErrorMessage(err))
		return err
	}

	if c.JSON {
		if results == nil {
			results = []docdex.SearchResult{}
		}
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Fprintf(deps.Stdout, "No results for %q.\n", query)
		return nil
	}

	fmt.Fprintln(deps.Stdout, docdex.FormatSearchResults(results))
	return nil
}

// Run executes the get command.
func (c *GetCmd) Run(deps *Dependencies) error {
	u, err := crawl.Normalize(c.URL)
	if err != nil {
		err = docdex.Errorf(docdex.EINVALID, "invalid URL %q", c.URL)
		fmt.Fprintf(deps.Stderr, "error: %s\n", docdex.ErrorMessage(err))
		return err
	}

	doc, err := deps.Documents.FindDocument(deps.Ctx, u, c.Version)
	if err != nil {
		if docdex.ErrorCode(err) == docdex.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: %s (%s) is not indexed. Use 'docdex crawl' to add it.\n", c.URL, c.Version)
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", docdex.ErrorMessage(err))
		}
		return err
	}

	if !c.Chunks {
		fmt.Fprintf(deps.Stdout, "# %s\n\n%s\n", doc.DisplayTitle(), doc.Markdown)
		return nil
	}

	chunks, err := deps.Chunks.FindChunks(deps.Ctx, u, c.Version)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docdex.ErrorMessage(err))
		return err
	}
	for _, chunk := range chunks {
		path := docdex.FormatHeadingPath(chunk.HeadingPath)
		if path == "" {
			path = "(preamble)"
		}
		fmt.Fprintf(deps.Stdout, "--- %d. %s\n%s\n\n", chunk.Position+1, path, chunk.Content)
	}
	return nil
}

// Run executes the stats command.
func (c *StatsCmd) Run(deps *Dependencies) error {
	stats, err := deps.Stats.Stats(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docdex.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Documents: %d\nSections:  %d\n", stats.Documents, stats.Chunks)
	return nil
}

package main

import (
	"fmt"

	"github.com/fwojciec/docdex"
	"github.com/fwojciec/docdex/crawl"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	result, err := deps.Crawler.CrawlSite(deps.Ctx, crawl.SiteRequest{
		URL:           c.URL,
		Version:       c.Version,
		MaxPages:      maxPages(c.MaxPages, deps),
		PathFilter:    c.Filter,
		ExpandSubtabs: c.Subtabs,
		Profile:       docdex.Profile(c.Profile),
	}, printProgress(deps))
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error crawling: %s\n", docdex.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "  %s\n", crawl.FormatResult(result))
	return nil
}

// Run executes the components command.
func (c *ComponentsCmd) Run(deps *Dependencies) error {
	result, err := deps.Crawler.CrawlComponentIndex(deps.Ctx, crawl.ComponentRequest{
		URL:      c.URL,
		Version:  c.Version,
		MaxPages: maxPages(c.MaxPages, deps),
		Profile:  docdex.Profile(c.Profile),
	}, printProgress(deps))
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error crawling: %s\n", docdex.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "  %s\n", crawl.FormatResult(result))
	return nil
}

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	markdown, err := deps.Crawler.ExtractSingle(deps.Ctx, c.URL, c.Version)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docdex.ErrorMessage(err))
		return err
	}
	if markdown == "" {
		fmt.Fprintf(deps.Stderr, "no content extracted from %s\n", c.URL)
		return nil
	}

	fmt.Fprintln(deps.Stdout, markdown)
	return nil
}

func maxPages(n int, deps *Dependencies) int {
	if n > 0 {
		return n
	}
	return deps.MaxPages
}

func printProgress(deps *Dependencies) crawl.ProgressFunc {
	return func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "  Crawling up to %d pages\n", event.Total)
		case crawl.ProgressCompleted:
			fmt.Fprintf(deps.Stdout, "  [%d/%d] %s\n", event.Completed, event.Total, crawl.TruncateURL(event.URL, 80))
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", event.URL, event.Error)
		}
	}
}

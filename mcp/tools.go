package mcp

import (
	"context"
	"time"

	"github.com/fwojciec/docdex"
	"github.com/fwojciec/docdex/crawl"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// CrawlSiteInput defines input for the crawl_site tool.
type CrawlSiteInput struct {
	URL           string `json:"url,omitempty" jsonschema:"start URL of the documentation site (required)"`
	Version       string `json:"version,omitempty" jsonschema:"version label stored with every page, defaults to latest"`
	MaxPages      int    `json:"max_pages,omitempty" jsonschema:"maximum number of pages to index, defaults to 50"`
	PathFilter    string `json:"path_filter,omitempty" jsonschema:"only follow links whose path contains this substring"`
	ExpandSubtabs bool   `json:"expand_subtabs,omitempty" jsonschema:"also queue component subtab variants of each seed"`
	Profile       string `json:"profile,omitempty" jsonschema:"documentation framework profile, detected when empty"`
}

// CrawlComponentIndexInput defines input for the crawl_component_index tool.
type CrawlComponentIndexInput struct {
	URL      string `json:"url,omitempty" jsonschema:"URL of the component index page (required)"`
	Version  string `json:"version,omitempty" jsonschema:"version label stored with every page, defaults to latest"`
	MaxPages int    `json:"max_pages,omitempty" jsonschema:"maximum number of pages to index, defaults to 50"`
	Profile  string `json:"profile,omitempty" jsonschema:"documentation framework profile, detected when empty"`
}

// CrawlOutput defines output for the crawl tools.
type CrawlOutput struct {
	RunID   string   `json:"runId"`
	URLs    []string `json:"urls"`
	Visited int      `json:"visited"`
	Failed  int      `json:"failed"`
	Skipped int      `json:"skipped"`
	Reused  int      `json:"reused"`
	Bytes   int      `json:"bytes"`
	Summary string   `json:"summary"`
}

func newCrawlOutput(r *crawl.Result) CrawlOutput {
	urls := r.URLs
	if urls == nil {
		urls = []string{}
	}
	return CrawlOutput{
		RunID:   r.RunID,
		URLs:    urls,
		Visited: r.Visited,
		Failed:  r.Failed,
		Skipped: r.Skipped,
		Reused:  r.Reused,
		Bytes:   r.Bytes,
		Summary: crawl.FormatResult(r),
	}
}

// CrawlSite handles the crawl_site tool.
func (s *Server) CrawlSite(ctx context.Context, req *mcpsdk.CallToolRequest, input CrawlSiteInput) (*mcpsdk.CallToolResult, CrawlOutput, error) {
	if err := required("url", input.URL); err != nil {
		return nil, CrawlOutput{}, err
	}

	result, err := s.Crawler.CrawlSite(ctx, crawl.SiteRequest{
		URL:           input.URL,
		Version:       input.Version,
		MaxPages:      input.MaxPages,
		PathFilter:    input.PathFilter,
		ExpandSubtabs: input.ExpandSubtabs,
		Profile:       docdex.Profile(input.Profile),
	}, s.progress("crawl_site"))
	if err != nil {
		return nil, CrawlOutput{}, err
	}
	return nil, newCrawlOutput(result), nil
}

// CrawlComponentIndex handles the crawl_component_index tool.
func (s *Server) CrawlComponentIndex(ctx context.Context, req *mcpsdk.CallToolRequest, input CrawlComponentIndexInput) (*mcpsdk.CallToolResult, CrawlOutput, error) {
	if err := required("url", input.URL); err != nil {
		return nil, CrawlOutput{}, err
	}

	result, err := s.Crawler.CrawlComponentIndex(ctx, crawl.ComponentRequest{
		URL:      input.URL,
		Version:  input.Version,
		MaxPages: input.MaxPages,
		Profile:  docdex.Profile(input.Profile),
	}, s.progress("crawl_component_index"))
	if err != nil {
		return nil, CrawlOutput{}, err
	}
	return nil, newCrawlOutput(result), nil
}

// ExtractSingleInput defines input for the extract_single tool.
type ExtractSingleInput struct {
	URL     string `json:"url,omitempty" jsonschema:"URL of the page to extract (required)"`
	Version string `json:"version,omitempty" jsonschema:"version label, defaults to latest"`
}

// ExtractSingleOutput defines output for the extract_single tool.
type ExtractSingleOutput struct {
	URL      string `json:"url"`
	Markdown string `json:"markdown"`

	// Empty is set when the page had too little content to keep.
	Empty bool `json:"empty"`
}

// ExtractSingle handles the extract_single tool.
func (s *Server) ExtractSingle(ctx context.Context, req *mcpsdk.CallToolRequest, input ExtractSingleInput) (*mcpsdk.CallToolResult, ExtractSingleOutput, error) {
	if err := required("url", input.URL); err != nil {
		return nil, ExtractSingleOutput{}, err
	}

	markdown, err := s.Crawler.ExtractSingle(ctx, input.URL, input.Version)
	if err != nil {
		return nil, ExtractSingleOutput{}, err
	}
	return nil, ExtractSingleOutput{
		URL:      input.URL,
		Markdown: markdown,
		Empty:    markdown == "",
	}, nil
}

// SearchInput defines input for the search tool.
type SearchInput struct {
	Query   string `json:"query,omitempty" jsonschema:"search terms, every term must match (required)"`
	Version string `json:"version,omitempty" jsonschema:"restrict results to one version"`
	Limit   int    `json:"limit,omitempty" jsonschema:"maximum number of results, at most 20"`
}

// SearchHit is a single ranked section.
type SearchHit struct {
	URL         string   `json:"url"`
	Version     string   `json:"version"`
	Title       string   `json:"title"`
	HeadingPath []string `json:"headingPath"`
	Content     string   `json:"content"`
	Score       float64  `json:"score"`
}

// SearchOutput defines output for the search tool.
type SearchOutput struct {
	Results []SearchHit `json:"results"`
	Count   int         `json:"count"`
}

// SearchDocs handles the search tool.
func (s *Server) SearchDocs(ctx context.Context, req *mcpsdk.CallToolRequest, input SearchInput) (*mcpsdk.CallToolResult, SearchOutput, error) {
	if err := required("query", input.Query); err != nil {
		return nil, SearchOutput{}, err
	}

	results, err := s.Search.Search(ctx, input.Query, docdex.SearchOptions{
		Version: input.Version,
		Limit:   input.Limit,
	})
	if err != nil {
		return nil, SearchOutput{}, err
	}
	hits := make([]SearchHit, 0, len(results))
	for _, r := range results {
		path := r.HeadingPath
		if path == nil {
			path = []string{}
		}
		hits = append(hits, SearchHit{
			URL:         r.URL,
			Version:     r.Version,
			Title:       r.Title,
			HeadingPath: path,
			Content:     r.Content,
			Score:       r.Score,
		})
	}
	return nil, SearchOutput{Results: hits, Count: len(hits)}, nil
}

// GetDocumentInput defines input for the get_document tool.
type GetDocumentInput struct {
	URL     string `json:"url,omitempty" jsonschema:"URL of the stored page (required)"`
	Version string `json:"version,omitempty" jsonschema:"version label, defaults to latest"`
}

// DocumentOutput defines output for the get_document tool.
type DocumentOutput struct {
	URL       string `json:"url"`
	Version   string `json:"version"`
	Title     string `json:"title"`
	Markdown  string `json:"markdown"`
	CrawledAt string `json:"crawledAt"`
}

// GetDocument handles the get_document tool.
func (s *Server) GetDocument(ctx context.Context, req *mcpsdk.CallToolRequest, input GetDocumentInput) (*mcpsdk.CallToolResult, DocumentOutput, error) {
	if err := required("url", input.URL); err != nil {
		return nil, DocumentOutput{}, err
	}

	version := input.Version
	if version == "" {
		version = docdex.DefaultVersion
	}

	u, err := crawl.Normalize(input.URL)
	if err != nil {
		return nil, DocumentOutput{}, docdex.Errorf(docdex.EINVALID, "invalid URL %q", input.URL)
	}

	doc, err := s.Documents.FindDocument(ctx, u, version)
	if err != nil {
		return nil, DocumentOutput{}, err
	}
	return nil, DocumentOutput{
		URL:       doc.URL,
		Version:   doc.Version,
		Title:     doc.DisplayTitle(),
		Markdown:  doc.Markdown,
		CrawledAt: doc.CrawledAt.UTC().Format(time.RFC3339),
	}, nil
}

// GetStatsInput defines input for the get_stats tool.
type GetStatsInput struct{}

// StatsOutput defines output for the get_stats tool.
type StatsOutput struct {
	Documents int `json:"documentCount"`
	Chunks    int `json:"chunkCount"`
}

// GetStats handles the get_stats tool.
func (s *Server) GetStats(ctx context.Context, req *mcpsdk.CallToolRequest, input GetStatsInput) (*mcpsdk.CallToolResult, StatsOutput, error) {
	stats, err := s.Stats.Stats(ctx)
	if err != nil {
		return nil, StatsOutput{}, err
	}
	return nil, StatsOutput{Documents: stats.Documents, Chunks: stats.Chunks}, nil
}

// Package mcp exposes docdex operations as Model Context Protocol tools.
package mcp

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/fwojciec/docdex"
	"github.com/fwojciec/docdex/crawl"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Crawler runs crawls on behalf of tool calls. It is implemented by
// crawl.Scheduler.
type Crawler interface {
	CrawlSite(ctx context.Context, req crawl.SiteRequest, progress crawl.ProgressFunc) (*crawl.Result, error)
	CrawlComponentIndex(ctx context.Context, req crawl.ComponentRequest, progress crawl.ProgressFunc) (*crawl.Result, error)
	ExtractSingle(ctx context.Context, url, version string) (string, error)
}

var _ Crawler = (*crawl.Scheduler)(nil)

// Server registers the docdex tools on an MCP server.
type Server struct {
	Crawler   Crawler
	Documents docdex.DocumentService
	Search    docdex.SearchService
	Stats     docdex.StatsService
	Logger    *slog.Logger

	// Name and Version identify the server to clients.
	Name    string
	Version string
}

// MCPServer builds an MCP server with every tool registered.
func (s *Server) MCPServer() *mcpsdk.Server {
	server := mcpsdk.NewServer(&mcpsdk.Implementation{
		Name:    s.Name,
		Version: s.Version,
	}, nil)

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "crawl_site",
		Description: "Crawl a documentation site breadth-first from a start URL and index every page for search.",
	}, s.CrawlSite)

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "crawl_component_index",
		Description: "Crawl a component library index page and every component page with its subtabs.",
	}, s.CrawlComponentIndex)

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "extract_single",
		Description: "Render and index one page, returning its main content as Markdown.",
	}, s.ExtractSingle)

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "search",
		Description: "Full-text search over indexed documentation sections, ranked by BM25 relevance.",
	}, s.SearchDocs)

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "get_document",
		Description: "Return the stored Markdown of a crawled page.",
	}, s.GetDocument)

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "get_stats",
		Description: "Report how many documents and sections are indexed.",
	}, s.GetStats)

	return server
}

// Run serves tools over stdio until ctx is cancelled or the client
// disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.MCPServer().Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s.Logger
}

// progress logs crawl progress for a tool call.
func (s *Server) progress(tool string) crawl.ProgressFunc {
	logger := s.logger().With("tool", tool)
	return func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressCompleted:
			logger.Debug("page indexed", "url", event.URL, "completed", event.Completed, "total", event.Total)
		case crawl.ProgressFailed:
			logger.Debug("page failed", "url", event.URL, "err", event.Error)
		}
	}
}

func required(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return docdex.Errorf(docdex.EINVALID, "%s is required", name)
	}
	return nil
}

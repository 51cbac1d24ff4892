package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/docdex"
	"github.com/fwojciec/docdex/mcp"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Documents docdex.DocumentService
	Chunks    docdex.ChunkService
	Search    docdex.SearchService
	Stats     docdex.StatsService
	Crawler   mcp.Crawler

	// MaxPages is the page budget used when a command does not set one.
	MaxPages int
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config string `help:"Path to the config file" type:"path" placeholder:"PATH"`
	DB     string `name:"db" help:"Path to the SQLite database" type:"path" placeholder:"PATH"`

	Crawl      CrawlCmd      `cmd:"" help:"Crawl a documentation site breadth-first"`
	Components ComponentsCmd `cmd:"" help:"Crawl a component library index and its subtabs"`
	Extract    ExtractCmd    `cmd:"" help:"Print the Markdown of a single page without storing it"`
	Search     SearchCmd     `cmd:"" help:"Search indexed documentation"`
	Get        GetCmd        `cmd:"" help:"Print a stored document"`
	Stats      StatsCmd      `cmd:"" help:"Show index statistics"`
	Export     ExportCmd     `cmd:"" help:"Export stored documents as Markdown files"`
	Serve      ServeCmd      `cmd:"" help:"Serve MCP tools over stdio"`
}

// rendering reports whether cmd needs a renderer and whether it should be
// the static one.
func (c *CLI) rendering(cmd string) (static bool, ok bool) {
	switch cmd {
	case "crawl":
		return c.Crawl.Static, true
	case "components":
		return c.Components.Static, true
	case "extract":
		return c.Extract.Static, true
	case "serve":
		return c.Serve.Static, true
	}
	return false, false
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	URL      string `arg:"" help:"Start URL"`
	Version  string `short:"v" default:"${defaultVersion}" help:"Version label for stored pages"`
	MaxPages int    `short:"n" name:"max-pages" help:"Maximum number of pages to index"`
	Filter   string `short:"f" help:"Only follow links whose path contains this substring"`
	Subtabs  bool   `help:"Also queue component subtab variants of each seed"`
	Profile  string `help:"Documentation framework profile (detected when empty)"`
	Static   bool   `help:"Fetch pages without a browser"`
}

// ComponentsCmd is the "components" subcommand.
type ComponentsCmd struct {
	URL      string `arg:"" help:"Component index URL"`
	Version  string `short:"v" default:"${defaultVersion}" help:"Version label for stored pages"`
	MaxPages int    `short:"n" name:"max-pages" help:"Maximum number of pages to index"`
	Profile  string `help:"Documentation framework profile (detected when empty)"`
	Static   bool   `help:"Fetch pages without a browser"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	URL     string `arg:"" help:"Page URL"`
	Version string `short:"v" default:"${defaultVersion}" help:"Version label"`
	Static  bool   `help:"Fetch the page without a browser"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query   []string `arg:"" help:"Search terms"`
	Version string   `short:"v" help:"Restrict results to one version"`
	Limit   int      `short:"l" default:"10" help:"Maximum number of results"`
	JSON    bool     `name:"json" help:"Print results as JSON"`
}

// GetCmd is the "get" subcommand.
type GetCmd struct {
	URL     string `arg:"" help:"Document URL"`
	Version string `short:"v" default:"${defaultVersion}" help:"Document version"`
	Chunks  bool   `help:"Print the indexed sections instead of the Markdown"`
}

// StatsCmd is the "stats" subcommand.
type StatsCmd struct{}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	Dir     string `arg:"" help:"Output directory (replaced on success)" type:"path"`
	Version string `short:"v" default:"${defaultVersion}" help:"Version to export"`
	Domain  string `help:"Only export documents from this host"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Static bool `help:"Fetch pages without a browser"`
}

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/docdex"
	"github.com/fwojciec/docdex/crawl"
	"github.com/fwojciec/docdex/extract"
	"github.com/fwojciec/docdex/goquery"
	"github.com/fwojciec/docdex/htmltomarkdown"
	dochttp "github.com/fwojciec/docdex/http"
	"github.com/fwojciec/docdex/readability"
	"github.com/fwojciec/docdex/robots"
	"github.com/fwojciec/docdex/rod"
	docslog "github.com/fwojciec/docdex/slog"
	"github.com/fwojciec/docdex/sqlite"
	"github.com/fwojciec/docdex/toml"
	"github.com/fwojciec/docdex/trafilatura"
)

// version is set at build time.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Overrides the configured path when set before Run().
	DBPath string

	// Config file path. Defaults to $DOCDEX_CONFIG or ~/.docdex/config.toml.
	ConfigPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Renderer overrides the browser or static renderer. Used by tests.
	Renderer docdex.Renderer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		ConfigPath: toml.DefaultPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("docdex"),
		kong.Description("Crawl documentation sites into a local full-text search index."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Vars{"defaultVersion": docdex.DefaultVersion},
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'docdex --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	configPath := m.ConfigPath
	if cli.Config != "" {
		configPath = cli.Config
	}
	cfg, err := toml.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config %q: %w", configPath, err)
	}

	logger, err := newLogger(stderr, cfg.Logging)
	if err != nil {
		return err
	}
	deps.Logger = logger
	deps.MaxPages = cfg.Crawl.MaxPages

	dbPath := cfg.DB.Path
	if m.DBPath != "" {
		dbPath = m.DBPath
	}
	if cli.DB != "" {
		dbPath = cli.DB
	}
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	m.DB = sqlite.NewDB(dbPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set %s to use a different database path\n", toml.EnvDB)
		return fmt.Errorf("failed to open database at %q: %w", dbPath, err)
	}
	defer m.Close()

	deps.Documents = sqlite.NewDocumentService(m.DB)
	deps.Chunks = sqlite.NewChunkService(m.DB)
	deps.Search = docslog.NewLoggingSearchService(sqlite.NewSearchService(m.DB), logger)
	deps.Stats = sqlite.NewStatsService(m.DB)

	cmd := strings.Fields(kongCtx.Command())[0]
	if static, ok := cli.rendering(cmd); ok {
		renderer := m.Renderer
		if renderer == nil {
			renderer, err = newRenderer(cfg, static)
			if err != nil {
				fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed, or pass --static")
				return fmt.Errorf("failed to start browser: %w", err)
			}
		}
		defer renderer.Close()

		deps.Crawler = newScheduler(cfg, deps, docslog.NewLoggingRenderer(renderer, logger))
	}

	return kongCtx.Run(deps)
}

func newRenderer(cfg *toml.Config, static bool) (docdex.Renderer, error) {
	if static {
		return dochttp.NewRenderer(
			dochttp.WithTimeout(cfg.Crawl.NavigationTimeout.Std()),
			dochttp.WithUserAgent(cfg.Politeness.UserAgent),
		), nil
	}

	manager, err := rod.NewBrowserManager()
	if err != nil {
		return nil, err
	}
	return rod.NewRenderer(manager), nil
}

func newScheduler(cfg *toml.Config, deps *Dependencies, renderer docdex.Renderer) *crawl.Scheduler {
	logger := deps.Logger
	governor := robots.NewGovernor(
		robots.WithUserAgent(cfg.Politeness.UserAgent),
		robots.WithDefaultDelay(cfg.Politeness.DefaultDelay.Std()),
		robots.WithTimeout(cfg.Politeness.RobotsTimeout.Std()),
		robots.WithLogger(logger),
	)
	recrawl := dochttp.NewRecrawlCache(nil, deps.Documents)
	recrawl.Politeness = governor

	return &crawl.Scheduler{
		Sitemaps: docslog.NewLoggingSitemapService(dochttp.NewSitemapService(nil), logger),
		Renderer: renderer,
		Extractor: &extract.Pipeline{
			Detector:  docslog.NewLoggingProfileDetector(goquery.NewDetector(), logger),
			Roots:     goquery.NewRootExtractor(),
			Extractor: trafilatura.NewExtractor(),
			Fallback:  readability.NewExtractor(),
			Converter: htmltomarkdown.NewConverter(),
		},
		Documents:         deps.Documents,
		Chunks:            deps.Chunks,
		Politeness:        governor,
		Recrawl:           recrawl,
		Logger:            logger,
		Workers:           cfg.Crawl.Workers,
		Subtabs:           cfg.Crawl.Subtabs,
		Components:        cfg.Crawl.ComponentMatcher(),
		SeedFactor:        cfg.Crawl.SeedFactor,
		NavigationTimeout: cfg.Crawl.NavigationTimeout.Std(),
	}
}

// newLogger builds the program logger. Logs go to w so stdout stays free for
// command output and the MCP stdio transport.
func newLogger(w io.Writer, cfg toml.LoggingConfig) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, docdex.Errorf(docdex.EINVALID, "invalid log level %q", cfg.Level)
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler).With("name", "docdex"), nil
}

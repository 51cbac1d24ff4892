package mcp_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/docdex"
	"github.com/fwojciec/docdex/crawl"
	"github.com/fwojciec/docdex/mcp"
	"github.com/fwojciec/docdex/mock"
	"github.com/fwojciec/docdex/sqlite"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type crawler struct {
	CrawlSiteFn           func(ctx context.Context, req crawl.SiteRequest, progress crawl.ProgressFunc) (*crawl.Result, error)
	CrawlComponentIndexFn func(ctx context.Context, req crawl.ComponentRequest, progress crawl.ProgressFunc) (*crawl.Result, error)
	ExtractSingleFn       func(ctx context.Context, url, version string) (string, error)
}

func (c *crawler) CrawlSite(ctx context.Context, req crawl.SiteRequest, progress crawl.ProgressFunc) (*crawl.Result, error) {
	return c.CrawlSiteFn(ctx, req, progress)
}

func (c *crawler) CrawlComponentIndex(ctx context.Context, req crawl.ComponentRequest, progress crawl.ProgressFunc) (*crawl.Result, error) {
	return c.CrawlComponentIndexFn(ctx, req, progress)
}

func (c *crawler) ExtractSingle(ctx context.Context, url, version string) (string, error) {
	return c.ExtractSingleFn(ctx, url, version)
}

func TestServer_CrawlSite(t *testing.T) {
	t.Parallel()

	t.Run("passes request through and summarizes result", func(t *testing.T) {
		t.Parallel()

		var got crawl.SiteRequest
		s := &mcp.Server{Crawler: &crawler{
			CrawlSiteFn: func(_ context.Context, req crawl.SiteRequest, progress crawl.ProgressFunc) (*crawl.Result, error) {
				got = req
				progress(crawl.ProgressEvent{Type: crawl.ProgressCompleted, URL: req.URL, Completed: 1, Total: 1})
				return &crawl.Result{RunID: "run-1", URLs: []string{req.URL}, Visited: 1, Bytes: 2048}, nil
			},
		}}

		_, out, err := s.CrawlSite(context.Background(), nil, mcp.CrawlSiteInput{
			URL:           "https://example.com/docs",
			Version:       "v2",
			MaxPages:      10,
			PathFilter:    "/docs",
			ExpandSubtabs: true,
			Profile:       "docusaurus",
		})

		require.NoError(t, err)
		assert.Equal(t, crawl.SiteRequest{
			URL:           "https://example.com/docs",
			Version:       "v2",
			MaxPages:      10,
			PathFilter:    "/docs",
			ExpandSubtabs: true,
			Profile:       docdex.ProfileDocusaurus,
		}, got)
		assert.Equal(t, "run-1", out.RunID)
		assert.Equal(t, []string{"https://example.com/docs"}, out.URLs)
		assert.Equal(t, "Indexed 1 page (2.0 KB)", out.Summary)
	})

	t.Run("missing url returns EINVALID", func(t *testing.T) {
		t.Parallel()

		s := &mcp.Server{Crawler: &crawler{}}

		_, _, err := s.CrawlSite(context.Background(), nil, mcp.CrawlSiteInput{})

		require.Error(t, err)
		assert.Equal(t, docdex.EINVALID, docdex.ErrorCode(err))
	})

	t.Run("returns crawler error", func(t *testing.T) {
		t.Parallel()

		s := &mcp.Server{Crawler: &crawler{
			CrawlSiteFn: func(context.Context, crawl.SiteRequest, crawl.ProgressFunc) (*crawl.Result, error) {
				return nil, docdex.Errorf(docdex.EUNAVAILABLE, "renderer unavailable")
			},
		}}

		_, _, err := s.CrawlSite(context.Background(), nil, mcp.CrawlSiteInput{URL: "https://example.com"})

		assert.Equal(t, docdex.EUNAVAILABLE, docdex.ErrorCode(err))
	})
}

func TestServer_CrawlComponentIndex(t *testing.T) {
	t.Parallel()

	t.Run("passes request through", func(t *testing.T) {
		t.Parallel()

		var got crawl.ComponentRequest
		s := &mcp.Server{Crawler: &crawler{
			CrawlComponentIndexFn: func(_ context.Context, req crawl.ComponentRequest, _ crawl.ProgressFunc) (*crawl.Result, error) {
				got = req
				return &crawl.Result{Visited: 14}, nil
			},
		}}

		_, out, err := s.CrawlComponentIndex(context.Background(), nil, mcp.CrawlComponentIndexInput{
			URL:      "https://ui.example.com/components",
			MaxPages: 20,
		})

		require.NoError(t, err)
		assert.Equal(t, "https://ui.example.com/components", got.URL)
		assert.Equal(t, 20, got.MaxPages)
		assert.Equal(t, 14, out.Visited)
		assert.NotNil(t, out.URLs)
	})

	t.Run("missing url returns EINVALID", func(t *testing.T) {
		t.Parallel()

		s := &mcp.Server{Crawler: &crawler{}}

		_, _, err := s.CrawlComponentIndex(context.Background(), nil, mcp.CrawlComponentIndexInput{URL: "  "})

		assert.Equal(t, docdex.EINVALID, docdex.ErrorCode(err))
	})
}

func TestServer_ExtractSingle(t *testing.T) {
	t.Parallel()

	t.Run("returns markdown", func(t *testing.T) {
		t.Parallel()

		s := &mcp.Server{Crawler: &crawler{
			ExtractSingleFn: func(_ context.Context, url, version string) (string, error) {
				assert.Equal(t, "https://example.com/a", url)
				assert.Equal(t, "v1", version)
				return "# A\n\nContent", nil
			},
		}}

		_, out, err := s.ExtractSingle(context.Background(), nil, mcp.ExtractSingleInput{URL: "https://example.com/a", Version: "v1"})

		require.NoError(t, err)
		assert.Equal(t, "# A\n\nContent", out.Markdown)
		assert.False(t, out.Empty)
	})

	t.Run("flags short pages as empty", func(t *testing.T) {
		t.Parallel()

		s := &mcp.Server{Crawler: &crawler{
			ExtractSingleFn: func(context.Context, string, string) (string, error) { return "", nil },
		}}

		_, out, err := s.ExtractSingle(context.Background(), nil, mcp.ExtractSingleInput{URL: "https://example.com/a"})

		require.NoError(t, err)
		assert.True(t, out.Empty)
	})
}

func TestServer_SearchDocs(t *testing.T) {
	t.Parallel()

	t.Run("returns ranked hits", func(t *testing.T) {
		t.Parallel()

		s := &mcp.Server{Search: &mock.SearchService{
			SearchFn: func(_ context.Context, query string, opts docdex.SearchOptions) ([]docdex.SearchResult, error) {
				assert.Equal(t, "button variant", query)
				assert.Equal(t, docdex.SearchOptions{Version: "v2", Limit: 5}, opts)
				return []docdex.SearchResult{
					{URL: "https://example.com/button", HeadingPath: []string{"Button", "Variants"}, Score: 2.5},
					{URL: "https://example.com/intro", Score: 1.0},
				}, nil
			},
		}}

		_, out, err := s.SearchDocs(context.Background(), nil, mcp.SearchInput{Query: "button variant", Version: "v2", Limit: 5})

		require.NoError(t, err)
		require.Equal(t, 2, out.Count)
		assert.Equal(t, []string{"Button", "Variants"}, out.Results[0].HeadingPath)
		assert.Equal(t, []string{}, out.Results[1].HeadingPath)
	})

	t.Run("no matches returns empty list", func(t *testing.T) {
		t.Parallel()

		s := &mcp.Server{Search: &mock.SearchService{
			SearchFn: func(context.Context, string, docdex.SearchOptions) ([]docdex.SearchResult, error) {
				return nil, nil
			},
		}}

		_, out, err := s.SearchDocs(context.Background(), nil, mcp.SearchInput{Query: "zzz"})

		require.NoError(t, err)
		assert.NotNil(t, out.Results)
		assert.Zero(t, out.Count)
	})

	t.Run("missing query returns EINVALID", func(t *testing.T) {
		t.Parallel()

		s := &mcp.Server{Search: &mock.SearchService{}}

		_, _, err := s.SearchDocs(context.Background(), nil, mcp.SearchInput{})

		assert.Equal(t, docdex.EINVALID, docdex.ErrorCode(err))
	})
}

func TestServer_GetDocument(t *testing.T) {
	t.Parallel()

	t.Run("defaults version to latest", func(t *testing.T) {
		t.Parallel()

		s := &mcp.Server{Documents: &mock.DocumentService{
			FindDocumentFn: func(_ context.Context, url, version string) (*docdex.Document, error) {
				assert.Equal(t, docdex.DefaultVersion, version)
				return &docdex.Document{
					URL:       url,
					Version:   version,
					Markdown:  "# Doc",
					CrawledAt: time.Date(2025, 1, 8, 12, 0, 0, 0, time.UTC),
				}, nil
			},
		}}

		_, out, err := s.GetDocument(context.Background(), nil, mcp.GetDocumentInput{URL: "https://example.com/doc"})

		require.NoError(t, err)
		assert.Equal(t, "https://example.com/doc", out.Title)
		assert.Equal(t, "# Doc", out.Markdown)
		assert.Equal(t, "2025-01-08T12:00:00Z", out.CrawledAt)
	})

	t.Run("finds extracted page by the URL it was extracted with", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB(":memory:")
		require.NoError(t, db.Open())
		t.Cleanup(func() { _ = db.Close() })

		var current string
		page := &mock.Page{
			NavigateFn: func(_ context.Context, url string) error {
				current = url
				return nil
			},
			RevealHiddenFn: func(context.Context) {},
			SnapshotFn: func(context.Context) (*docdex.Rendered, error) {
				return &docdex.Rendered{FinalURL: current, HTML: "<html></html>"}, nil
			},
			CloseFn: func() error { return nil },
		}
		documents := sqlite.NewDocumentService(db)
		s := &mcp.Server{
			Crawler: &crawl.Scheduler{
				Renderer: &mock.Renderer{
					NewPageFn: func(context.Context) (docdex.Page, error) { return page, nil },
				},
				Extractor: &mock.MarkdownExtractor{
					ExtractMarkdownFn: func(string, string, docdex.Profile) (*docdex.Extraction, error) {
						return &docdex.Extraction{Title: "Docs", Markdown: "# Docs\n\nIntroduction to the documentation of this project."}, nil
					},
				},
				Documents:   documents,
				Chunks:      sqlite.NewChunkService(db),
				RetryDelays: []time.Duration{},
			},
			Documents: documents,
		}

		const url = "https://example.com/docs/"
		_, extracted, err := s.ExtractSingle(context.Background(), nil, mcp.ExtractSingleInput{URL: url})
		require.NoError(t, err)
		require.False(t, extracted.Empty)

		_, out, err := s.GetDocument(context.Background(), nil, mcp.GetDocumentInput{URL: url})

		require.NoError(t, err)
		assert.Equal(t, "Docs", out.Title)
		assert.Equal(t, "https://example.com/docs", out.URL)
	})

	t.Run("returns ENOTFOUND for unknown document", func(t *testing.T) {
		t.Parallel()

		s := &mcp.Server{Documents: &mock.DocumentService{
			FindDocumentFn: func(context.Context, string, string) (*docdex.Document, error) {
				return nil, docdex.Errorf(docdex.ENOTFOUND, "document not found")
			},
		}}

		_, _, err := s.GetDocument(context.Background(), nil, mcp.GetDocumentInput{URL: "https://example.com/missing"})

		assert.Equal(t, docdex.ENOTFOUND, docdex.ErrorCode(err))
	})
}

func TestServer_GetStats(t *testing.T) {
	t.Parallel()

	t.Run("returns counts", func(t *testing.T) {
		t.Parallel()

		s := &mcp.Server{Stats: &mock.StatsService{
			StatsFn: func(context.Context) (*docdex.Stats, error) {
				return &docdex.Stats{Documents: 3, Chunks: 12}, nil
			},
		}}

		_, out, err := s.GetStats(context.Background(), nil, mcp.GetStatsInput{})

		require.NoError(t, err)
		assert.Equal(t, mcp.StatsOutput{Documents: 3, Chunks: 12}, out)
	})

	t.Run("returns store error", func(t *testing.T) {
		t.Parallel()

		s := &mcp.Server{Stats: &mock.StatsService{
			StatsFn: func(context.Context) (*docdex.Stats, error) {
				return nil, errors.New("disk I/O error")
			},
		}}

		_, _, err := s.GetStats(context.Background(), nil, mcp.GetStatsInput{})

		require.Error(t, err)
	})
}

func TestServer_MCPServer(t *testing.T) {
	t.Parallel()

	connect := func(t *testing.T, s *mcp.Server) *mcpsdk.ClientSession {
		t.Helper()

		ctx := context.Background()
		serverTransport, clientTransport := mcpsdk.NewInMemoryTransports()

		ss, err := s.MCPServer().Connect(ctx, serverTransport, nil)
		require.NoError(t, err)
		t.Cleanup(func() { _ = ss.Close() })

		client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
		cs, err := client.Connect(ctx, clientTransport, nil)
		require.NoError(t, err)
		t.Cleanup(func() { _ = cs.Close() })
		return cs
	}

	t.Run("describes extract_single as storing the page", func(t *testing.T) {
		t.Parallel()

		cs := connect(t, &mcp.Server{Name: "docdex", Version: "test"})

		res, err := cs.ListTools(context.Background(), nil)

		require.NoError(t, err)
		for _, tool := range res.Tools {
			if tool.Name == "extract_single" {
				assert.Contains(t, tool.Description, "index one page")
				assert.NotContains(t, tool.Description, "without storing")
				return
			}
		}
		t.Fatal("extract_single is not registered")
	})

	t.Run("registers every tool", func(t *testing.T) {
		t.Parallel()

		cs := connect(t, &mcp.Server{Name: "docdex", Version: "test"})

		res, err := cs.ListTools(context.Background(), nil)

		require.NoError(t, err)
		var names []string
		for _, tool := range res.Tools {
			names = append(names, tool.Name)
		}
		assert.ElementsMatch(t, []string{
			"crawl_site",
			"crawl_component_index",
			"extract_single",
			"search",
			"get_document",
			"get_stats",
		}, names)
	})

	t.Run("reports missing input as tool error", func(t *testing.T) {
		t.Parallel()

		cs := connect(t, &mcp.Server{Name: "docdex", Version: "test", Search: &mock.SearchService{}})

		res, err := cs.CallTool(context.Background(), &mcpsdk.CallToolParams{
			Name:      "search",
			Arguments: map[string]any{},
		})

		require.NoError(t, err)
		assert.True(t, res.IsError)
		require.NotEmpty(t, res.Content)
		text, ok := res.Content[0].(*mcpsdk.TextContent)
		require.True(t, ok)
		assert.Contains(t, text.Text, "query is required")
	})

	t.Run("returns structured result", func(t *testing.T) {
		t.Parallel()

		cs := connect(t, &mcp.Server{Name: "docdex", Version: "test", Stats: &mock.StatsService{
			StatsFn: func(context.Context) (*docdex.Stats, error) {
				return &docdex.Stats{Documents: 2, Chunks: 7}, nil
			},
		}})

		res, err := cs.CallTool(context.Background(), &mcpsdk.CallToolParams{
			Name:      "get_stats",
			Arguments: map[string]any{},
		})

		require.NoError(t, err)
		assert.False(t, res.IsError)
		require.NotEmpty(t, res.Content)
		text, ok := res.Content[0].(*mcpsdk.TextContent)
		require.True(t, ok)
		assert.JSONEq(t, `{"documentCount":2,"chunkCount":7}`, text.Text)
	})
}

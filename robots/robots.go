// Package robots implements docdex.PolitenessGovernor on top of robots.txt
// policies and per-host rate limiters.
package robots

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/docdex"
	"github.com/temoto/robotstxt"
	"golang.org/x/time/rate"
)

const (
	// DefaultUserAgent is the agent matched against robots.txt groups.
	DefaultUserAgent = "docdex-bot"

	// DefaultDelay is the request interval used when robots.txt declares none.
	DefaultDelay = 500 * time.Millisecond

	// DefaultTimeout bounds a robots.txt fetch.
	DefaultTimeout = 10 * time.Second

	maxRobotsSize = 1 << 20
)

var _ docdex.PolitenessGovernor = (*Governor)(nil)

// Governor caches one robots.txt policy per host and spaces requests to the
// same host by its crawl delay.
type Governor struct {
	client       *http.Client
	timeout      time.Duration
	userAgent    string
	defaultDelay time.Duration
	logger       *slog.Logger

	mu    sync.Mutex
	hosts map[string]*host
}

// host is the politeness record of one hostname.
type host struct {
	once     sync.Once
	data     *robotstxt.RobotsData // nil means no policy
	interval time.Duration
	limiter  *rate.Limiter
}

// Option configures a Governor.
type Option func(*Governor)

// WithHTTPClient sets the client used to fetch robots.txt.
func WithHTTPClient(c *http.Client) Option {
	return func(g *Governor) {
		g.client = c
	}
}

// WithTimeout sets the robots.txt fetch timeout.
// Defaults to DefaultTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(g *Governor) {
		g.timeout = d
	}
}

// WithUserAgent sets the agent identifier.
func WithUserAgent(ua string) Option {
	return func(g *Governor) {
		g.userAgent = ua
	}
}

// WithDefaultDelay sets the interval used when no crawl delay is declared.
func WithDefaultDelay(d time.Duration) Option {
	return func(g *Governor) {
		g.defaultDelay = d
	}
}

// WithLogger sets the logger for fetch failures.
func WithLogger(l *slog.Logger) Option {
	return func(g *Governor) {
		g.logger = l
	}
}

// NewGovernor creates a Governor.
func NewGovernor(opts ...Option) *Governor {
	g := &Governor{
		timeout:      DefaultTimeout,
		userAgent:    DefaultUserAgent,
		defaultDelay: DefaultDelay,
		hosts:        make(map[string]*host),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.client == nil {
		g.client = &http.Client{Timeout: g.timeout}
	}
	if g.logger == nil {
		g.logger = slog.New(slog.DiscardHandler)
	}
	return g
}

// IsAllowed reports whether the agent may fetch rawURL. Unparsable URLs are
// rejected. Hosts without a usable robots.txt allow everything.
func (g *Governor) IsAllowed(ctx context.Context, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return false
	}
	h := g.load(ctx, u)
	if h.data == nil {
		return true
	}
	return h.data.FindGroup(g.userAgent).Test(u.RequestURI())
}

// EnforceDelay blocks until the crawl delay of the host of rawURL has elapsed
// since its previous request. Callers on the same host are served one at a
// time.
func (g *Governor) EnforceDelay(ctx context.Context, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return docdex.Errorf(docdex.EINVALID, "invalid URL %q", rawURL)
	}
	return g.load(ctx, u).limiter.Wait(ctx)
}

// Delay returns the request interval applied to the host of rawURL.
func (g *Governor) Delay(ctx context.Context, rawURL string) time.Duration {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return g.defaultDelay
	}
	return g.load(ctx, u).interval
}

// Reset forgets every cached policy and request time.
func (g *Governor) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.hosts = make(map[string]*host)
}

// load returns the record for the host of u, fetching robots.txt on first
// contact. Concurrent first callers share one fetch.
func (g *Governor) load(ctx context.Context, u *url.URL) *host {
	key := strings.ToLower(u.Host)

	g.mu.Lock()
	h, ok := g.hosts[key]
	if !ok {
		h = &host{}
		g.hosts[key] = h
	}
	g.mu.Unlock()

	h.once.Do(func() {
		data, err := g.fetch(ctx, u)
		if err != nil {
			g.logger.Debug("robots unavailable; allowing all", "host", key, "error", err)
		}
		h.data = data
		h.interval = g.delay(data)
		h.limiter = rate.NewLimiter(rate.Every(h.interval), 1)
	})

	return h
}

// delay picks the agent group's crawl delay, then the wildcard group's, then
// the default.
func (g *Governor) delay(data *robotstxt.RobotsData) time.Duration {
	if data == nil {
		return g.defaultDelay
	}
	if d := data.FindGroup(g.userAgent).CrawlDelay; d > 0 {
		return d
	}
	if d := data.FindGroup("*").CrawlDelay; d > 0 {
		return d
	}
	return g.defaultDelay
}

// fetch retrieves and parses robots.txt. Any failure, including a non-2xx
// status, yields a nil policy.
func (g *Governor) fetch(ctx context.Context, u *url.URL) (*robotstxt.RobotsData, error) {
	robotsURL := url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/robots.txt"}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("new robots request: %w", err)
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch robots: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch robots: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRobotsSize))
	if err != nil {
		return nil, fmt.Errorf("read robots body: %w", err)
	}

	data, err := robotstxt.FromBytes(body)
	if err != nil {
		return nil, fmt.Errorf("parse robots: %w", err)
	}
	return data, nil
}

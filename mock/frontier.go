package mock

import (
	"context"

	"github.com/fwojciec/docdex"
)

var (
	_ docdex.PolitenessGovernor = (*PolitenessGovernor)(nil)
	_ docdex.RecrawlCache       = (*RecrawlCache)(nil)
)

// PolitenessGovernor is a mock implementation of docdex.PolitenessGovernor.
type PolitenessGovernor struct {
	IsAllowedFn    func(ctx context.Context, url string) bool
	EnforceDelayFn func(ctx context.Context, url string) error
	ResetFn        func()
}

func (g *PolitenessGovernor) IsAllowed(ctx context.Context, url string) bool {
	return g.IsAllowedFn(ctx, url)
}

func (g *PolitenessGovernor) EnforceDelay(ctx context.Context, url string) error {
	return g.EnforceDelayFn(ctx, url)
}

func (g *PolitenessGovernor) Reset() {
	g.ResetFn()
}

// RecrawlCache is a mock implementation of docdex.RecrawlCache.
type RecrawlCache struct {
	ShouldCrawlFn func(ctx context.Context, url, version string) bool
	CheckFn       func(ctx context.Context, url, version string) docdex.RecrawlDecision
}

func (c *RecrawlCache) ShouldCrawl(ctx context.Context, url, version string) bool {
	return c.ShouldCrawlFn(ctx, url, version)
}

func (c *RecrawlCache) Check(ctx context.Context, url, version string) docdex.RecrawlDecision {
	return c.CheckFn(ctx, url, version)
}

package mock

import (
	"context"

	"github.com/fwojciec/docdex"
)

var _ docdex.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of docdex.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL, pathFilter string) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL, pathFilter string) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, pathFilter)
}

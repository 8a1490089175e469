package scraper

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

// CachedFetcher keeps recently fetched pages in memory. Failed fetches are not cached.
type CachedFetcher struct {
	next   Fetcher
	cache  *lru.Cache[string, []byte]
	logger *zap.Logger
}

func NewCachedFetcher(next Fetcher, size int, logger *zap.Logger) (*CachedFetcher, error) {
	cache, err := lru.NewWithEvict[string, []byte](size, func(key string, _ []byte) {
		logger.Debug("page evicted from cache", zap.String("url", key))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create page cache: %w", err)
	}
	return &CachedFetcher{next: next, cache: cache, logger: logger}, nil
}

func (f *CachedFetcher) Fetch(ctx context.Context, pageURL string) ([]byte, error) {
	if body, ok := f.cache.Get(pageURL); ok {
		f.logger.Debug("page cache hit", zap.String("url", pageURL))
		return body, nil
	}

	body, err := f.next.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	f.cache.Add(pageURL, body)
	f.logger.Debug("page cached", zap.String("url", pageURL), zap.Int("cached_pages", f.cache.Len()))
	return body, nil
}

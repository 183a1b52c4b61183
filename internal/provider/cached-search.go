package provider

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

type ImageSearcher interface {
	SearchImages(ctx context.Context, query string, start int) ([]string, error)
}

type SearchCache interface {
	GetLinks(ctx context.Context, key string) ([]string, bool, error)
	SetLinks(ctx context.Context, key string, links []string) error
}

// CachedSearch answers repeated searches from a cache. Cache failures are logged and never fail a search.
type CachedSearch struct {
	next   ImageSearcher
	cache  SearchCache
	logger *slog.Logger
}

func NewCachedSearch(next ImageSearcher, cache SearchCache, logger *slog.Logger) *CachedSearch {
	return &CachedSearch{
		next:   next,
		cache:  cache,
		logger: logger,
	}
}

func (c *CachedSearch) SearchImages(ctx context.Context, query string, start int) ([]string, error) {
	key := searchCacheKey(query, start)
	links, ok, err := c.cache.GetLinks(ctx, key)
	if err != nil {
		c.logger.Warn("failed to read search cache", "key", key, "err", err)
	}
	if ok {
		c.logger.Debug("search cache hit", "key", key, "links", len(links))
		return links, nil
	}

	links, err = c.next.SearchImages(ctx, query, start)
	if err != nil {
		return nil, err
	}
	if len(links) > 0 {
		if err = c.cache.SetLinks(ctx, key, links); err != nil {
			c.logger.Warn("failed to write search cache", "key", key, "err", err)
		}
	}
	return links, nil
}

func searchCacheKey(query string, start int) string {
	return fmt.Sprintf("search_%s_%d", strings.ToLower(strings.TrimSpace(query)), start)
}

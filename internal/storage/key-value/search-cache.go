package key_value

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type searchInternal struct {
	Links []string `json:"links"`
}

// SearchCache keeps image search results in redis with an expiration.
type SearchCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSearchCache(rdb *redis.Client, ttl time.Duration) *SearchCache {
	return &SearchCache{
		rdb: rdb,
		ttl: ttl,
	}
}

func (s *SearchCache) GetLinks(ctx context.Context, key string) ([]string, bool, error) {
	raw, err := s.rdb.Get(ctx, getSearchKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get search result %s: %w", key, err)
	}
	var search searchInternal
	if err = json.Unmarshal([]byte(raw), &search); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal search result %s: %w", key, err)
	}
	return search.Links, true, nil
}

func (s *SearchCache) SetLinks(ctx context.Context, key string, links []string) error {
	raw, err := json.Marshal(searchInternal{Links: links})
	if err != nil {
		return fmt.Errorf("failed to marshal search result: %w", err)
	}
	if err = s.rdb.Set(ctx, getSearchKey(key), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save search result %s: %w", key, err)
	}
	return nil
}

func getSearchKey(key string) string {
	return fmt.Sprintf("hecu_%s", key)
}

package in_memory

import (
	"context"
	"slices"
	"sync"
	"time"
)

type searchEntry struct {
	links     []string
	expiresAt time.Time
}

// SearchCache keeps image search results in process memory until they expire.
type SearchCache struct {
	mu      sync.Mutex
	entries map[string]searchEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewSearchCache(ttl time.Duration) *SearchCache {
	return newSearchCache(ttl, time.Now)
}

func newSearchCache(ttl time.Duration, now func() time.Time) *SearchCache {
	return &SearchCache{
		entries: make(map[string]searchEntry),
		ttl:     ttl,
		now:     now,
	}
}

func (s *SearchCache) GetLinks(_ context.Context, key string) ([]string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !s.now().Before(entry.expiresAt) {
		delete(s.entries, key)
		return nil, false, nil
	}
	return slices.Clone(entry.links), true, nil
}

func (s *SearchCache) SetLinks(_ context.Context, key string, links []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, entry := range s.entries {
		if !now.Before(entry.expiresAt) {
			delete(s.entries, k)
		}
	}
	s.entries[key] = searchEntry{
		links:     slices.Clone(links),
		expiresAt: now.Add(s.ttl),
	}
	return nil
}

func (s *SearchCache) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

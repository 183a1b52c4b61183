package in_memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchCacheExpiresEntries(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)}
	cache := newSearchCache(time.Hour, clock.Now)

	_, ok, err := cache.GetLinks(ctx, "search_cats_1")
	require.NoError(t, err)
	assert.False(t, ok)

	links := []string{"https://img.example/1.jpg", "https://img.example/2.png"}
	require.NoError(t, cache.SetLinks(ctx, "search_cats_1", links))
	links[0] = "mutated"

	got, ok, err := cache.GetLinks(ctx, "search_cats_1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"https://img.example/1.jpg", "https://img.example/2.png"}, got)

	clock.Advance(time.Hour)

	_, ok, err = cache.GetLinks(ctx, "search_cats_1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, cache.Len())
}

func TestSearchCacheSetEvictsExpired(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)}
	cache := newSearchCache(time.Minute, clock.Now)

	require.NoError(t, cache.SetLinks(ctx, "a", []string{"1"}))
	clock.Advance(2 * time.Minute)
	require.NoError(t, cache.SetLinks(ctx, "b", []string{"2"}))

	assert.Equal(t, 1, cache.Len())
}

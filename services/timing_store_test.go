package services

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTimingStore(t *testing.T) (*TimingStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewTimingStore(client), mr
}

func TestTimingStorePutAndTake(t *testing.T) {
	store, mr := newTimingStore(t)
	ctx := context.Background()

	shownAt := time.Date(2026, 3, 1, 20, 0, 0, 123456789, time.UTC)
	require.NoError(t, store.Put(ctx, 42, shownAt))
	require.True(t, mr.Exists("quiz:shownat:42"))

	got, ok := store.Take(ctx, 42)
	require.True(t, ok)
	assert.True(t, got.Equal(shownAt))

	// Take consumes the value.
	_, ok = store.Take(ctx, 42)
	assert.False(t, ok)
	assert.False(t, mr.Exists("quiz:shownat:42"))
}

func TestTimingStoreTakeMissing(t *testing.T) {
	store, _ := newTimingStore(t)

	got, ok := store.Take(context.Background(), 7)
	assert.False(t, ok)
	assert.True(t, got.IsZero())
}

func TestTimingStoreGarbageValue(t *testing.T) {
	store, mr := newTimingStore(t)
	require.NoError(t, mr.Set("quiz:shownat:9", "not-a-timestamp"))

	_, ok := store.Take(context.Background(), 9)
	assert.False(t, ok)
}

package reports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, time.Minute)
}

func TestCacheFetchBytesPopulatesOnce(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	calls := 0
	loader := func(context.Context) ([]byte, error) {
		calls++
		return []byte("rendered"), nil
	}

	key, err := cache.BuildKey(ctx, "reports", "weekly", "2026-08-24", "2026-08-30")
	require.NoError(t, err)

	first, err := cache.FetchBytes(ctx, key, loader)
	require.NoError(t, err)
	second, err := cache.FetchBytes(ctx, key, loader)
	require.NoError(t, err)

	assert.Equal(t, []byte("rendered"), first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestCacheBumpInvalidates(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	before, err := cache.BuildKey(ctx, "reports", "daily", "2026-08-25")
	require.NoError(t, err)

	require.NoError(t, cache.Bump(ctx))

	after, err := cache.BuildKey(ctx, "reports", "daily", "2026-08-25")
	require.NoError(t, err)

	assert.NotEqual(t, before, after)
}

func TestCacheLoaderErrorNotStored(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	boom := errors.New("render failed")
	_, err := cache.FetchBytes(ctx, "reports:test", func(context.Context) ([]byte, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := cache.FetchBytes(ctx, "reports:test", func(context.Context) ([]byte, error) {
		return []byte("ok"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("ok"), got)
}

func TestCacheNilClientPassesThrough(t *testing.T) {
	cache := NewCache(nil, time.Minute)
	ctx := context.Background()

	calls := 0
	loader := func(context.Context) ([]byte, error) {
		calls++
		return []byte("direct"), nil
	}

	key, err := cache.BuildKey(ctx, "reports", "weekly")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		got, err := cache.FetchBytes(ctx, key, loader)
		require.NoError(t, err)
		assert.Equal(t, []byte("direct"), got)
	}
	assert.Equal(t, 2, calls)
	assert.NoError(t, cache.Bump(ctx))
}

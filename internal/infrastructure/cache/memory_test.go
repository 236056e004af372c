package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/skateshop/storefront/internal/infrastructure/cache"
)

func TestMemoryCache_ReturnsCopies(t *testing.T) {
	m := cache.NewMemoryCache(0)
	ctx := context.Background()
	src := []byte("abc")
	require.NoError(t, m.Set(ctx, "k", src, 0))
	src[0] = 'x'

	got, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("abc"), got)

	got[1] = 'y'
	again, _, _ := m.Get(ctx, "k")
	require.Equal(t, []byte("abc"), again)
}

func TestMemoryCache_NonPositiveTTLNeverExpires(t *testing.T) {
	m := cache.NewMemoryCache(0)
	ctx := context.Background()
	require.NoError(t, m.Set(ctx, "forever", []byte("1"), 0))
	require.NoError(t, m.Set(ctx, "short", []byte("1"), 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	_, ok, _ := m.Get(ctx, "forever")
	require.True(t, ok)
	_, ok, _ = m.Get(ctx, "short")
	require.False(t, ok)
}

func TestCartStorage_ReadWrite(t *testing.T) {
	s := cache.NewCartStorage(cache.NewMemoryCache(0), 0)
	ctx := context.Background()

	_, ok, err := s.Read(ctx, "skate-cart:s1")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.Write(ctx, "skate-cart:s1", []byte(`[]`)))
	data, ok, err := s.Read(ctx, "skate-cart:s1")
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `[]`, string(data))
}

package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache implements ports.Cache in process memory. Expired entries are treated as
// misses on read; the janitor reclaims them every cleanupInterval.
type MemoryCache struct {
	c *gocache.Cache
}

// NewMemoryCache creates an in-process cache. cleanupInterval <= 0 disables the janitor.
func NewMemoryCache(cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{c: gocache.New(gocache.NoExpiration, cleanupInterval)}
}

// Get implements Cache.Get.
func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	b, ok := v.([]byte)
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, true, nil
}

// Set implements Cache.Set.
func (m *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	exp := ttl
	if ttl <= 0 {
		exp = gocache.NoExpiration
	}
	b := make([]byte, len(value))
	copy(b, value)
	m.c.Set(key, b, exp)
	return nil
}

// Delete implements Cache.Delete.
func (m *MemoryCache) Delete(_ context.Context, key string) error {
	m.c.Delete(key)
	return nil
}

// Len returns the number of stored entries, expired ones included until the janitor runs.
func (m *MemoryCache) Len() int {
	return m.c.ItemCount()
}

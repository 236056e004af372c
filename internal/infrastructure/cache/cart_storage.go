package cache

import (
	"context"
	"time"

	"github.com/skateshop/storefront/internal/core/ports"
)

// CartStorage persists carts in a ports.Cache (memory or Redis). ttl <= 0 keeps carts forever.
type CartStorage struct {
	cache ports.Cache
	ttl   time.Duration
}

func NewCartStorage(c ports.Cache, ttl time.Duration) *CartStorage {
	return &CartStorage{cache: c, ttl: ttl}
}

// Read implements ports.CartStorage.
func (s *CartStorage) Read(ctx context.Context, key string) ([]byte, bool, error) {
	return s.cache.Get(ctx, key)
}

// Write implements ports.CartStorage.
func (s *CartStorage) Write(ctx context.Context, key string, data []byte) error {
	return s.cache.Set(ctx, key, data, s.ttl)
}

package ports

import (
	"context"
	"time"
)

// Cache defines a minimal key-value cache contract.
// Implementations should degrade gracefully (returning an error without crashing callers)
// so that callers can fall back to recomputing the value.
type Cache interface {
	// Get returns the raw bytes for key. ok=false if not found or expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value for key with TTL (0 or negative means no expiration), replacing any existing entry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes the key regardless of its expiry state; absence is not an error.
	Delete(ctx context.Context, key string) error
}

package services

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/sirupsen/logrus"

	"github.com/skateshop/storefront/internal/core/domain/cart"
	"github.com/skateshop/storefront/internal/core/ports"
)

// SessionRegistry keeps a bounded set of resident cart stores, one per session.
// Stores that fall out of the registry are reloaded from storage on next access.
type SessionRegistry struct {
	mu        sync.Mutex
	stores    *expirable.LRU[string, *CartStore]
	storage   ports.CartStorage
	keyPrefix string
	observer  ports.CartObserver
	logger    *logrus.Logger
}

// SessionRegistryConfig sizes the registry.
type SessionRegistryConfig struct {
	KeyPrefix   string
	MaxSessions int
	IdleTTL     time.Duration
}

func NewSessionRegistry(storage ports.CartStorage, observer ports.CartObserver, cfg SessionRegistryConfig, logger *logrus.Logger) *SessionRegistry {
	size := cfg.MaxSessions
	if size <= 0 {
		size = 10000
	}
	return &SessionRegistry{
		stores:    expirable.NewLRU[string, *CartStore](size, nil, cfg.IdleTTL),
		storage:   storage,
		keyPrefix: cfg.KeyPrefix,
		observer:  observer,
		logger:    logger,
	}
}

// Store returns the cart store of sessionID, loading it from storage on first access.
func (r *SessionRegistry) Store(ctx context.Context, sessionID string) *CartStore {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.stores.Get(sessionID); ok {
		// Get does not extend the entry's lifetime; re-adding restarts the idle clock.
		r.stores.Add(sessionID, s)
		return s
	}
	s := NewCartStore(ctx, sessionID, cart.StorageKey(r.keyPrefix, sessionID), r.storage, r.observer, r.logger)
	r.stores.Add(sessionID, s)
	return s
}

// Len returns the number of resident sessions.
func (r *SessionRegistry) Len() int {
	return r.stores.Len()
}

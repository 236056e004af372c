package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/skateshop/storefront/internal/core/domain/cart"
	"github.com/skateshop/storefront/internal/core/domain/money"
	"github.com/skateshop/storefront/internal/core/ports"
)

// CartStore is one session's cart. The in-memory map is authoritative; every mutation
// rewrites the full collection to storage under a single key.
type CartStore struct {
	mu        sync.Mutex
	items     map[string]cart.LineItem
	sessionID string
	key       string
	storage   ports.CartStorage
	observer  ports.CartObserver
	logger    *logrus.Logger
}

// NewCartStore loads the cart stored under key. An absent or unreadable payload yields an
// empty cart. observer may be nil.
func NewCartStore(ctx context.Context, sessionID, key string, storage ports.CartStorage, observer ports.CartObserver, logger *logrus.Logger) *CartStore {
	s := &CartStore{
		items:     make(map[string]cart.LineItem),
		sessionID: sessionID,
		key:       key,
		storage:   storage,
		observer:  observer,
		logger:    logger,
	}
	s.load(ctx)
	return s
}

func (s *CartStore) load(ctx context.Context) {
	data, ok, err := s.storage.Read(ctx, s.key)
	if err != nil {
		s.log().WithError(err).Warn("cart: storage read failed, starting empty")
		return
	}
	if !ok {
		return
	}
	var stored []cart.LineItem
	if err := json.Unmarshal(data, &stored); err != nil {
		s.log().WithError(err).Warn("cart: stored payload is corrupt, starting empty")
		return
	}
	for _, it := range stored {
		if it.ID == "" {
			continue
		}
		s.items[it.ID] = it
	}
}

// AddItem inserts item or, when its id is already present, adds its quantity to the
// existing entry. The existing entry keeps its title and unit price.
func (s *CartStore) AddItem(ctx context.Context, item cart.LineItem) {
	s.mu.Lock()
	if existing, ok := s.items[item.ID]; ok {
		existing.Quantity += item.Quantity
		s.items[item.ID] = existing
	} else {
		s.items[item.ID] = item
	}
	ev := s.commitLocked(ctx, cart.ActionAdd, item.ID)
	s.mu.Unlock()
	s.notify(ctx, ev)
}

// RemoveItem deletes the entry for id. Removing an unknown id still persists and notifies.
func (s *CartStore) RemoveItem(ctx context.Context, id string) {
	s.mu.Lock()
	delete(s.items, id)
	ev := s.commitLocked(ctx, cart.ActionRemove, id)
	s.mu.Unlock()
	s.notify(ctx, ev)
}

// UpdateQuantity sets the quantity of an existing entry. qty is not validated here.
func (s *CartStore) UpdateQuantity(ctx context.Context, id string, qty int) {
	s.mu.Lock()
	if existing, ok := s.items[id]; ok {
		existing.Quantity = qty
		s.items[id] = existing
	}
	ev := s.commitLocked(ctx, cart.ActionUpdate, id)
	s.mu.Unlock()
	s.notify(ctx, ev)
}

func (s *CartStore) Clear(ctx context.Context) {
	s.mu.Lock()
	s.items = make(map[string]cart.LineItem)
	ev := s.commitLocked(ctx, cart.ActionClear, "")
	s.mu.Unlock()
	s.notify(ctx, ev)
}

func (s *CartStore) Items() []cart.LineItem {
	return s.State().Items
}

func (s *CartStore) Total() money.Money {
	return s.State().Total
}

func (s *CartStore) ItemCount() int {
	return s.State().ItemCount
}

// State returns a snapshot with totals recomputed from the current items.
func (s *CartStore) State() cart.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *CartStore) stateLocked() cart.State {
	items := make([]cart.LineItem, 0, len(s.items))
	for _, it := range s.items {
		items = append(items, it)
	}
	return cart.NewState(items)
}

// commitLocked persists the current items and builds the change event. Persistence
// failures are logged and swallowed. Callers hold s.mu so writes land in mutation order.
func (s *CartStore) commitLocked(ctx context.Context, action cart.Action, itemID string) cart.ChangeEvent {
	state := s.stateLocked()
	if err := s.persist(ctx, state.Items); err != nil {
		s.log().WithFields(logrus.Fields{"action": action, "item_id": itemID}).WithError(err).
			Warn("cart: failed to persist, keeping in-memory state")
	}
	return cart.ChangeEvent{
		SessionID:  s.sessionID,
		Action:     action,
		ItemID:     itemID,
		ItemCount:  state.ItemCount,
		Total:      int64(state.Total),
		OccurredAt: time.Now().UTC(),
	}
}

func (s *CartStore) persist(ctx context.Context, items []cart.LineItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.storage.Write(ctx, s.key, data)
}

func (s *CartStore) notify(ctx context.Context, ev cart.ChangeEvent) {
	if s.observer == nil {
		return
	}
	if err := s.observer.CartChanged(ctx, ev); err != nil {
		s.log().WithField("action", ev.Action).WithError(err).Warn("cart: change notification failed")
	}
}

func (s *CartStore) log() *logrus.Entry {
	logger := s.logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return logger.WithFields(logrus.Fields{"session_id": s.sessionID, "key": s.key})
}

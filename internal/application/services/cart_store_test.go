package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/skateshop/storefront/internal/application/services"
	"github.com/skateshop/storefront/internal/core/domain/cart"
	"github.com/skateshop/storefront/internal/core/domain/money"
	tmocks "github.com/skateshop/storefront/test/mocks"
)

const testKey = "skate-cart:s1"

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func newStore(storage *tmocks.CartStorageMock, obs *tmocks.CartObserverMock) *services.CartStore {
	if obs == nil {
		return services.NewCartStore(context.Background(), "s1", testKey, storage, nil, quietLogger())
	}
	return services.NewCartStore(context.Background(), "s1", testKey, storage, obs, quietLogger())
}

func TestCartStore_MergeKeepsFirstPrice(t *testing.T) {
	ctx := context.Background()
	s := newStore(&tmocks.CartStorageMock{}, nil)

	s.AddItem(ctx, cart.LineItem{ID: "v1", Title: "Deck", UnitPrice: 2500, Quantity: 2})
	s.AddItem(ctx, cart.LineItem{ID: "v1", Quantity: 1})

	items := s.Items()
	require.Len(t, items, 1)
	require.Equal(t, 3, items[0].Quantity)
	require.Equal(t, "Deck", items[0].Title)
	require.Equal(t, money.Money(7500), s.Total())
	require.Equal(t, "75.00", s.Total().String())
	require.Equal(t, 3, s.ItemCount())
}

func TestCartStore_RepeatedAddsSumQuantities(t *testing.T) {
	ctx := context.Background()
	s := newStore(&tmocks.CartStorageMock{}, nil)

	for _, q := range []int{1, 4, 2, 3} {
		s.AddItem(ctx, cart.LineItem{ID: "wheels", UnitPrice: 3999, Quantity: q})
	}
	s.AddItem(ctx, cart.LineItem{ID: "bearings", UnitPrice: 1500, Quantity: 2})

	require.Len(t, s.Items(), 2)
	require.Equal(t, 12, s.ItemCount())
	require.Equal(t, money.Money(10*3999+2*1500), s.Total())
}

func TestCartStore_RemoveAndUpdate(t *testing.T) {
	ctx := context.Background()
	s := newStore(&tmocks.CartStorageMock{}, nil)
	s.AddItem(ctx, cart.LineItem{ID: "v1", UnitPrice: 1000, Quantity: 1})
	s.AddItem(ctx, cart.LineItem{ID: "v2", UnitPrice: 500, Quantity: 1})

	s.RemoveItem(ctx, "missing")
	s.UpdateQuantity(ctx, "missing", 9)
	require.Len(t, s.Items(), 2)

	s.UpdateQuantity(ctx, "v2", 4)
	require.Equal(t, money.Money(3000), s.Total())

	// quantity is not validated at this layer
	s.UpdateQuantity(ctx, "v1", 0)
	require.Len(t, s.Items(), 2)
	require.Equal(t, money.Money(2000), s.Total())

	s.RemoveItem(ctx, "v1")
	items := s.Items()
	require.Len(t, items, 1)
	require.Equal(t, "v2", items[0].ID)
}

func TestCartStore_ClearPersistsEmptyArray(t *testing.T) {
	ctx := context.Background()
	storage := &tmocks.CartStorageMock{}
	s := newStore(storage, nil)
	s.AddItem(ctx, cart.LineItem{ID: "v1", UnitPrice: 1000, Quantity: 2})

	s.Clear(ctx)

	require.Empty(t, s.Items())
	require.Equal(t, money.Money(0), s.Total())
	require.Equal(t, 0, s.ItemCount())
	require.JSONEq(t, `[]`, string(storage.Last(testKey)))
}

func TestCartStore_PersistsFullCollection(t *testing.T) {
	ctx := context.Background()
	storage := &tmocks.CartStorageMock{}
	s := newStore(storage, nil)

	s.AddItem(ctx, cart.LineItem{ID: "v2", Title: "Wheels", UnitPrice: 3999, Quantity: 1})
	s.AddItem(ctx, cart.LineItem{ID: "v1", Title: "Deck", UnitPrice: 2500, Quantity: 2})

	require.JSONEq(t, `[
		{"id":"v1","title":"Deck","unitPrice":2500,"quantity":2},
		{"id":"v2","title":"Wheels","unitPrice":3999,"quantity":1}
	]`, string(storage.Last(testKey)))
}

func TestCartStore_LoadsPersistedCart(t *testing.T) {
	storage := &tmocks.CartStorageMock{}
	require.NoError(t, storage.Write(context.Background(), testKey, []byte(`[{"id":"v1","title":"Deck","unitPrice":2500,"quantity":3}]`)))

	s := newStore(storage, nil)
	require.Equal(t, 3, s.ItemCount())
	require.Equal(t, money.Money(7500), s.Total())
}

func TestCartStore_UnreadableStorageStartsEmpty(t *testing.T) {
	cases := map[string]*tmocks.CartStorageMock{
		"absent": {},
		"corrupt": {ReadFn: func(ctx context.Context, key string) ([]byte, bool, error) {
			return []byte(`{"not":"an array"`), true, nil
		}},
		"read error": {ReadFn: func(ctx context.Context, key string) ([]byte, bool, error) {
			return nil, false, errors.New("storage unavailable")
		}},
	}
	for name, storage := range cases {
		t.Run(name, func(t *testing.T) {
			s := newStore(storage, nil)
			require.Empty(t, s.Items())
			require.Equal(t, money.Money(0), s.Total())
		})
	}
}

func TestCartStore_WriteFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	storage := &tmocks.CartStorageMock{WriteFn: func(ctx context.Context, key string, data []byte) error {
		return errors.New("quota exceeded")
	}}
	obs := &tmocks.CartObserverMock{}
	s := newStore(storage, obs)

	s.AddItem(ctx, cart.LineItem{ID: "v1", UnitPrice: 2500, Quantity: 1})

	require.Equal(t, 1, s.ItemCount())
	require.Len(t, obs.Received(), 1)
}

func TestCartStore_NotifiesEveryMutation(t *testing.T) {
	ctx := context.Background()
	obs := &tmocks.CartObserverMock{CartChangedFn: func(ctx context.Context, ev cart.ChangeEvent) error {
		return errors.New("badge offline")
	}}
	s := newStore(&tmocks.CartStorageMock{}, obs)

	s.AddItem(ctx, cart.LineItem{ID: "v1", UnitPrice: 2500, Quantity: 2})
	s.UpdateQuantity(ctx, "v1", 3)
	s.RemoveItem(ctx, "v1")
	s.Clear(ctx)
	_ = s.State()

	events := obs.Received()
	require.Len(t, events, 4)
	require.Equal(t, cart.ActionAdd, events[0].Action)
	require.Equal(t, "s1", events[0].SessionID)
	require.Equal(t, int64(5000), events[0].Total)
	require.Equal(t, 3, events[1].ItemCount)
	require.Equal(t, cart.ActionRemove, events[2].Action)
	require.Equal(t, cart.ActionClear, events[3].Action)
	require.Equal(t, 0, events[3].ItemCount)
}

func TestCartStore_ConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	storage := &tmocks.CartStorageMock{}
	s := newStore(storage, nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.AddItem(ctx, cart.LineItem{ID: "v1", UnitPrice: 100, Quantity: 1})
		}()
	}
	wg.Wait()

	require.Equal(t, 50, s.ItemCount())
	require.JSONEq(t, `[{"id":"v1","title":"","unitPrice":100,"quantity":50}]`, string(storage.Last(testKey)))
}

func TestSessionRegistry_IsolatesSessions(t *testing.T) {
	ctx := context.Background()
	storage := &tmocks.CartStorageMock{}
	reg := services.NewSessionRegistry(storage, nil, services.SessionRegistryConfig{KeyPrefix: "skate-cart", MaxSessions: 10, IdleTTL: time.Minute}, quietLogger())

	a := reg.Store(ctx, "a")
	b := reg.Store(ctx, "b")
	require.NotSame(t, a, b)
	require.Same(t, a, reg.Store(ctx, "a"))

	a.AddItem(ctx, cart.LineItem{ID: "v1", UnitPrice: 100, Quantity: 1})
	require.Equal(t, 1, a.ItemCount())
	require.Equal(t, 0, b.ItemCount())
	require.NotNil(t, storage.Last("skate-cart:a"))
	require.Nil(t, storage.Last("skate-cart:b"))
	require.Equal(t, 2, reg.Len())
}

func TestSessionRegistry_ReloadsExpiredSessionFromStorage(t *testing.T) {
	ctx := context.Background()
	storage := &tmocks.CartStorageMock{}
	reg := services.NewSessionRegistry(storage, nil, services.SessionRegistryConfig{KeyPrefix: "skate-cart", MaxSessions: 10, IdleTTL: 20 * time.Millisecond}, quietLogger())

	first := reg.Store(ctx, "a")
	first.AddItem(ctx, cart.LineItem{ID: "v1", UnitPrice: 100, Quantity: 2})
	time.Sleep(40 * time.Millisecond)

	second := reg.Store(ctx, "a")
	require.NotSame(t, first, second)
	require.Equal(t, 2, second.ItemCount())
}

func TestSessionRegistry_AccessKeepsSessionAlive(t *testing.T) {
	ctx := context.Background()
	reg := services.NewSessionRegistry(&tmocks.CartStorageMock{}, nil, services.SessionRegistryConfig{KeyPrefix: "skate-cart", MaxSessions: 10, IdleTTL: 60 * time.Millisecond}, quietLogger())

	first := reg.Store(ctx, "a")
	for i := 0; i < 6; i++ {
		time.Sleep(20 * time.Millisecond)
		require.Same(t, first, reg.Store(ctx, "a"), "access %d", i)
	}
}

func TestSessionRegistry_EvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	reg := services.NewSessionRegistry(&tmocks.CartStorageMock{}, nil, services.SessionRegistryConfig{MaxSessions: 2, IdleTTL: time.Minute}, quietLogger())

	reg.Store(ctx, "a")
	reg.Store(ctx, "b")
	reg.Store(ctx, "c")
	require.Equal(t, 2, reg.Len())
}

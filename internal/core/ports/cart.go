package ports

import (
	"context"

	"github.com/skateshop/storefront/internal/core/domain/cart"
	"github.com/skateshop/storefront/internal/core/domain/money"
)

// CartStorage persists one serialized cart per key.
type CartStorage interface {
	// Read returns the stored payload; ok=false when the key was never written.
	Read(ctx context.Context, key string) (data []byte, ok bool, err error)
	// Write replaces the payload stored under key.
	Write(ctx context.Context, key string, data []byte) error
}

// CartObserver is notified after every cart mutation (badges, metrics, event bus).
type CartObserver interface {
	CartChanged(ctx context.Context, ev cart.ChangeEvent) error
}

// CartStore is a single session's cart. Mutations never fail: persistence errors are logged.
type CartStore interface {
	AddItem(ctx context.Context, item cart.LineItem)
	RemoveItem(ctx context.Context, id string)
	UpdateQuantity(ctx context.Context, id string, qty int)
	Clear(ctx context.Context)
	Items() []cart.LineItem
	Total() money.Money
	ItemCount() int
	State() cart.State
}

// CartService resolves the session carried by ctx and applies cart operations to its store.
type CartService interface {
	AddItem(ctx context.Context, item cart.LineItem) (cart.State, error)
	RemoveItem(ctx context.Context, id string) (cart.State, error)
	UpdateQuantity(ctx context.Context, id string, qty int) (cart.State, error)
	Clear(ctx context.Context) (cart.State, error)
	GetState(ctx context.Context) (cart.State, error)
}

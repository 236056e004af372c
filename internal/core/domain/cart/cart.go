package cart

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/skateshop/storefront/internal/core/domain/money"
)

var (
	ErrInvalidAction   = errors.New("invalid cart action")
	ErrMissingItemID   = errors.New("item id is required")
	ErrInvalidQuantity = errors.New("quantity must be a positive integer no greater than 9999")
	ErrInvalidPrice    = errors.New("price must be between 0 and 1000000.00")
	ErrMissingSession  = errors.New("cart session is missing")
)

// Bounds accepted from clients. Together they keep line and cart totals well inside int64 cents.
const MaxQuantity = 9999

const MaxUnitPrice money.Money = 100_000_000

// ParsePrice converts a client-supplied dollar amount, rejecting negative or oversized prices.
func ParsePrice(f float64) (money.Money, error) {
	m, err := money.ParseFloat(f)
	if err != nil || m < 0 || m > MaxUnitPrice {
		return 0, ErrInvalidPrice
	}
	return m, nil
}

// ValidQuantity reports whether qty is within [1, MaxQuantity].
func ValidQuantity(qty int) bool {
	return qty >= 1 && qty <= MaxQuantity
}

// LineItem is one catalog variation and its quantity. This is also the persisted layout.
type LineItem struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	UnitPrice money.Money `json:"unitPrice"`
	Quantity  int         `json:"quantity"`
}

// LineTotal returns unit price times quantity.
func (li LineItem) LineTotal() money.Money {
	return li.UnitPrice.Mul(li.Quantity)
}

// State is a read-only snapshot of a cart.
type State struct {
	Items     []LineItem
	Total     money.Money
	ItemCount int
}

// NewState builds a snapshot from items, ordering them by id so responses are stable.
func NewState(items []LineItem) State {
	out := make([]LineItem, len(items))
	copy(out, items)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	s := State{Items: out}
	for _, it := range out {
		s.Total += it.LineTotal()
		s.ItemCount += it.Quantity
	}
	return s
}

type Action string

const (
	ActionAdd      Action = "add"
	ActionRemove   Action = "remove"
	ActionUpdate   Action = "update"
	ActionClear    Action = "clear"
	ActionGetState Action = "getState"
)

// ParseAction validates the action name of a cart request.
func ParseAction(s string) (Action, error) {
	switch a := Action(s); a {
	case ActionAdd, ActionRemove, ActionUpdate, ActionClear, ActionGetState:
		return a, nil
	default:
		return "", ErrInvalidAction
	}
}

// Mutates reports whether the action changes cart contents.
func (a Action) Mutates() bool {
	return a != ActionGetState
}

// ChangeEvent is emitted after every cart mutation.
type ChangeEvent struct {
	SessionID  string    `json:"sessionId"`
	Action     Action    `json:"action"`
	ItemID     string    `json:"itemId,omitempty"`
	ItemCount  int       `json:"itemCount"`
	Total      int64     `json:"total"`
	OccurredAt time.Time `json:"occurredAt"`
}

type sessionKey struct{}

// WithSession scopes ctx to a cart session.
func WithSession(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionKey{}, sessionID)
}

// SessionFromContext returns the cart session carried by ctx.
func SessionFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionKey{}).(string)
	return id, ok && id != ""
}

// StorageKey is the single storage key holding one session's serialized cart.
func StorageKey(prefix, sessionID string) string {
	if prefix == "" {
		return sessionID
	}
	return prefix + ":" + sessionID
}

package catalog

import (
	"errors"
	"time"

	"github.com/skateshop/storefront/internal/core/domain/money"
)

var ErrNotFound = errors.New("catalog object not found")

// Variation is a sellable catalog variation (size, colorway, ...).
type Variation struct {
	ID        string      `json:"id"`
	ItemID    string      `json:"item_id"`
	Name      string      `json:"name"`
	SKU       string      `json:"sku,omitempty"`
	Price     money.Money `json:"price"`
	Currency  string      `json:"currency"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// InventoryCount is the on-hand quantity of a variation at a location.
type InventoryCount struct {
	VariationID  string    `json:"variation_id"`
	LocationID   string    `json:"location_id"`
	State        string    `json:"state"`
	Quantity     int       `json:"quantity"`
	CalculatedAt time.Time `json:"calculated_at"`
}

// InStock reports whether any units are available.
func (c InventoryCount) InStock() bool {
	return c.Quantity > 0
}

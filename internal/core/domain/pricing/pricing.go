package pricing

import (
	"errors"

	"github.com/skateshop/storefront/internal/core/domain/money"
)

var (
	ErrEmptyOrder         = errors.New("order has no items")
	ErrInvalidFulfillment = errors.New("fulfillment method must be shipping or pickup")
	ErrInvalidItem        = errors.New("every item needs an id and a quantity between 1 and 9999")
)

// MaxQuantity bounds a single order line.
const MaxQuantity = 9999

type FulfillmentMethod string

const (
	FulfillmentShipping FulfillmentMethod = "shipping"
	FulfillmentPickup   FulfillmentMethod = "pickup"
)

func ParseFulfillment(s string) (FulfillmentMethod, error) {
	switch m := FulfillmentMethod(s); m {
	case FulfillmentShipping, FulfillmentPickup:
		return m, nil
	default:
		return "", ErrInvalidFulfillment
	}
}

// Item is a priced cart line. SalePrice, when set, overrides Price.
type Item struct {
	ID        string
	Title     string
	Price     money.Money
	SalePrice *money.Money
	Quantity  int
}

// EffectivePrice prefers the sale price when one is present.
func (i Item) EffectivePrice() money.Money {
	if i.SalePrice != nil {
		return *i.SalePrice
	}
	return i.Price
}

// Validate checks the invariants the remote calculation relies on.
func Validate(items []Item) error {
	if len(items) == 0 {
		return ErrEmptyOrder
	}
	for _, it := range items {
		if it.ID == "" || it.Quantity < 1 || it.Quantity > MaxQuantity {
			return ErrInvalidItem
		}
	}
	return nil
}

// Subtotal sums effective price times quantity.
func Subtotal(items []Item) money.Money {
	var total money.Money
	for _, it := range items {
		total += it.EffectivePrice().Mul(it.Quantity)
	}
	return total
}

// ShippingTier charges Rate for any subtotal at or above MinSubtotal.
type ShippingTier struct {
	MinSubtotal money.Money
	Rate        money.Money
}

// DefaultShippingTiers is ordered by ascending MinSubtotal.
var DefaultShippingTiers = []ShippingTier{
	{MinSubtotal: 0, Rate: 899},
	{MinSubtotal: 5000, Rate: 599},
	{MinSubtotal: 10000, Rate: 0},
}

// ShippingFor returns the rate of the highest tier whose threshold the subtotal reaches.
func ShippingFor(subtotal money.Money, tiers []ShippingTier) money.Money {
	var rate money.Money
	for _, t := range tiers {
		if subtotal >= t.MinSubtotal {
			rate = t.Rate
		}
	}
	return rate
}

// ShippingLineName names the synthetic line item carrying the shipping charge.
const ShippingLineName = "Shipping"

// CalculationLine is one line of a remote order calculation.
type CalculationLine struct {
	CatalogObjectID string
	Name            string
	Quantity        int
	BasePrice       money.Money
}

// BuildLines converts items to calculation lines with price overrides applied and appends
// a shipping line when shipping is charged.
func BuildLines(items []Item, shipping money.Money) []CalculationLine {
	lines := make([]CalculationLine, 0, len(items)+1)
	for _, it := range items {
		name := it.Title
		if name == "" {
			name = it.ID
		}
		lines = append(lines, CalculationLine{
			CatalogObjectID: it.ID,
			Name:            name,
			Quantity:        it.Quantity,
			BasePrice:       it.EffectivePrice(),
		})
	}
	if shipping > 0 {
		lines = append(lines, CalculationLine{Name: ShippingLineName, Quantity: 1, BasePrice: shipping})
	}
	return lines
}

// Calculation is the authoritative result of a remote order calculation.
type Calculation struct {
	Tax   money.Money
	Total money.Money
}

// OrderSummary is derived per request and never cached.
type OrderSummary struct {
	Success  bool
	Subtotal money.Money
	Shipping money.Money
	Tax      money.Money
	Total    money.Money
	Error    string
}

// Failed returns a zeroed summary describing err.
func Failed(err error) OrderSummary {
	return OrderSummary{Success: false, Error: err.Error()}
}

// CheckoutLink is a hosted checkout page created by the payment provider.
type CheckoutLink struct {
	ID      string
	URL     string
	OrderID string
}

// CheckoutResult mirrors OrderSummary's failure convention for checkout requests.
type CheckoutResult struct {
	Success bool
	URL     string
	OrderID string
	Error   string
}

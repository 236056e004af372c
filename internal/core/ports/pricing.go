package ports

import (
	"context"

	"github.com/skateshop/storefront/internal/core/domain/pricing"
)

// OrderCalculator asks the payment provider for authoritative tax and total.
type OrderCalculator interface {
	CalculateOrder(ctx context.Context, lines []pricing.CalculationLine) (*pricing.Calculation, error)
}

// CheckoutLinkCreator creates a hosted checkout page for an order.
type CheckoutLinkCreator interface {
	CreatePaymentLink(ctx context.Context, lines []pricing.CalculationLine, redirectURL string) (*pricing.CheckoutLink, error)
}

// PricingService never returns errors: failures are reported inside the result.
type PricingService interface {
	Price(ctx context.Context, items []pricing.Item, method pricing.FulfillmentMethod) pricing.OrderSummary
	Checkout(ctx context.Context, items []pricing.Item, method pricing.FulfillmentMethod, redirectURL string) pricing.CheckoutResult
}

package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/skateshop/storefront/internal/core/domain/money"
	"github.com/skateshop/storefront/internal/core/domain/pricing"
	"github.com/skateshop/storefront/internal/core/ports"
)

var ErrNoCheckoutURL = errors.New("payment provider returned no checkout url")

// PricingService prices carts against the payment provider. Tax and total always come
// from the remote calculation; failures are reported in the result, never returned.
type PricingService struct {
	calculator ports.OrderCalculator
	links      ports.CheckoutLinkCreator
	tiers      []pricing.ShippingTier
	logger     *logrus.Logger
}

// NewPricingService creates the service. A nil tiers slice uses pricing.DefaultShippingTiers.
func NewPricingService(calculator ports.OrderCalculator, links ports.CheckoutLinkCreator, tiers []pricing.ShippingTier, logger *logrus.Logger) *PricingService {
	if tiers == nil {
		tiers = pricing.DefaultShippingTiers
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &PricingService{calculator: calculator, links: links, tiers: tiers, logger: logger}
}

// quote validates the order and returns subtotal, shipping and the calculation lines.
func (s *PricingService) quote(items []pricing.Item, method pricing.FulfillmentMethod) (money.Money, money.Money, []pricing.CalculationLine, error) {
	if _, err := pricing.ParseFulfillment(string(method)); err != nil {
		return 0, 0, nil, err
	}
	if err := pricing.Validate(items); err != nil {
		return 0, 0, nil, err
	}
	subtotal := pricing.Subtotal(items)
	var shipping money.Money
	if method == pricing.FulfillmentShipping {
		shipping = pricing.ShippingFor(subtotal, s.tiers)
	}
	return subtotal, shipping, pricing.BuildLines(items, shipping), nil
}

func (s *PricingService) Price(ctx context.Context, items []pricing.Item, method pricing.FulfillmentMethod) pricing.OrderSummary {
	subtotal, shipping, lines, err := s.quote(items, method)
	if err != nil {
		return pricing.Failed(err)
	}

	calc, err := s.calculator.CalculateOrder(ctx, lines)
	if err != nil {
		s.logger.WithFields(logrus.Fields{"lines": len(lines), "fulfillment": method}).WithError(err).
			Error("pricing: order calculation failed")
		return pricing.Failed(err)
	}

	return pricing.OrderSummary{
		Success:  true,
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      calc.Tax,
		Total:    calc.Total,
	}
}

func (s *PricingService) Checkout(ctx context.Context, items []pricing.Item, method pricing.FulfillmentMethod, redirectURL string) pricing.CheckoutResult {
	_, _, lines, err := s.quote(items, method)
	if err != nil {
		return pricing.CheckoutResult{Error: err.Error()}
	}

	link, err := s.links.CreatePaymentLink(ctx, lines, redirectURL)
	if err == nil && (link == nil || link.URL == "") {
		err = ErrNoCheckoutURL
	}
	if err != nil {
		s.logger.WithFields(logrus.Fields{"lines": len(lines), "fulfillment": method}).WithError(err).
			Error("pricing: payment link creation failed")
		return pricing.CheckoutResult{Error: err.Error()}
	}

	return pricing.CheckoutResult{Success: true, URL: link.URL, OrderID: link.OrderID}
}

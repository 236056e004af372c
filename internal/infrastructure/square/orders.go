package square

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/skateshop/storefront/internal/core/domain/money"
	"github.com/skateshop/storefront/internal/core/domain/pricing"
)

func (c *Client) buildOrder(lines []pricing.CalculationLine) order {
	items := make([]orderLineItem, 0, len(lines))
	for _, l := range lines {
		li := orderLineItem{
			Name:           l.Name,
			Quantity:       strconv.Itoa(l.Quantity),
			BasePriceMoney: moneyJSON{Amount: int64(l.BasePrice), Currency: c.currency},
		}
		if l.CatalogObjectID != "" {
			li.Metadata = map[string]string{"variation_id": l.CatalogObjectID}
		}
		items = append(items, li)
	}
	return order{
		LocationID:     c.locationID,
		LineItems:      items,
		PricingOptions: &pricingOptions{AutoApplyTaxes: true},
	}
}

// CalculateOrder implements ports.OrderCalculator. Lines are sent as ad hoc items so the
// effective (sale) price is the one taxed.
func (c *Client) CalculateOrder(ctx context.Context, lines []pricing.CalculationLine) (*pricing.Calculation, error) {
	var resp calculateOrderResponse
	req := calculateOrderRequest{Order: c.buildOrder(lines)}
	if err := c.do(ctx, http.MethodPost, "/v2/orders/calculate", req, &resp); err != nil {
		return nil, err
	}
	if resp.Order == nil || resp.Order.TotalMoney == nil {
		return nil, ErrMissingOrder
	}

	calc := &pricing.Calculation{Total: money.Money(resp.Order.TotalMoney.Amount)}
	if resp.Order.TotalTaxMoney != nil {
		calc.Tax = money.Money(resp.Order.TotalTaxMoney.Amount)
	}
	return calc, nil
}

// CreatePaymentLink implements ports.CheckoutLinkCreator. Every call carries a fresh
// idempotency key.
func (c *Client) CreatePaymentLink(ctx context.Context, lines []pricing.CalculationLine, redirectURL string) (*pricing.CheckoutLink, error) {
	req := createPaymentLinkRequest{
		IdempotencyKey: uuid.NewString(),
		Order:          c.buildOrder(lines),
	}
	if redirectURL != "" {
		req.CheckoutOptions = &checkoutOptions{RedirectURL: redirectURL}
	}

	var resp createPaymentLinkResponse
	if err := c.do(ctx, http.MethodPost, "/v2/online-checkout/payment-links", req, &resp); err != nil {
		return nil, err
	}
	if resp.PaymentLink == nil {
		return nil, fmt.Errorf("square: response has no payment link")
	}
	return &pricing.CheckoutLink{
		ID:      resp.PaymentLink.ID,
		URL:     resp.PaymentLink.URL,
		OrderID: resp.PaymentLink.OrderID,
	}, nil
}

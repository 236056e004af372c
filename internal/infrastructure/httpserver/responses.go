package httpserver

import (
	"time"

	"github.com/skateshop/storefront/internal/core/domain/cart"
	"github.com/skateshop/storefront/internal/core/domain/catalog"
	"github.com/skateshop/storefront/internal/core/domain/pricing"
)

// Monetary fields at the HTTP boundary are decimal dollars.

type cartItemResponse struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type cartStateResponse struct {
	Items     []cartItemResponse `json:"items"`
	Total     float64            `json:"total"`
	ItemCount int                `json:"itemCount"`
}

type cartResponse struct {
	Success   bool               `json:"success"`
	CartState *cartStateResponse `json:"cartState,omitempty"`
	Error     string             `json:"error,omitempty"`
}

func toCartStateResponse(st cart.State) *cartStateResponse {
	items := make([]cartItemResponse, 0, len(st.Items))
	for _, it := range st.Items {
		items = append(items, cartItemResponse{
			ID:       it.ID,
			Title:    it.Title,
			Price:    it.UnitPrice.Float(),
			Quantity: it.Quantity,
		})
	}
	return &cartStateResponse{Items: items, Total: st.Total.Float(), ItemCount: st.ItemCount}
}

type pricingResponse struct {
	Success  bool    `json:"success"`
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
	Error    string  `json:"error,omitempty"`
}

func toPricingResponse(sum pricing.OrderSummary) pricingResponse {
	return pricingResponse{
		Success:  sum.Success,
		Subtotal: sum.Subtotal.Float(),
		Shipping: sum.Shipping.Float(),
		Tax:      sum.Tax.Float(),
		Total:    sum.Total.Float(),
		Error:    sum.Error,
	}
}

type checkoutResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url,omitempty"`
	OrderID string `json:"orderId,omitempty"`
	Error   string `json:"error,omitempty"`
}

type variationResponse struct {
	ID        string    `json:"id"`
	ItemID    string    `json:"item_id"`
	Name      string    `json:"name"`
	SKU       string    `json:"sku,omitempty"`
	Price     float64   `json:"price"`
	Currency  string    `json:"currency"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toVariationResponse(v *catalog.Variation) variationResponse {
	return variationResponse{
		ID:        v.ID,
		ItemID:    v.ItemID,
		Name:      v.Name,
		SKU:       v.SKU,
		Price:     v.Price.Float(),
		Currency:  v.Currency,
		UpdatedAt: v.UpdatedAt,
	}
}

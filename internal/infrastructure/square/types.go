package square

import "time"

type moneyJSON struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type orderLineItem struct {
	Name           string            `json:"name"`
	Quantity       string            `json:"quantity"`
	BasePriceMoney moneyJSON         `json:"base_price_money"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

type pricingOptions struct {
	AutoApplyTaxes bool `json:"auto_apply_taxes"`
}

type order struct {
	LocationID     string          `json:"location_id"`
	LineItems      []orderLineItem `json:"line_items"`
	PricingOptions *pricingOptions `json:"pricing_options,omitempty"`
}

type calculateOrderRequest struct {
	Order order `json:"order"`
}

type calculatedOrder struct {
	ID            string     `json:"id"`
	TotalMoney    *moneyJSON `json:"total_money"`
	TotalTaxMoney *moneyJSON `json:"total_tax_money"`
}

type calculateOrderResponse struct {
	Order *calculatedOrder `json:"order"`
}

type checkoutOptions struct {
	RedirectURL string `json:"redirect_url,omitempty"`
}

type createPaymentLinkRequest struct {
	IdempotencyKey  string           `json:"idempotency_key"`
	Order           order            `json:"order"`
	CheckoutOptions *checkoutOptions `json:"checkout_options,omitempty"`
}

type paymentLink struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	OrderID string `json:"order_id"`
}

type createPaymentLinkResponse struct {
	PaymentLink *paymentLink `json:"payment_link"`
}

type catalogObject struct {
	Type              string    `json:"type"`
	ID                string    `json:"id"`
	UpdatedAt         time.Time `json:"updated_at"`
	ItemVariationData *struct {
		ItemID     string     `json:"item_id"`
		Name       string     `json:"name"`
		SKU        string     `json:"sku"`
		PriceMoney *moneyJSON `json:"price_money"`
	} `json:"item_variation_data"`
}

type retrieveCatalogObjectResponse struct {
	Object *catalogObject `json:"object"`
}

type batchRetrieveCountsRequest struct {
	CatalogObjectIDs []string `json:"catalog_object_ids"`
	LocationIDs      []string `json:"location_ids,omitempty"`
}

type inventoryCount struct {
	CatalogObjectID string    `json:"catalog_object_id"`
	LocationID      string    `json:"location_id"`
	State           string    `json:"state"`
	Quantity        string    `json:"quantity"`
	CalculatedAt    time.Time `json:"calculated_at"`
}

type batchRetrieveCountsResponse struct {
	Counts []inventoryCount `json:"counts"`
}

package square

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/skateshop/storefront/internal/core/domain/catalog"
	"github.com/skateshop/storefront/internal/core/domain/money"
)

const typeItemVariation = "ITEM_VARIATION"

// RetrieveVariation implements ports.CatalogClient.
func (c *Client) RetrieveVariation(ctx context.Context, id string) (*catalog.Variation, error) {
	var resp retrieveCatalogObjectResponse
	if err := c.do(ctx, http.MethodGet, "/v2/catalog/object/"+url.PathEscape(id), nil, &resp); err != nil {
		if isNotFound(err) {
			return nil, catalog.ErrNotFound
		}
		return nil, err
	}
	obj := resp.Object
	if obj == nil || obj.Type != typeItemVariation || obj.ItemVariationData == nil {
		return nil, catalog.ErrNotFound
	}

	v := &catalog.Variation{
		ID:        obj.ID,
		ItemID:    obj.ItemVariationData.ItemID,
		Name:      obj.ItemVariationData.Name,
		SKU:       obj.ItemVariationData.SKU,
		Currency:  c.currency,
		UpdatedAt: obj.UpdatedAt,
	}
	if pm := obj.ItemVariationData.PriceMoney; pm != nil {
		v.Price = money.Money(pm.Amount)
		v.Currency = pm.Currency
	}
	return v, nil
}

// RetrieveInventory implements ports.CatalogClient for the configured location.
func (c *Client) RetrieveInventory(ctx context.Context, variationID string) ([]catalog.InventoryCount, error) {
	req := batchRetrieveCountsRequest{
		CatalogObjectIDs: []string{variationID},
		LocationIDs:      []string{c.locationID},
	}
	var resp batchRetrieveCountsResponse
	if err := c.do(ctx, http.MethodPost, "/v2/inventory/counts/batch-retrieve", req, &resp); err != nil {
		return nil, err
	}

	counts := make([]catalog.InventoryCount, 0, len(resp.Counts))
	for _, rc := range resp.Counts {
		qty, err := parseQuantity(rc.Quantity)
		if err != nil {
			return nil, fmt.Errorf("square: inventory quantity %q: %w", rc.Quantity, err)
		}
		counts = append(counts, catalog.InventoryCount{
			VariationID:  rc.CatalogObjectID,
			LocationID:   rc.LocationID,
			State:        rc.State,
			Quantity:     qty,
			CalculatedAt: rc.CalculatedAt,
		})
	}
	return counts, nil
}

// parseQuantity reads Square's decimal-string quantities, truncating fractional units.
func parseQuantity(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	return int(d.IntPart()), nil
}

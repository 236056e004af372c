package ports

import (
	"context"

	"github.com/skateshop/storefront/internal/core/domain/catalog"
)

// CatalogClient reads catalog and inventory data from the remote provider.
type CatalogClient interface {
	RetrieveVariation(ctx context.Context, id string) (*catalog.Variation, error)
	RetrieveInventory(ctx context.Context, variationID string) ([]catalog.InventoryCount, error)
}

// CatalogService serves catalog reads through the cache.
type CatalogService interface {
	GetVariation(ctx context.Context, id string) (*catalog.Variation, error)
	GetInventory(ctx context.Context, variationID string) ([]catalog.InventoryCount, error)
	InvalidateVariation(ctx context.Context, id string) error
}

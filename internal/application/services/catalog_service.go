package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/skateshop/storefront/internal/core/domain/catalog"
	"github.com/skateshop/storefront/internal/core/ports"
	"github.com/skateshop/storefront/internal/infrastructure/cache"
)

// CatalogService serves catalog and inventory reads cache-aside. Inventory uses its own,
// shorter-lived cache.
type CatalogService struct {
	client     ports.CatalogClient
	variations *cache.Aside
	inventory  *cache.Aside
	logger     *logrus.Logger
}

func NewCatalogService(client ports.CatalogClient, variations, inventory *cache.Aside, logger *logrus.Logger) *CatalogService {
	return &CatalogService{client: client, variations: variations, inventory: inventory, logger: logger}
}

func (s *CatalogService) GetVariation(ctx context.Context, id string) (*catalog.Variation, error) {
	return cache.GetOrCompute(ctx, s.variations, id, func(ctx context.Context) (*catalog.Variation, error) {
		return s.client.RetrieveVariation(ctx, id)
	})
}

func (s *CatalogService) GetInventory(ctx context.Context, variationID string) ([]catalog.InventoryCount, error) {
	return cache.GetOrCompute(ctx, s.inventory, variationID, func(ctx context.Context) ([]catalog.InventoryCount, error) {
		counts, err := s.client.RetrieveInventory(ctx, variationID)
		if err != nil {
			return nil, err
		}
		if counts == nil {
			counts = []catalog.InventoryCount{}
		}
		return counts, nil
	})
}

// InvalidateVariation drops the cached variation and its inventory.
func (s *CatalogService) InvalidateVariation(ctx context.Context, id string) error {
	if err := s.variations.Delete(ctx, id); err != nil {
		return err
	}
	return s.inventory.Delete(ctx, id)
}

package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/skateshop/storefront/internal/application/services"
	"github.com/skateshop/storefront/internal/core/domain/catalog"
	"github.com/skateshop/storefront/internal/core/domain/content"
	"github.com/skateshop/storefront/internal/infrastructure/cache"
	tmocks "github.com/skateshop/storefront/test/mocks"
)

func newAside(namespace string) *cache.Aside {
	return cache.NewAside(cache.NewMemoryCache(0), namespace, time.Minute, quietLogger())
}

func TestCatalogService_CachesVariations(t *testing.T) {
	calls := 0
	client := &tmocks.CatalogClientMock{RetrieveVariationFn: func(ctx context.Context, id string) (*catalog.Variation, error) {
		calls++
		if id == "missing" {
			return nil, catalog.ErrNotFound
		}
		return &catalog.Variation{ID: id, Name: "8.0\"", Price: 5999, Currency: "USD"}, nil
	}}
	svc := services.NewCatalogService(client, newAside("variation"), newAside("inventory"), quietLogger())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		v, err := svc.GetVariation(ctx, "v1")
		require.NoError(t, err)
		require.Equal(t, "v1", v.ID)
	}
	require.Equal(t, 1, calls)

	for i := 0; i < 2; i++ {
		_, err := svc.GetVariation(ctx, "missing")
		require.ErrorIs(t, err, catalog.ErrNotFound)
	}
	require.Equal(t, 3, calls)

	require.NoError(t, svc.InvalidateVariation(ctx, "v1"))
	_, err := svc.GetVariation(ctx, "v1")
	require.NoError(t, err)
	require.Equal(t, 4, calls)
}

func TestCatalogService_CachesInventory(t *testing.T) {
	calls := 0
	client := &tmocks.CatalogClientMock{RetrieveInventoryFn: func(ctx context.Context, id string) ([]catalog.InventoryCount, error) {
		calls++
		return nil, nil
	}}
	svc := services.NewCatalogService(client, newAside("variation"), newAside("inventory"), quietLogger())

	for i := 0; i < 2; i++ {
		counts, err := svc.GetInventory(context.Background(), "v1")
		require.NoError(t, err)
		require.NotNil(t, counts)
		require.Empty(t, counts)
	}
	require.Equal(t, 1, calls)
}

func TestContentService_ClampsLimitAndCaches(t *testing.T) {
	var limits []int
	client := &tmocks.ContentClientMock{ListPostsFn: func(ctx context.Context, limit int) ([]content.Post, error) {
		limits = append(limits, limit)
		return []content.Post{{ID: "1", Slug: "kickflip"}}, nil
	}}
	svc := services.NewContentService(client, newAside("content"), quietLogger())
	ctx := context.Background()

	_, err := svc.ListPosts(ctx, 0)
	require.NoError(t, err)
	_, err = svc.ListPosts(ctx, 10)
	require.NoError(t, err)
	posts, err := svc.ListPosts(ctx, 500)
	require.NoError(t, err)
	require.Len(t, posts, 1)

	require.Equal(t, []int{10, 50}, limits)
}

func TestContentService_GetPost(t *testing.T) {
	calls := 0
	client := &tmocks.ContentClientMock{GetPostBySlugFn: func(ctx context.Context, slug string) (*content.Post, error) {
		calls++
		if slug != "kickflip" {
			return nil, content.ErrPostNotFound
		}
		return &content.Post{ID: "1", Slug: slug, Title: "Kickflip basics"}, nil
	}}
	svc := services.NewContentService(client, newAside("content"), quietLogger())
	ctx := context.Background()

	p, err := svc.GetPost(ctx, "kickflip")
	require.NoError(t, err)
	require.Equal(t, "Kickflip basics", p.Title)
	_, err = svc.GetPost(ctx, "kickflip")
	require.NoError(t, err)
	require.Equal(t, 1, calls)

	_, err = svc.GetPost(ctx, "nope")
	require.ErrorIs(t, err, content.ErrPostNotFound)
}

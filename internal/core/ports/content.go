package ports

import (
	"context"

	"github.com/skateshop/storefront/internal/core/domain/content"
)

// ContentClient queries the CMS.
type ContentClient interface {
	ListPosts(ctx context.Context, limit int) ([]content.Post, error)
	GetPostBySlug(ctx context.Context, slug string) (*content.Post, error)
}

// ContentService serves CMS content through the cache.
type ContentService interface {
	ListPosts(ctx context.Context, limit int) ([]content.Post, error)
	GetPost(ctx context.Context, slug string) (*content.Post, error)
}

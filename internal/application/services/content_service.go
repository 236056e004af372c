package services

import (
	"context"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/skateshop/storefront/internal/core/domain/content"
	"github.com/skateshop/storefront/internal/core/ports"
	"github.com/skateshop/storefront/internal/infrastructure/cache"
)

const (
	defaultPostLimit = 10
	maxPostLimit     = 50
)

// ContentService serves CMS posts cache-aside.
type ContentService struct {
	client ports.ContentClient
	cache  *cache.Aside
	logger *logrus.Logger
}

func NewContentService(client ports.ContentClient, c *cache.Aside, logger *logrus.Logger) *ContentService {
	return &ContentService{client: client, cache: c, logger: logger}
}

// ListPosts returns the newest posts. limit is clamped to [1, 50]; 0 means the default.
func (s *ContentService) ListPosts(ctx context.Context, limit int) ([]content.Post, error) {
	switch {
	case limit <= 0:
		limit = defaultPostLimit
	case limit > maxPostLimit:
		limit = maxPostLimit
	}
	key := cache.Key("posts", strconv.Itoa(limit))
	return cache.GetOrCompute(ctx, s.cache, key, func(ctx context.Context) ([]content.Post, error) {
		posts, err := s.client.ListPosts(ctx, limit)
		if err != nil {
			return nil, err
		}
		if posts == nil {
			posts = []content.Post{}
		}
		return posts, nil
	})
}

func (s *ContentService) GetPost(ctx context.Context, slug string) (*content.Post, error) {
	return cache.GetOrCompute(ctx, s.cache, cache.Key("post", slug), func(ctx context.Context) (*content.Post, error) {
		return s.client.GetPostBySlug(ctx, slug)
	})
}

package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/skateshop/storefront/internal/core/domain/cart"
	"github.com/skateshop/storefront/internal/core/domain/catalog"
	"github.com/skateshop/storefront/internal/core/domain/content"
	"github.com/skateshop/storefront/internal/core/domain/pricing"
)

// CartStorageMock is a lightweight mock for ports.CartStorage
type CartStorageMock struct {
	ReadFn  func(ctx context.Context, key string) ([]byte, bool, error)
	WriteFn func(ctx context.Context, key string, data []byte) error

	mu     sync.Mutex
	Writes map[string][]byte
}

func (m *CartStorageMock) Read(ctx context.Context, key string) ([]byte, bool, error) {
	if m.ReadFn != nil {
		return m.ReadFn(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.Writes[key]
	return b, ok, nil
}
func (m *CartStorageMock) Write(ctx context.Context, key string, data []byte) error {
	if m.WriteFn != nil {
		return m.WriteFn(ctx, key, data)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Writes == nil {
		m.Writes = make(map[string][]byte)
	}
	m.Writes[key] = append([]byte(nil), data...)
	return nil
}

// Last returns the payload most recently written under key.
func (m *CartStorageMock) Last(key string) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Writes[key]
}

// CartObserverMock records every event it receives
type CartObserverMock struct {
	CartChangedFn func(ctx context.Context, ev cart.ChangeEvent) error

	mu     sync.Mutex
	Events []cart.ChangeEvent
}

func (m *CartObserverMock) CartChanged(ctx context.Context, ev cart.ChangeEvent) error {
	m.mu.Lock()
	m.Events = append(m.Events, ev)
	m.mu.Unlock()
	if m.CartChangedFn != nil {
		return m.CartChangedFn(ctx, ev)
	}
	return nil
}

// Received returns a copy of the recorded events.
func (m *CartObserverMock) Received() []cart.ChangeEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]cart.ChangeEvent(nil), m.Events...)
}

// OrderCalculatorMock is a lightweight mock for ports.OrderCalculator
type OrderCalculatorMock struct {
	CalculateOrderFn func(ctx context.Context, lines []pricing.CalculationLine) (*pricing.Calculation, error)
	Calls            [][]pricing.CalculationLine
}

func (m *OrderCalculatorMock) CalculateOrder(ctx context.Context, lines []pricing.CalculationLine) (*pricing.Calculation, error) {
	m.Calls = append(m.Calls, lines)
	if m.CalculateOrderFn != nil {
		return m.CalculateOrderFn(ctx, lines)
	}
	return nil, fmt.Errorf("not implemented")
}

// CheckoutLinkCreatorMock is a lightweight mock for ports.CheckoutLinkCreator
type CheckoutLinkCreatorMock struct {
	CreatePaymentLinkFn func(ctx context.Context, lines []pricing.CalculationLine, redirectURL string) (*pricing.CheckoutLink, error)
}

func (m *CheckoutLinkCreatorMock) CreatePaymentLink(ctx context.Context, lines []pricing.CalculationLine, redirectURL string) (*pricing.CheckoutLink, error) {
	if m.CreatePaymentLinkFn != nil {
		return m.CreatePaymentLinkFn(ctx, lines, redirectURL)
	}
	return nil, fmt.Errorf("not implemented")
}

// CatalogClientMock is a lightweight mock for ports.CatalogClient
type CatalogClientMock struct {
	RetrieveVariationFn func(ctx context.Context, id string) (*catalog.Variation, error)
	RetrieveInventoryFn func(ctx context.Context, variationID string) ([]catalog.InventoryCount, error)
}

func (m *CatalogClientMock) RetrieveVariation(ctx context.Context, id string) (*catalog.Variation, error) {
	if m.RetrieveVariationFn != nil {
		return m.RetrieveVariationFn(ctx, id)
	}
	return nil, catalog.ErrNotFound
}
func (m *CatalogClientMock) RetrieveInventory(ctx context.Context, variationID string) ([]catalog.InventoryCount, error) {
	if m.RetrieveInventoryFn != nil {
		return m.RetrieveInventoryFn(ctx, variationID)
	}
	return nil, nil
}

// ContentClientMock is a lightweight mock for ports.ContentClient
type ContentClientMock struct {
	ListPostsFn     func(ctx context.Context, limit int) ([]content.Post, error)
	GetPostBySlugFn func(ctx context.Context, slug string) (*content.Post, error)
}

func (m *ContentClientMock) ListPosts(ctx context.Context, limit int) ([]content.Post, error) {
	if m.ListPostsFn != nil {
		return m.ListPostsFn(ctx, limit)
	}
	return nil, nil
}
func (m *ContentClientMock) GetPostBySlug(ctx context.Context, slug string) (*content.Post, error) {
	if m.GetPostBySlugFn != nil {
		return m.GetPostBySlugFn(ctx, slug)
	}
	return nil, content.ErrPostNotFound
}

// RateLimitRepositoryMock is a lightweight mock for ports.RateLimitRepository
type RateLimitRepositoryMock struct {
	IncrementWindowFn func(ctx context.Context, subject string, window time.Duration, keyPrefix string, ttl time.Duration) (int, time.Time, error)
}

func (m *RateLimitRepositoryMock) IncrementWindow(ctx context.Context, subject string, window time.Duration, keyPrefix string, ttl time.Duration) (int, time.Time, error) {
	if m.IncrementWindowFn != nil {
		return m.IncrementWindowFn(ctx, subject, window, keyPrefix, ttl)
	}
	return 1, time.Now().Truncate(window), nil
}

// RateLimiterServiceMock is a lightweight mock for ports.RateLimiterService
type RateLimiterServiceMock struct {
	AllowFn func(ctx context.Context, subject string) (bool, int, int, time.Time, error)
}

func (m *RateLimiterServiceMock) Allow(ctx context.Context, subject string) (bool, int, int, time.Time, error) {
	if m.AllowFn != nil {
		return m.AllowFn(ctx, subject)
	}
	return true, 1, 1, time.Now(), nil
}

// HealthCheckerMock is a lightweight mock for ports.HealthChecker
type HealthCheckerMock struct {
	NameValue string
	CheckFn   func(ctx context.Context) error
}

func (m *HealthCheckerMock) Name() string { return m.NameValue }
func (m *HealthCheckerMock) Check(ctx context.Context) error {
	if m.CheckFn != nil {
		return m.CheckFn(ctx)
	}
	return nil
}

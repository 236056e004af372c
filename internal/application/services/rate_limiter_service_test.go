package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/skateshop/storefront/internal/application/services"
	tmocks "github.com/skateshop/storefront/test/mocks"
)

func TestRateLimiter_AllowsUpToBurst(t *testing.T) {
	count := 0
	repo := &tmocks.RateLimitRepositoryMock{IncrementWindowFn: func(ctx context.Context, subject string, window time.Duration, keyPrefix string, ttl time.Duration) (int, time.Time, error) {
		require.Equal(t, "session:s1", subject)
		require.Equal(t, "ratelimit:session", keyPrefix)
		require.Equal(t, 2*window, ttl)
		count++
		return count, time.Now().Truncate(window), nil
	}}
	svc := services.NewRateLimiterService(repo, &services.RateLimiterConfig{RequestsPerMinute: 2, BurstMultiplier: 1.5}, quietLogger())

	allowed, remaining, limit, _, err := svc.Allow(context.Background(), "session:s1")
	require.NoError(t, err)
	require.True(t, allowed)
	require.Equal(t, 2, remaining)
	require.Equal(t, 2, limit)

	_, _, _, _, _ = svc.Allow(context.Background(), "session:s1")
	allowed, remaining, _, _, _ = svc.Allow(context.Background(), "session:s1")
	require.True(t, allowed)
	require.Equal(t, 0, remaining)

	allowed, _, _, _, err = svc.Allow(context.Background(), "session:s1")
	require.NoError(t, err)
	require.False(t, allowed)
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	repo := &tmocks.RateLimitRepositoryMock{IncrementWindowFn: func(ctx context.Context, subject string, window time.Duration, keyPrefix string, ttl time.Duration) (int, time.Time, error) {
		return 0, time.Now(), errors.New("redis down")
	}}
	svc := services.NewRateLimiterService(repo, nil, quietLogger())

	allowed, _, limit, _, err := svc.Allow(context.Background(), "ip:10.0.0.1")
	require.Error(t, err)
	require.True(t, allowed)
	require.Equal(t, 120, limit)
}

package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/skateshop/storefront/internal/application/services"
	"github.com/skateshop/storefront/internal/core/domain/cart"
	tmocks "github.com/skateshop/storefront/test/mocks"
)

func TestCartNotifier_RunsEveryObserver(t *testing.T) {
	failing := &tmocks.CartObserverMock{CartChangedFn: func(ctx context.Context, ev cart.ChangeEvent) error {
		return errors.New("broker down")
	}}
	ok := &tmocks.CartObserverMock{}
	n := services.NewCartNotifier(failing, nil, ok)

	err := n.CartChanged(context.Background(), cart.ChangeEvent{SessionID: "s1", Action: cart.ActionAdd})
	require.Error(t, err)
	require.Len(t, failing.Received(), 1)
	require.Len(t, ok.Received(), 1)
}

func TestAsyncObserver_DoesNotBlockOnSlowObserver(t *testing.T) {
	release := make(chan struct{})
	slow := &tmocks.CartObserverMock{CartChangedFn: func(ctx context.Context, ev cart.ChangeEvent) error {
		<-release
		return ctx.Err()
	}}
	a := services.NewAsyncObserver(slow, 8, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, a.CartChanged(ctx, cart.ChangeEvent{SessionID: "s1", Action: cart.ActionAdd, ItemCount: i + 1}))
	}
	require.Less(t, time.Since(start), 100*time.Millisecond)
	cancel()

	close(release)
	a.Close()

	events := slow.Received()
	require.Len(t, events, 3)
	require.Equal(t, 3, events[2].ItemCount)
}

func TestAsyncObserver_DropsWhenQueueFull(t *testing.T) {
	release := make(chan struct{})
	slow := &tmocks.CartObserverMock{CartChangedFn: func(ctx context.Context, ev cart.ChangeEvent) error {
		<-release
		return nil
	}}
	a := services.NewAsyncObserver(slow, 1, quietLogger())
	ctx := context.Background()

	require.NoError(t, a.CartChanged(ctx, cart.ChangeEvent{SessionID: "s1", ItemCount: 1}))
	require.Eventually(t, func() bool { return len(slow.Received()) == 1 }, time.Second, 5*time.Millisecond)

	// one event in flight, one queued, the rest dropped
	for i := 2; i <= 5; i++ {
		require.NoError(t, a.CartChanged(ctx, cart.ChangeEvent{SessionID: "s1", ItemCount: i}))
	}

	close(release)
	a.Close()
	require.Len(t, slow.Received(), 2)

	// closed observers ignore further events
	require.NoError(t, a.CartChanged(ctx, cart.ChangeEvent{SessionID: "s1", ItemCount: 9}))
	require.Len(t, slow.Received(), 2)
}

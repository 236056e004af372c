package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/skateshop/storefront/internal/core/domain/cart"
)

// CartService implements ports.CartService on top of the session registry.
type CartService struct {
	sessions *SessionRegistry
	logger   *logrus.Logger
}

func NewCartService(sessions *SessionRegistry, logger *logrus.Logger) *CartService {
	return &CartService{sessions: sessions, logger: logger}
}

func (s *CartService) store(ctx context.Context) (*CartStore, error) {
	id, ok := cart.SessionFromContext(ctx)
	if !ok {
		return nil, cart.ErrMissingSession
	}
	return s.sessions.Store(ctx, id), nil
}

func (s *CartService) AddItem(ctx context.Context, item cart.LineItem) (cart.State, error) {
	st, err := s.store(ctx)
	if err != nil {
		return cart.State{}, err
	}
	st.AddItem(ctx, item)
	return st.State(), nil
}

func (s *CartService) RemoveItem(ctx context.Context, id string) (cart.State, error) {
	st, err := s.store(ctx)
	if err != nil {
		return cart.State{}, err
	}
	st.RemoveItem(ctx, id)
	return st.State(), nil
}

func (s *CartService) UpdateQuantity(ctx context.Context, id string, qty int) (cart.State, error) {
	st, err := s.store(ctx)
	if err != nil {
		return cart.State{}, err
	}
	st.UpdateQuantity(ctx, id, qty)
	return st.State(), nil
}

func (s *CartService) Clear(ctx context.Context) (cart.State, error) {
	st, err := s.store(ctx)
	if err != nil {
		return cart.State{}, err
	}
	st.Clear(ctx)
	return st.State(), nil
}

func (s *CartService) GetState(ctx context.Context) (cart.State, error) {
	st, err := s.store(ctx)
	if err != nil {
		return cart.State{}, err
	}
	return st.State(), nil
}

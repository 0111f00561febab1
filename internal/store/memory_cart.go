package store

import (
	"context"
	"time"

	"github.com/mudhasirp/Leather-Ecommerce-API/internal/domain"
	"github.com/mudhasirp/Leather-Ecommerce-API/internal/repository"
)

func (s *MemoryStore) GetCart(_ context.Context, userID string) (*domain.Cart, error) {
	s.cartsMu.RLock()
	defer s.cartsMu.RUnlock()

	cart, exists := s.carts[userID]
	if !exists {
		return nil, repository.ErrCartNotFound
	}
	return cloneCart(cart), nil
}

func (s *MemoryStore) AddItem(_ context.Context, userID string, item domain.CartItem) (*domain.Cart, error) {
	s.cartsMu.Lock()
	defer s.cartsMu.Unlock()

	now := time.Now().UTC()
	cart, exists := s.carts[userID]
	if !exists {
		cart = domain.NewCart(userID)
		cart.CreatedAt = now
		s.carts[userID] = cart
	}

	item.AddedAt = now
	cart.Merge(item)
	cart.UpdatedAt = now
	return cloneCart(cart), nil
}

func (s *MemoryStore) UpdateItemQuantity(_ context.Context, userID, productID, unitLabel string, quantity int) (*domain.Cart, error) {
	s.cartsMu.Lock()
	defer s.cartsMu.Unlock()

	cart, exists := s.carts[userID]
	if !exists {
		return nil, repository.ErrCartNotFound
	}
	if !cart.SetQuantity(productID, unitLabel, quantity) {
		return nil, repository.ErrItemNotFound
	}
	cart.UpdatedAt = time.Now().UTC()
	return cloneCart(cart), nil
}

func (s *MemoryStore) RemoveItem(ctx context.Context, userID, productID, unitLabel string) (*domain.Cart, error) {
	return s.UpdateItemQuantity(ctx, userID, productID, unitLabel, 0)
}

func (s *MemoryStore) ClearCart(_ context.Context, userID string) error {
	s.cartsMu.Lock()
	defer s.cartsMu.Unlock()

	cart, exists := s.carts[userID]
	if !exists {
		return repository.ErrCartNotFound
	}
	cart.Clear()
	cart.UpdatedAt = time.Now().UTC()
	return nil
}

func cloneCart(c *domain.Cart) *domain.Cart {
	out := *c
	out.Items = append([]domain.CartItem{}, c.Items...)
	return &out
}

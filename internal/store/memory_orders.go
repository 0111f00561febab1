package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mudhasirp/Leather-Ecommerce-API/internal/domain"
	"github.com/mudhasirp/Leather-Ecommerce-API/internal/repository"
)

func (s *MemoryStore) CreateOrder(_ context.Context, order *domain.Order) error {
	s.ordersMu.Lock()
	defer s.ordersMu.Unlock()

	if order.IdempotencyKey != "" {
		if _, found := s.findByKey(order.UserID, order.IdempotencyKey); found {
			return repository.ErrDuplicateOrder
		}
	}

	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}
	order.UpdatedAt = order.CreatedAt

	s.orders[order.ID] = cloneOrder(order)
	s.orderSeq = append(s.orderSeq, order.ID)
	return nil
}

func (s *MemoryStore) DeleteOrder(_ context.Context, id string) error {
	s.ordersMu.Lock()
	defer s.ordersMu.Unlock()

	if _, exists := s.orders[id]; !exists {
		return nil
	}
	delete(s.orders, id)
	for i, seqID := range s.orderSeq {
		if seqID == id {
			s.orderSeq = append(s.orderSeq[:i], s.orderSeq[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemoryStore) GetOrderByID(_ context.Context, id string) (*domain.Order, error) {
	s.ordersMu.RLock()
	defer s.ordersMu.RUnlock()

	order, exists := s.orders[id]
	if !exists {
		return nil, repository.ErrOrderNotFound
	}
	return cloneOrder(order), nil
}

func (s *MemoryStore) GetOrderByIdempotencyKey(_ context.Context, userID, key string) (*domain.Order, error) {
	s.ordersMu.RLock()
	defer s.ordersMu.RUnlock()

	order, found := s.findByKey(userID, key)
	if !found {
		return nil, repository.ErrOrderNotFound
	}
	return cloneOrder(order), nil
}

func (s *MemoryStore) findByKey(userID, key string) (*domain.Order, bool) {
	for _, order := range s.orders {
		if order.UserID == userID && order.IdempotencyKey == key {
			return order, true
		}
	}
	return nil, false
}

func (s *MemoryStore) ListOrdersByUserID(_ context.Context, userID string) ([]*domain.Order, error) {
	return s.listOrders(func(o *domain.Order) bool { return o.UserID == userID }), nil
}

func (s *MemoryStore) ListOrders(_ context.Context) ([]*domain.Order, error) {
	return s.listOrders(func(*domain.Order) bool { return true }), nil
}

// listOrders returns matching orders newest first.
func (s *MemoryStore) listOrders(match func(*domain.Order) bool) []*domain.Order {
	s.ordersMu.RLock()
	defer s.ordersMu.RUnlock()

	result := make([]*domain.Order, 0)
	for i := len(s.orderSeq) - 1; i >= 0; i-- {
		order := s.orders[s.orderSeq[i]]
		if match(order) {
			result = append(result, cloneOrder(order))
		}
	}
	return result
}

func (s *MemoryStore) UpdateOrderStatus(_ context.Context, id string, from, to domain.OrderStatus) error {
	s.ordersMu.Lock()
	defer s.ordersMu.Unlock()

	order, exists := s.orders[id]
	if !exists {
		return repository.ErrOrderNotFound
	}
	if order.Status != from {
		return repository.ErrStatusConflict
	}
	order.Status = to
	order.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *MemoryStore) MarkPaid(_ context.Context, id string) error {
	s.ordersMu.Lock()
	defer s.ordersMu.Unlock()

	order, exists := s.orders[id]
	if !exists {
		return repository.ErrOrderNotFound
	}
	order.IsPaid = true
	order.UpdatedAt = time.Now().UTC()
	return nil
}

func cloneOrder(o *domain.Order) *domain.Order {
	out := *o
	out.Items = append([]domain.OrderItem(nil), o.Items...)
	return &out
}

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/mudhasirp/Leather-Ecommerce-API/internal/domain"
	"github.com/mudhasirp/Leather-Ecommerce-API/internal/repository"
	"github.com/mudhasirp/Leather-Ecommerce-API/pkg/logger"
)

// StockReleaser returns units to the catalog.
type StockReleaser interface {
	Release(ctx context.Context, key domain.VariantKey, quantity int) error
}

type OrderService struct {
	orders   repository.OrderRepository
	catalog  StockReleaser
	notifier OrderNotifier
}

func NewOrderService(orders repository.OrderRepository, catalog StockReleaser) *OrderService {
	return &OrderService{orders: orders, catalog: catalog, notifier: nopNotifier{}}
}

// WithNotifier sets who hears about status changes.
func (s *OrderService) WithNotifier(n OrderNotifier) *OrderService {
	s.notifier = n
	return s
}

// ListMyOrders returns the user's orders newest first.
func (s *OrderService) ListMyOrders(ctx context.Context, userID string) ([]domain.OrderSummary, error) {
	orders, err := s.orders.ListOrdersByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	summaries := make([]domain.OrderSummary, 0, len(orders))
	for _, order := range orders {
		summaries = append(summaries, order.Summary())
	}
	return summaries, nil
}

// GetOrder returns an order to its owner. Admins may read any order.
// Other users get ErrNotFound so they cannot probe for order ids.
func (s *OrderService) GetOrder(ctx context.Context, userID string, isAdmin bool, id string) (*domain.Order, error) {
	order, err := s.orders.GetOrderByID(ctx, id)
	if err != nil {
		return nil, s.mapOrderError(err)
	}
	if !isAdmin && order.UserID != userID {
		return nil, fmt.Errorf("%w: %w", ErrNotFound, repository.ErrOrderNotFound)
	}
	return order, nil
}

func (s *OrderService) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	orders, err := s.orders.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus moves an order along its lifecycle. Cancelling returns the
// order's units to stock.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	if !status.IsValid() {
		return nil, newValidationError("status", "must be one of Placed, Confirmed, Shipped, Delivered, Cancelled")
	}

	order, err := s.orders.GetOrderByID(ctx, id)
	if err != nil {
		return nil, s.mapOrderError(err)
	}
	if order.Status == status {
		return order, nil
	}
	if !order.Status.CanTransitionTo(status) {
		return nil, &IllegalTransitionError{From: order.Status.String(), To: status.String()}
	}

	if err := s.orders.UpdateOrderStatus(ctx, id, order.Status, status); err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, &IllegalTransitionError{From: order.Status.String(), To: status.String()}
		}
		return nil, s.mapOrderError(err)
	}

	logger.Ctx(ctx).Info().
		Str("order_id", id).
		Stringer("from", order.Status).
		Stringer("to", status).
		Msg("order status changed")

	if status == domain.OrderStatusCancelled {
		s.restock(ctx, order)
	}

	from := order.Status
	order.Status = status
	s.notifier.OrderStatusChanged(order, from)
	return order, nil
}

func (s *OrderService) MarkPaid(ctx context.Context, id string) (*domain.Order, error) {
	if err := s.orders.MarkPaid(ctx, id); err != nil {
		return nil, s.mapOrderError(err)
	}
	return s.orders.GetOrderByID(ctx, id)
}

// restock releases every line of a cancelled order. Failures are logged;
// the cancellation itself stands.
func (s *OrderService) restock(ctx context.Context, order *domain.Order) {
	ctx = context.WithoutCancel(ctx)
	for _, item := range order.Items {
		if err := s.catalog.Release(ctx, item.Key(), item.Quantity); err != nil {
			logger.Ctx(ctx).Error().Err(err).
				Str("order_id", order.ID).
				Str("variant", item.Key().String()).
				Int("quantity", item.Quantity).
				Msg("failed to restock cancelled order line")
		}
	}
}

func (s *OrderService) mapOrderError(err error) error {
	if errors.Is(err, repository.ErrOrderNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return err
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mudhasirp/Leather-Ecommerce-API/internal/domain"
	"github.com/mudhasirp/Leather-Ecommerce-API/internal/repository"
	"github.com/mudhasirp/Leather-Ecommerce-API/pkg/logger"
	"github.com/mudhasirp/Leather-Ecommerce-API/pkg/metrics"
)

const (
	defaultRollbackTimeout = 10 * time.Second
	defaultStoreTimeout    = 5 * time.Second
)

// CheckoutCart is the cart access order placement needs.
type CheckoutCart interface {
	CartForCheckout(ctx context.Context, userID string) (*domain.Cart, error)
	ClearCart(ctx context.Context, userID string) error
}

// StockCatalog reads products and moves stock for order placement.
type StockCatalog interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	TryReserve(ctx context.Context, key domain.VariantKey, quantity int) (bool, error)
	Release(ctx context.Context, key domain.VariantKey, quantity int) error
}

type OrderLedger interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	DeleteOrder(ctx context.Context, id string) error
	GetOrderByIdempotencyKey(ctx context.Context, userID, key string) (*domain.Order, error)
}

type PlaceOrderRequest struct {
	UserID         string
	Address        domain.Address
	PaymentMethod  domain.PaymentMethod
	IdempotencyKey string
}

type CheckoutService interface {
	PlaceOrder(ctx context.Context, req *PlaceOrderRequest) (*domain.Order, error)
}

type CheckoutServiceImpl struct {
	cart     CheckoutCart
	catalog  StockCatalog
	orders   OrderLedger
	pricing  Pricing
	metrics  *metrics.CheckoutMetrics
	notifier OrderNotifier

	rollbackTimeout time.Duration
	storeTimeout    time.Duration
	now             func() time.Time
}

type CheckoutOption func(*CheckoutServiceImpl)

func WithCheckoutMetrics(m *metrics.CheckoutMetrics) CheckoutOption {
	return func(s *CheckoutServiceImpl) { s.metrics = m }
}

func WithOrderNotifier(n OrderNotifier) CheckoutOption {
	return func(s *CheckoutServiceImpl) { s.notifier = n }
}

func WithRollbackTimeout(d time.Duration) CheckoutOption {
	return func(s *CheckoutServiceImpl) {
		if d > 0 {
			s.rollbackTimeout = d
		}
	}
}

func NewCheckoutService(cart CheckoutCart, catalog StockCatalog, orders OrderLedger, pricing Pricing, opts ...CheckoutOption) *CheckoutServiceImpl {
	s := &CheckoutServiceImpl{
		cart:            cart,
		catalog:         catalog,
		orders:          orders,
		pricing:         pricing,
		notifier:        nopNotifier{},
		rollbackTimeout: defaultRollbackTimeout,
		storeTimeout:    defaultStoreTimeout,
		now:             func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PlaceOrder turns the user's cart into an order. Either the order exists,
// its stock is reserved and the cart is empty, or none of those effects
// remain.
func (s *CheckoutServiceImpl) PlaceOrder(ctx context.Context, req *PlaceOrderRequest) (*domain.Order, error) {
	log := logger.Ctx(ctx).With().Str("user_id", req.UserID).Logger()

	method, err := s.validateRequest(req)
	if err != nil {
		s.metrics.Outcome("validation_failed")
		return nil, err
	}

	if req.IdempotencyKey != "" {
		existing, err := s.orders.GetOrderByIdempotencyKey(ctx, req.UserID, req.IdempotencyKey)
		if err == nil {
			log.Info().
				Str("order_id", existing.ID).
				Str("idempotency_key", req.IdempotencyKey).
				Msg("duplicate order request, returning existing order")
			s.metrics.Outcome("duplicate")
			return existing, nil
		}
		if !errors.Is(err, repository.ErrOrderNotFound) {
			s.metrics.Outcome("error")
			return nil, fmt.Errorf("failed to check idempotency: %w", err)
		}
	}

	cart, err := s.cart.CartForCheckout(ctx, req.UserID)
	if errors.Is(err, repository.ErrCartNotFound) || (err == nil && cart.IsEmpty()) {
		s.metrics.Outcome("empty_cart")
		return nil, ErrEmptyCart
	}
	if err != nil {
		s.metrics.Outcome("error")
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	if err := s.checkStock(ctx, cart.Items); err != nil {
		s.metrics.Outcome(outcomeOf(err))
		return nil, err
	}

	order := s.buildOrder(req, method, cart)

	comp := &compensation{}
	if err := s.commit(ctx, order, cart.Items, comp); err != nil {
		rbErr := comp.run(ctx, s.rollbackTimeout)
		s.metrics.Rollback(rbErr == nil)
		if rbErr != nil {
			log.Error().Err(rbErr).Str("order_id", order.ID).Msg("rollback incomplete")
		}

		if errors.Is(err, repository.ErrDuplicateOrder) {
			s.metrics.Outcome("duplicate")
			return s.existingOrder(ctx, req)
		}

		s.metrics.Outcome(outcomeOf(err))
		log.Warn().Err(err).Str("order_id", order.ID).Msg("order placement rolled back")
		return nil, err
	}

	s.metrics.Outcome("placed")
	s.notifier.OrderPlaced(order)
	log.Info().
		Str("order_id", order.ID).
		Stringer("total", order.TotalAmount).
		Int("items", len(order.Items)).
		Msg("order placed")
	return order, nil
}

// commit runs the writing steps. Each step registers its undo on comp
// before the next one starts.
func (s *CheckoutServiceImpl) commit(ctx context.Context, order *domain.Order, items []domain.CartItem, comp *compensation) error {
	if err := s.reserveStock(ctx, items, comp); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.createOrder(ctx, order, comp); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.clearCart(ctx, order.UserID)
}

func (s *CheckoutServiceImpl) createOrder(ctx context.Context, order *domain.Order, comp *compensation) error {
	// The id is chosen up front, so the undo is safe even if the insert
	// failed after reaching the store.
	id := order.ID
	comp.push("delete order "+id, func(ctx context.Context) error {
		return s.orders.DeleteOrder(ctx, id)
	})

	storeCtx, cancel := s.detached(ctx)
	defer cancel()
	if err := s.orders.CreateOrder(storeCtx, order); err != nil {
		if errors.Is(err, repository.ErrDuplicateOrder) {
			return err
		}
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (s *CheckoutServiceImpl) clearCart(ctx context.Context, userID string) error {
	storeCtx, cancel := s.detached(ctx)
	defer cancel()
	if err := s.cart.ClearCart(storeCtx, userID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

func (s *CheckoutServiceImpl) existingOrder(ctx context.Context, req *PlaceOrderRequest) (*domain.Order, error) {
	storeCtx, cancel := s.detached(ctx)
	defer cancel()
	order, err := s.orders.GetOrderByIdempotencyKey(storeCtx, req.UserID, req.IdempotencyKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load order for idempotency key: %w", err)
	}
	return order, nil
}

func (s *CheckoutServiceImpl) buildOrder(req *PlaceOrderRequest, method domain.PaymentMethod, cart *domain.Cart) *domain.Order {
	totals := s.pricing.Quote(cart.Items)

	items := make([]domain.OrderItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, domain.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			Price:     item.Price,
			Quantity:  item.Quantity,
			UnitLabel: item.UnitLabel,
		})
	}

	now := s.now()
	return &domain.Order{
		ID:             uuid.NewString(),
		UserID:         req.UserID,
		Items:          items,
		Address:        trimAddress(req.Address),
		PaymentMethod:  method,
		Subtotal:       totals.Subtotal,
		DeliveryFee:    totals.DeliveryFee,
		TotalAmount:    totals.Total,
		Status:         domain.OrderStatusPlaced,
		IsPaid:         false,
		IdempotencyKey: req.IdempotencyKey,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// detached returns a context for a single store write that an abandoned
// request cannot cancel halfway.
func (s *CheckoutServiceImpl) detached(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), s.storeTimeout)
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "validation_failed"
	case errors.Is(err, ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, ErrProductUnavailable):
		return "unavailable"
	case errors.Is(err, ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	}
	return "error"
}

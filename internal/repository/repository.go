package repository

import (
	"context"
	"errors"

	"github.com/mudhasirp/Leather-Ecommerce-API/internal/domain"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrVariantNotFound = errors.New("unit variant not found")
	ErrDuplicateSlug   = errors.New("product with this slug already exists")
	ErrCartNotFound    = errors.New("cart not found")
	ErrItemNotFound    = errors.New("item not found in cart")
	ErrOrderNotFound   = errors.New("order not found")
	ErrDuplicateOrder  = errors.New("order for this idempotency key already exists")
	ErrStatusConflict  = errors.New("order status changed concurrently")
	ErrEnquiryNotFound = errors.New("enquiry not found")
	ErrAddressNotFound = errors.New("address not found")

	// ErrNotReserved wraps a failure that happened after a reservation was
	// known not to have been applied.
	ErrNotReserved = errors.New("reservation not applied")
)

// ProductRepository is the catalog store. Stock is only ever changed through
// TryReserve, Release and SetVariantStock.
type ProductRepository interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListProducts(ctx context.Context, activeOnly bool) ([]*domain.Product, error)
	CreateProduct(ctx context.Context, product *domain.Product) error
	SetVariantStock(ctx context.Context, key domain.VariantKey, stock int) error

	// TryReserve decrements the variant stock by quantity only if at least
	// quantity units are present at the moment of the write. It returns false
	// when the guard fails, and ErrProductNotFound or ErrVariantNotFound when
	// the target does not exist.
	TryReserve(ctx context.Context, key domain.VariantKey, quantity int) (bool, error)

	// Release adds quantity back to the variant stock.
	Release(ctx context.Context, key domain.VariantKey, quantity int) error
}

// CartRepository defines the interface for cart data operations
type CartRepository interface {
	GetCart(ctx context.Context, userID string) (*domain.Cart, error)
	AddItem(ctx context.Context, userID string, item domain.CartItem) (*domain.Cart, error)
	UpdateItemQuantity(ctx context.Context, userID, productID, unitLabel string, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, userID, productID, unitLabel string) (*domain.Cart, error)
	ClearCart(ctx context.Context, userID string) error
}

// OrderRepository is the order ledger. Orders are append-only; DeleteOrder
// exists only to undo an order whose checkout did not complete.
type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	DeleteOrder(ctx context.Context, id string) error
	GetOrderByID(ctx context.Context, id string) (*domain.Order, error)
	GetOrderByIdempotencyKey(ctx context.Context, userID, key string) (*domain.Order, error)
	ListOrdersByUserID(ctx context.Context, userID string) ([]*domain.Order, error)
	ListOrders(ctx context.Context) ([]*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, from, to domain.OrderStatus) error
	MarkPaid(ctx context.Context, id string) error
}

type EnquiryRepository interface {
	CreateEnquiry(ctx context.Context, enquiry *domain.Enquiry) error
	GetEnquiry(ctx context.Context, id string) (*domain.Enquiry, error)
	ListEnquiries(ctx context.Context) ([]*domain.Enquiry, error)
	UpdateEnquiryStatus(ctx context.Context, id string, status domain.EnquiryStatus) error
}

type AddressRepository interface {
	SaveAddress(ctx context.Context, address *domain.SavedAddress) error
	GetDefaultAddress(ctx context.Context, userID string) (*domain.SavedAddress, error)
}

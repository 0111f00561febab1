package service

import (
	"context"
	"sync"
	"testing"

	"github.com/mudhasirp/Leather-Ecommerce-API/internal/cache"
	"github.com/mudhasirp/Leather-Ecommerce-API/internal/domain"
	"github.com/mudhasirp/Leather-Ecommerce-API/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// mockCache implements cache.CartCache in memory
type mockCache struct {
	mu      sync.Mutex
	carts   map[string]*domain.Cart
	getErr  error
	gets    int
	sets    int
	deletes int
}

func newMockCache() *mockCache {
	return &mockCache{carts: make(map[string]*domain.Cart)}
}

func (m *mockCache) Get(_ context.Context, userID string) (*domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	if m.getErr != nil {
		return nil, m.getErr
	}
	cart, ok := m.carts[userID]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return cart, nil
}

func (m *mockCache) Set(_ context.Context, userID string, cart *domain.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	m.carts[userID] = cart
	return nil
}

func (m *mockCache) Delete(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes++
	delete(m.carts, userID)
	return nil
}

// faultyCatalog wraps a StockCatalog and injects failures per variant.
type faultyCatalog struct {
	StockCatalog

	mu           sync.Mutex
	refuse       map[domain.VariantKey]bool  // guard reports no stock
	reserveErr   map[domain.VariantKey]error // store error on reserve
	releaseErr   error
	afterReserve func()
	reserved     []domain.VariantKey
	released     []domain.VariantKey
}

func newFaultyCatalog(next StockCatalog) *faultyCatalog {
	return &faultyCatalog{
		StockCatalog: next,
		refuse:       make(map[domain.VariantKey]bool),
		reserveErr:   make(map[domain.VariantKey]error),
	}
}

func (f *faultyCatalog) TryReserve(ctx context.Context, key domain.VariantKey, quantity int) (bool, error) {
	f.mu.Lock()
	refuse, err := f.refuse[key], f.reserveErr[key]
	f.mu.Unlock()

	if err != nil {
		return false, err
	}
	if refuse {
		return false, nil
	}

	ok, err := f.StockCatalog.TryReserve(ctx, key, quantity)
	if ok {
		f.mu.Lock()
		f.reserved = append(f.reserved, key)
		f.mu.Unlock()
	}
	if f.afterReserve != nil {
		f.afterReserve()
	}
	return ok, err
}

func (f *faultyCatalog) Release(ctx context.Context, key domain.VariantKey, quantity int) error {
	if f.releaseErr != nil {
		return f.releaseErr
	}
	f.mu.Lock()
	f.released = append(f.released, key)
	f.mu.Unlock()
	return f.StockCatalog.Release(ctx, key, quantity)
}

// faultyLedger wraps an OrderLedger and can fail order creation.
type faultyLedger struct {
	OrderLedger
	createErr error
	deleted   []string
}

func (f *faultyLedger) CreateOrder(ctx context.Context, order *domain.Order) error {
	if f.createErr != nil {
		return f.createErr
	}
	return f.OrderLedger.CreateOrder(ctx, order)
}

func (f *faultyLedger) DeleteOrder(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return f.OrderLedger.DeleteOrder(ctx, id)
}

// faultyCart wraps a CheckoutCart and can fail clearing.
type faultyCart struct {
	CheckoutCart
	clearErr error
	clears   int
}

func (f *faultyCart) ClearCart(ctx context.Context, userID string) error {
	f.clears++
	if f.clearErr != nil {
		return f.clearErr
	}
	return f.CheckoutCart.ClearCart(ctx, userID)
}

// countingOrders records every ledger call; used to prove that rejected
// requests never reach a store.
type countingOrders struct {
	OrderLedger
	calls int
}

func (c *countingOrders) GetOrderByIdempotencyKey(ctx context.Context, userID, key string) (*domain.Order, error) {
	c.calls++
	return c.OrderLedger.GetOrderByIdempotencyKey(ctx, userID, key)
}

func (c *countingOrders) CreateOrder(ctx context.Context, order *domain.Order) error {
	c.calls++
	return c.OrderLedger.CreateOrder(ctx, order)
}

type fixture struct {
	store   *store.MemoryStore
	carts   *CartService
	catalog *faultyCatalog
	ledger  *faultyLedger
	cart    *faultyCart
	svc     *CheckoutServiceImpl
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := store.NewMemoryStore()
	carts := NewCartService(s, s, newMockCache())

	f := &fixture{
		store:   s,
		carts:   carts,
		catalog: newFaultyCatalog(s),
		ledger:  &faultyLedger{OrderLedger: s},
		cart:    &faultyCart{CheckoutCart: carts},
	}
	f.svc = NewCheckoutService(f.cart, f.catalog, f.ledger, DefaultPricing())
	return f
}

// addProduct creates an active product with one variant per label.
func (f *fixture) addProduct(t *testing.T, slug, price string, stock int, labels ...string) *domain.Product {
	t.Helper()
	if len(labels) == 0 {
		labels = []string{"250g"}
	}
	product := &domain.Product{Name: slug, Slug: slug, IsActive: true, MainImage: slug + ".jpg"}
	for _, label := range labels {
		product.UnitVariants = append(product.UnitVariants, domain.UnitVariant{
			Label:         label,
			WeightInGrams: 250,
			Price:         decimal.RequireFromString(price),
			Stock:         stock,
		})
	}
	require.NoError(t, f.store.CreateProduct(context.Background(), product))
	return product
}

func (f *fixture) addToCart(t *testing.T, userID string, product *domain.Product, label string, quantity int) {
	t.Helper()
	_, err := f.carts.AddItem(context.Background(), userID, AddItemInput{
		ProductID: product.ID,
		UnitLabel: label,
		Quantity:  quantity,
	})
	require.NoError(t, err)
}

func (f *fixture) stockOf(t *testing.T, productID, label string) int {
	t.Helper()
	product, err := f.store.GetProduct(context.Background(), productID)
	require.NoError(t, err)
	variant, ok := product.Variant(label)
	require.True(t, ok)
	return variant.Stock
}

func (f *fixture) cartOf(t *testing.T, userID string) *domain.Cart {
	t.Helper()
	cart, err := f.store.GetCart(context.Background(), userID)
	require.NoError(t, err)
	return cart
}

func validAddress() domain.Address {
	return domain.Address{
		FullName:   "Asha Menon",
		Phone:      "9876543210",
		Line1:      "12 Beach Road",
		City:       "Kochi",
		State:      "Kerala",
		PostalCode: "682001",
	}
}

func placeRequest(userID string) *PlaceOrderRequest {
	return &PlaceOrderRequest{
		UserID:        userID,
		Address:       validAddress(),
		PaymentMethod: domain.PaymentCOD,
	}
}

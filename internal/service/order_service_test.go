package service

import (
	"context"
	"testing"

	"github.com/mudhasirp/Leather-Ecommerce-API/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func placeTestOrder(t *testing.T, f *fixture, userID string, quantity int) (*domain.Order, *domain.Product) {
	t.Helper()
	product := f.addProduct(t, "pepper-"+userID, "100", 10)
	f.addToCart(t, userID, product, "250g", quantity)
	order, err := f.svc.PlaceOrder(context.Background(), placeRequest(userID))
	require.NoError(t, err)
	return order, product
}

func TestOrderService_ListMyOrders_NewestFirst(t *testing.T) {
	f := newFixture(t)
	svc := NewOrderService(f.store, f.store)

	first, _ := placeTestOrder(t, f, "user-1", 1)
	product := f.addProduct(t, "cumin", "20", 5)
	f.addToCart(t, "user-1", product, "250g", 1)
	second, err := f.svc.PlaceOrder(context.Background(), placeRequest("user-1"))
	require.NoError(t, err)
	placeTestOrder(t, f, "user-2", 1)

	summaries, err := svc.ListMyOrders(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, second.ID, summaries[0].ID)
	assert.Equal(t, first.ID, summaries[1].ID)
	assert.Equal(t, domain.OrderStatusPlaced, summaries[0].Status)
	assert.False(t, summaries[0].IsPaid)
	assert.True(t, second.TotalAmount.Equal(summaries[0].TotalAmount))
}

func TestOrderService_GetOrder_OwnerOnly(t *testing.T) {
	f := newFixture(t)
	svc := NewOrderService(f.store, f.store)
	order, _ := placeTestOrder(t, f, "user-1", 1)
	ctx := context.Background()

	got, err := svc.GetOrder(ctx, "user-1", false, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	_, err = svc.GetOrder(ctx, "user-2", false, order.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err = svc.GetOrder(ctx, "admin-1", true, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	_, err = svc.GetOrder(ctx, "user-1", false, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOrderService_UpdateStatus_Lifecycle(t *testing.T) {
	f := newFixture(t)
	svc := NewOrderService(f.store, f.store)
	order, _ := placeTestOrder(t, f, "user-1", 1)
	ctx := context.Background()

	for _, next := range []domain.OrderStatus{
		domain.OrderStatusConfirmed,
		domain.OrderStatusShipped,
		domain.OrderStatusDelivered,
	} {
		updated, err := svc.UpdateStatus(ctx, order.ID, next)
		require.NoError(t, err)
		assert.Equal(t, next, updated.Status)
	}

	_, err := svc.UpdateStatus(ctx, order.ID, domain.OrderStatusCancelled)
	var illegal *IllegalTransitionError
	require.ErrorAs(t, err, &illegal)
	assert.ErrorIs(t, err, ErrIllegalTransition)
	assert.Equal(t, "Delivered", illegal.From)
}

func TestOrderService_UpdateStatus_Rejections(t *testing.T) {
	f := newFixture(t)
	svc := NewOrderService(f.store, f.store)
	order, _ := placeTestOrder(t, f, "user-1", 1)
	ctx := context.Background()

	_, err := svc.UpdateStatus(ctx, order.ID, "Lost")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.UpdateStatus(ctx, order.ID, domain.OrderStatusDelivered)
	assert.ErrorIs(t, err, ErrIllegalTransition)

	_, err = svc.UpdateStatus(ctx, "missing", domain.OrderStatusConfirmed)
	assert.ErrorIs(t, err, ErrNotFound)

	same, err := svc.UpdateStatus(ctx, order.ID, domain.OrderStatusPlaced)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPlaced, same.Status)
}

func TestOrderService_CancelRestocks(t *testing.T) {
	f := newFixture(t)
	svc := NewOrderService(f.store, f.store)
	order, product := placeTestOrder(t, f, "user-1", 4)
	require.Equal(t, 6, f.stockOf(t, product.ID, "250g"))

	updated, err := svc.UpdateStatus(context.Background(), order.ID, domain.OrderStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, updated.Status)
	assert.Equal(t, 10, f.stockOf(t, product.ID, "250g"))

	// a second cancel is a no-op and does not restock again
	_, err = svc.UpdateStatus(context.Background(), order.ID, domain.OrderStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, 10, f.stockOf(t, product.ID, "250g"))
}

func TestOrderService_MarkPaid(t *testing.T) {
	f := newFixture(t)
	svc := NewOrderService(f.store, f.store)
	order, _ := placeTestOrder(t, f, "user-1", 1)

	paid, err := svc.MarkPaid(context.Background(), order.ID)
	require.NoError(t, err)
	assert.True(t, paid.IsPaid)

	_, err = svc.MarkPaid(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

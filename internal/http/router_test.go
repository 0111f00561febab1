package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/mudhasirp/Leather-Ecommerce-API/internal/cache"
	"github.com/mudhasirp/Leather-Ecommerce-API/internal/domain"
	"github.com/mudhasirp/Leather-Ecommerce-API/internal/service"
	"github.com/mudhasirp/Leather-Ecommerce-API/internal/store"
	"github.com/mudhasirp/Leather-Ecommerce-API/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	handler http.Handler
	store   *store.MemoryStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWithCheckout(t, nil)
}

func newTestServerWithCheckout(t *testing.T, checkout service.CheckoutService) *testServer {
	t.Helper()
	s := store.NewMemoryStore()
	carts := service.NewCartService(s, s, cache.NopCache{})
	if checkout == nil {
		checkout = service.NewCheckoutService(carts, s, s, service.DefaultPricing())
	}

	handler := NewRouter(Services{
		Checkout:  checkout,
		Orders:    service.NewOrderService(s, s),
		Carts:     carts,
		Catalog:   service.NewCatalogService(s),
		Enquiries: service.NewEnquiryService(s, s, s),
		Addresses: service.NewAddressService(s),
		Pricing:   service.DefaultPricing(),
	}, RouterConfig{
		Service:      "test",
		Logger:       zerolog.Nop(),
		Metrics:      metrics.NewServerMetrics(prometheus.NewRegistry(), "test"),
		MaxBodyBytes: 1 << 20,
	})
	return &testServer{handler: handler, store: s}
}

func (ts *testServer) do(t *testing.T, method, path, userID string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
		req.Header.Set("X-User-Name", "Test User")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) addProduct(t *testing.T, slug string, price int64, stock int, label string) *domain.Product {
	t.Helper()
	p := &domain.Product{
		Name:     slug,
		Slug:     slug,
		IsActive: true,
		UnitVariants: []domain.UnitVariant{
			{Label: label, WeightInGrams: 250, Price: decimal.NewFromInt(price), Stock: stock},
		},
	}
	require.NoError(t, ts.store.CreateProduct(context.Background(), p))
	return p
}

func (ts *testServer) addToCart(t *testing.T, userID string, p *domain.Product, label string, quantity int) {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/cart/items", userID, map[string]any{
		"productId": p.ID,
		"unitLabel": label,
		"quantity":  quantity,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func orderBody() map[string]any {
	return map[string]any{
		"address": map[string]any{
			"fullName":   "Asha Menon",
			"phone":      "9876543210",
			"line1":      "12 Beach Road",
			"city":       "Kochi",
			"state":      "Kerala",
			"postalCode": "682001",
		},
		"paymentMethod": "upi",
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestPlaceOrder_Created(t *testing.T) {
	ts := newTestServer(t)
	p := ts.addProduct(t, "pepper", 150, 10, "250g")
	ts.addToCart(t, "user-1", p, "250g", 3)

	rec := ts.do(t, http.MethodPost, "/orders", "user-1", orderBody())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var order domain.Order
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&order))
	assert.True(t, decimal.NewFromInt(490).Equal(order.TotalAmount))
	assert.True(t, decimal.NewFromInt(40).Equal(order.DeliveryFee))
	assert.Equal(t, domain.PaymentUPI, order.PaymentMethod)
	assert.Equal(t, domain.OrderStatusPlaced, order.Status)

	rec = ts.do(t, http.MethodGet, "/orders/mine", "user-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var summaries []domain.OrderSummary
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, order.ID, summaries[0].ID)
}

func TestResponses_UseCamelCaseKeys(t *testing.T) {
	ts := newTestServer(t)
	p := ts.addProduct(t, "pepper", 150, 10, "250g")
	ts.addToCart(t, "user-1", p, "250g", 1)

	rec := ts.do(t, http.MethodGet, "/cart", "user-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var cart map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&cart))
	assert.Contains(t, cart, "userId")
	item := cart["items"].([]any)[0].(map[string]any)
	assert.Contains(t, item, "productId")
	assert.Contains(t, item, "unitLabel")
	assert.NotContains(t, item, "product_id")

	rec = ts.do(t, http.MethodPost, "/orders", "user-1", orderBody())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var order map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&order))
	for _, key := range []string{"paymentMethod", "deliveryFee", "totalAmount", "isPaid", "createdAt"} {
		assert.Contains(t, order, key)
	}
	assert.Contains(t, order["address"], "postalCode")

	rec = ts.do(t, http.MethodGet, "/orders/mine", "user-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var summaries []map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&summaries))
	require.Len(t, summaries, 1)
	for _, key := range []string{"id", "status", "isPaid", "totalAmount", "createdAt"} {
		assert.Contains(t, summaries[0], key)
	}
	assert.NotContains(t, summaries[0], "total_amount")
}

func TestPlaceOrder_IdempotencyKey(t *testing.T) {
	ts := newTestServer(t)
	p := ts.addProduct(t, "pepper", 150, 10, "250g")
	ts.addToCart(t, "user-1", p, "250g", 1)

	first := ts.do(t, http.MethodPost, "/orders", "user-1", orderBody(), "Idempotency-Key", "k-1")
	require.Equal(t, http.StatusCreated, first.Code)
	second := ts.do(t, http.MethodPost, "/orders", "user-1", orderBody(), "Idempotency-Key", "k-1")
	require.Equal(t, http.StatusCreated, second.Code)

	var a, b domain.Order
	require.NoError(t, json.NewDecoder(first.Body).Decode(&a))
	require.NoError(t, json.NewDecoder(second.Body).Decode(&b))
	assert.Equal(t, a.ID, b.ID)
}

func TestPlaceOrder_ErrorMapping(t *testing.T) {
	t.Run("empty cart", func(t *testing.T) {
		ts := newTestServer(t)
		rec := ts.do(t, http.MethodPost, "/orders", "user-1", orderBody())
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "empty_cart", decodeError(t, rec).Code)
	})

	t.Run("validation", func(t *testing.T) {
		ts := newTestServer(t)
		body := orderBody()
		body["address"].(map[string]any)["postalCode"] = "12"
		rec := ts.do(t, http.MethodPost, "/orders", "user-1", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		resp := decodeError(t, rec)
		assert.Equal(t, "validation_failed", resp.Code)
		details := resp.Details.([]any)
		require.Len(t, details, 1)
		assert.Equal(t, "postalCode", details[0].(map[string]any)["field"])
	})

	t.Run("insufficient stock", func(t *testing.T) {
		ts := newTestServer(t)
		p := ts.addProduct(t, "pepper", 150, 10, "250g")
		ts.addToCart(t, "user-1", p, "250g", 4)
		require.NoError(t, ts.store.SetVariantStock(context.Background(), domain.VariantKey{ProductID: p.ID, Label: "250g"}, 1))

		rec := ts.do(t, http.MethodPost, "/orders", "user-1", orderBody())
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeError(t, rec)
		assert.Equal(t, "insufficient_stock", resp.Code)
		details := resp.Details.(map[string]any)
		assert.EqualValues(t, 4, details["requested"])
		assert.EqualValues(t, 1, details["available"])
	})

	t.Run("unknown field", func(t *testing.T) {
		ts := newTestServer(t)
		body := orderBody()
		body["coupon"] = "FREE"
		rec := ts.do(t, http.MethodPost, "/orders", "user-1", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "invalid_request", decodeError(t, rec).Code)
	})

	t.Run("unexpected error", func(t *testing.T) {
		ts := newTestServerWithCheckout(t, failingCheckout{err: errors.New("mongo: connection reset")})
		rec := ts.do(t, http.MethodPost, "/orders", "user-1", orderBody())
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		resp := decodeError(t, rec)
		assert.Equal(t, "internal_error", resp.Code)
		assert.NotContains(t, resp.Error, "mongo")
	})

	t.Run("unavailable product", func(t *testing.T) {
		ts := newTestServerWithCheckout(t, failingCheckout{err: &service.ProductUnavailableError{ProductID: "p1"}})
		rec := ts.do(t, http.MethodPost, "/orders", "user-1", orderBody())
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "product_unavailable", decodeError(t, rec).Code)
	})
}

type failingCheckout struct {
	err error
}

func (f failingCheckout) PlaceOrder(context.Context, *service.PlaceOrderRequest) (*domain.Order, error) {
	return nil, f.err
}

func TestAuth(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/orders/mine", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(t, http.MethodGet, "/admin/orders", "user-1", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(t, http.MethodGet, "/admin/orders", "admin-1", nil, "X-User-Role", "admin")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestGetOrder_OtherUserGetsNotFound(t *testing.T) {
	ts := newTestServer(t)
	p := ts.addProduct(t, "pepper", 150, 10, "250g")
	ts.addToCart(t, "user-1", p, "250g", 1)
	rec := ts.do(t, http.MethodPost, "/orders", "user-1", orderBody())
	require.Equal(t, http.StatusCreated, rec.Code)
	var order domain.Order
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&order))

	rec = ts.do(t, http.MethodGet, "/orders/"+order.ID, "user-2", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodGet, "/orders/"+order.ID, "user-1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCart_Flow(t *testing.T) {
	ts := newTestServer(t)
	p := ts.addProduct(t, "ghee", 250, 10, "500 g")
	ts.addToCart(t, "user-1", p, "500 g", 1)

	rec := ts.do(t, http.MethodGet, "/cart", "user-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var cart map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&cart))
	assert.Equal(t, "250", cart["subtotal"])
	assert.Equal(t, "40", cart["deliveryFee"])
	assert.Equal(t, "290", cart["total"])

	path := "/cart/items/" + p.ID + "/" + url.PathEscape("500 g")
	rec = ts.do(t, http.MethodPatch, path, "user-1", map[string]int{"quantity": 2})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&cart))
	assert.Equal(t, "500", cart["subtotal"])
	assert.Equal(t, "0", cart["deliveryFee"])

	rec = ts.do(t, http.MethodDelete, path, "user-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodDelete, "/cart", "user-1", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(t, http.MethodDelete, "/cart", "user-2", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAdmin_OrderStatus(t *testing.T) {
	ts := newTestServer(t)
	p := ts.addProduct(t, "pepper", 150, 10, "250g")
	ts.addToCart(t, "user-1", p, "250g", 2)
	rec := ts.do(t, http.MethodPost, "/orders", "user-1", orderBody())
	require.Equal(t, http.StatusCreated, rec.Code)
	var order domain.Order
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&order))

	admin := []string{"X-User-Role", "admin"}

	rec = ts.do(t, http.MethodPatch, "/admin/orders/"+order.ID+"/status", "admin-1", map[string]string{"status": "Delivered"}, admin...)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "illegal_transition", decodeError(t, rec).Code)

	rec = ts.do(t, http.MethodPatch, "/admin/orders/"+order.ID+"/status", "admin-1", map[string]string{"status": "Cancelled"}, admin...)
	require.Equal(t, http.StatusOK, rec.Code)

	product, err := ts.store.GetProduct(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, product.UnitVariants[0].Stock)

	rec = ts.do(t, http.MethodPost, "/admin/orders/"+order.ID+"/paid", "admin-1", nil, admin...)
	require.Equal(t, http.StatusOK, rec.Code)
	var paid domain.Order
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&paid))
	assert.True(t, paid.IsPaid)
}

func TestAdmin_Catalog(t *testing.T) {
	ts := newTestServer(t)
	admin := []string{"X-User-Role", "admin"}

	rec := ts.do(t, http.MethodPost, "/admin/products", "admin-1", map[string]any{
		"name": "Wild Honey",
		"unitVariants": []map[string]any{
			{"label": "250 g", "weightInGrams": 250, "price": "320", "stock": 3},
		},
	}, admin...)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var product domain.Product
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&product))
	assert.Equal(t, "wild-honey", product.Slug)

	path := "/admin/products/" + product.ID + "/variants/" + url.PathEscape("250 g") + "/stock"
	rec = ts.do(t, http.MethodPut, path, "admin-1", map[string]int{"stock": 12}, admin...)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&product))
	assert.Equal(t, 12, product.UnitVariants[0].Stock)

	rec = ts.do(t, http.MethodGet, "/products/"+product.ID, "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/products/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEnquiries(t *testing.T) {
	ts := newTestServer(t)
	p := ts.addProduct(t, "saffron", 499, 2, "1g")

	rec := ts.do(t, http.MethodPost, "/enquiries", "user-1", map[string]string{
		"productId": p.ID,
		"message":   "Do you ship to Dubai?",
		"phone":     "9876543210",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var enquiry domain.Enquiry
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&enquiry))
	assert.Equal(t, "Test User", enquiry.Username)
	assert.Equal(t, domain.EnquiryStatusNew, enquiry.Status)

	admin := []string{"X-User-Role", "admin"}
	rec = ts.do(t, http.MethodPatch, "/admin/enquiries/"+enquiry.ID+"/status", "admin-1", map[string]string{"status": "Closed"}, admin...)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodPatch, "/admin/enquiries/"+enquiry.ID+"/status", "admin-1", map[string]string{"status": "Contacted"}, admin...)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddresses(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/addresses/default", "user-1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodPost, "/addresses", "user-1", map[string]any{
		"address":   orderBody()["address"],
		"isDefault": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodGet, "/addresses/default", "user-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var saved domain.SavedAddress
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&saved))
	assert.Equal(t, "Kochi", saved.Address.City)
}

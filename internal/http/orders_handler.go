package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/mudhasirp/Leather-Ecommerce-API/internal/domain"
	"github.com/mudhasirp/Leather-Ecommerce-API/internal/service"
)

type OrderService interface {
	ListMyOrders(ctx context.Context, userID string) ([]domain.OrderSummary, error)
	GetOrder(ctx context.Context, userID string, isAdmin bool, id string) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
	MarkPaid(ctx context.Context, id string) (*domain.Order, error)
}

type OrdersHandler struct {
	checkout service.CheckoutService
	orders   OrderService
}

func NewOrdersHandler(checkout service.CheckoutService, orders OrderService) *OrdersHandler {
	return &OrdersHandler{checkout: checkout, orders: orders}
}

type PlaceOrderRequestDTO struct {
	Address       domain.Address `json:"address"`
	PaymentMethod string         `json:"paymentMethod"`
}

type UpdateStatusRequestDTO struct {
	Status string `json:"status"`
}

// POST /orders
func (h *OrdersHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	user, _ := userFromContext(r.Context())

	var req PlaceOrderRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	order, err := h.checkout.PlaceOrder(r.Context(), &service.PlaceOrderRequest{
		UserID:         user.ID,
		Address:        req.Address,
		PaymentMethod:  domain.PaymentMethod(req.PaymentMethod),
		IdempotencyKey: strings.TrimSpace(r.Header.Get("Idempotency-Key")),
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, order)
}

// GET /orders/mine
func (h *OrdersHandler) ListMyOrders(w http.ResponseWriter, r *http.Request) {
	user, _ := userFromContext(r.Context())

	summaries, err := h.orders.ListMyOrders(r.Context(), user.ID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, summaries)
}

// GET /orders/{id}
func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	user, _ := userFromContext(r.Context())

	order, err := h.orders.GetOrder(r.Context(), user.ID, user.IsAdmin, pathParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

// GET /admin/orders
func (h *OrdersHandler) ListAllOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListOrders(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if orders == nil {
		orders = []*domain.Order{}
	}
	respondJSON(w, http.StatusOK, orders)
}

// PATCH /admin/orders/{id}/status
func (h *OrdersHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), pathParam(r, "id"), domain.OrderStatus(req.Status))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

// POST /admin/orders/{id}/paid
func (h *OrdersHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.MarkPaid(r.Context(), pathParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

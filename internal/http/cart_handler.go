package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/mudhasirp/Leather-Ecommerce-API/internal/domain"
	"github.com/mudhasirp/Leather-Ecommerce-API/internal/repository"
	"github.com/mudhasirp/Leather-Ecommerce-API/internal/service"
	"github.com/shopspring/decimal"
)

type CartService interface {
	GetCart(ctx context.Context, userID string) (*domain.Cart, error)
	AddItem(ctx context.Context, userID string, in service.AddItemInput) (*domain.Cart, error)
	UpdateQuantity(ctx context.Context, userID, productID, unitLabel string, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, userID, productID, unitLabel string) (*domain.Cart, error)
	ClearCart(ctx context.Context, userID string) error
}

type CartHandler struct {
	carts   CartService
	pricing service.Pricing
}

func NewCartHandler(carts CartService, pricing service.Pricing) *CartHandler {
	return &CartHandler{carts: carts, pricing: pricing}
}

// CartResponse is the cart with the delivery fee and total it would be
// charged at checkout.
type CartResponse struct {
	*domain.Cart
	DeliveryFee decimal.Decimal `json:"deliveryFee"`
	Total       decimal.Decimal `json:"total"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) respondCart(w http.ResponseWriter, cart *domain.Cart) {
	totals := h.pricing.Quote(cart.Items)
	respondJSON(w, http.StatusOK, CartResponse{
		Cart:        cart,
		DeliveryFee: totals.DeliveryFee,
		Total:       totals.Total,
	})
}

// GET /cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	user, _ := userFromContext(r.Context())

	cart, err := h.carts.GetCart(r.Context(), user.ID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	h.respondCart(w, cart)
}

// POST /cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	user, _ := userFromContext(r.Context())

	var req service.AddItemInput
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	cart, err := h.carts.AddItem(r.Context(), user.ID, req)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	h.respondCart(w, cart)
}

// PATCH /cart/items/{productID}/{unitLabel}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	user, _ := userFromContext(r.Context())

	var req UpdateQuantityRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	cart, err := h.carts.UpdateQuantity(r.Context(), user.ID,
		pathParam(r, "productID"), pathParam(r, "unitLabel"), req.Quantity)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	h.respondCart(w, cart)
}

// DELETE /cart/items/{productID}/{unitLabel}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	user, _ := userFromContext(r.Context())

	cart, err := h.carts.RemoveItem(r.Context(), user.ID, pathParam(r, "productID"), pathParam(r, "unitLabel"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	h.respondCart(w, cart)
}

// DELETE /cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	user, _ := userFromContext(r.Context())

	err := h.carts.ClearCart(r.Context(), user.ID)
	if err != nil && !errors.Is(err, repository.ErrCartNotFound) {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

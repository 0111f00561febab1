package http

import (
	"context"
	"net/http"

	"github.com/mudhasirp/Leather-Ecommerce-API/internal/domain"
	"github.com/mudhasirp/Leather-Ecommerce-API/internal/service"
)

type CatalogService interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListProducts(ctx context.Context, activeOnly bool) ([]*domain.Product, error)
	CreateProduct(ctx context.Context, in service.CreateProductInput) (*domain.Product, error)
	SetVariantStock(ctx context.Context, productID, label string, stock int) (*domain.Product, error)
}

type ProductHandler struct {
	catalog CatalogService
}

func NewProductHandler(catalog CatalogService) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

type SetStockRequestDTO struct {
	Stock int `json:"stock"`
}

// GET /products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	user, _ := userFromContext(r.Context())

	products, err := h.catalog.ListProducts(r.Context(), !user.IsAdmin)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if products == nil {
		products = []*domain.Product{}
	}
	respondJSON(w, http.StatusOK, products)
}

// GET /products/{id}
// Inactive products are hidden from everyone but admins.
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	user, _ := userFromContext(r.Context())

	product, err := h.catalog.GetProduct(r.Context(), pathParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if !product.IsActive && !user.IsAdmin {
		respondError(w, http.StatusNotFound, "not_found", "resource not found")
		return
	}
	respondJSON(w, http.StatusOK, product)
}

// POST /admin/products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req service.CreateProductInput
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	product, err := h.catalog.CreateProduct(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, product)
}

// PUT /admin/products/{id}/variants/{label}/stock
func (h *ProductHandler) SetVariantStock(w http.ResponseWriter, r *http.Request) {
	var req SetStockRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	product, err := h.catalog.SetVariantStock(r.Context(), pathParam(r, "id"), pathParam(r, "label"), req.Stock)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

package http

import (
	"context"
	"net/http"

	"github.com/mudhasirp/Leather-Ecommerce-API/internal/domain"
)

type AddressService interface {
	SaveAddress(ctx context.Context, userID string, address domain.Address, isDefault bool) (*domain.SavedAddress, error)
	GetDefaultAddress(ctx context.Context, userID string) (*domain.SavedAddress, error)
}

type AddressHandler struct {
	addresses AddressService
}

func NewAddressHandler(addresses AddressService) *AddressHandler {
	return &AddressHandler{addresses: addresses}
}

type SaveAddressRequestDTO struct {
	Address   domain.Address `json:"address"`
	IsDefault bool           `json:"isDefault"`
}

// POST /addresses
func (h *AddressHandler) SaveAddress(w http.ResponseWriter, r *http.Request) {
	user, _ := userFromContext(r.Context())

	var req SaveAddressRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	saved, err := h.addresses.SaveAddress(r.Context(), user.ID, req.Address, req.IsDefault)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, saved)
}

// GET /addresses/default
func (h *AddressHandler) GetDefaultAddress(w http.ResponseWriter, r *http.Request) {
	user, _ := userFromContext(r.Context())

	address, err := h.addresses.GetDefaultAddress(r.Context(), user.ID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, address)
}

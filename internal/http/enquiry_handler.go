package http

import (
	"context"
	"net/http"

	"github.com/mudhasirp/Leather-Ecommerce-API/internal/domain"
	"github.com/mudhasirp/Leather-Ecommerce-API/internal/service"
)

type EnquiryService interface {
	CreateEnquiry(ctx context.Context, in service.CreateEnquiryInput) (*domain.Enquiry, error)
	ListEnquiries(ctx context.Context) ([]*domain.Enquiry, error)
	UpdateStatus(ctx context.Context, id string, status domain.EnquiryStatus) (*domain.Enquiry, error)
}

type EnquiryHandler struct {
	enquiries EnquiryService
}

func NewEnquiryHandler(enquiries EnquiryService) *EnquiryHandler {
	return &EnquiryHandler{enquiries: enquiries}
}

// POST /enquiries
func (h *EnquiryHandler) CreateEnquiry(w http.ResponseWriter, r *http.Request) {
	user, _ := userFromContext(r.Context())

	var req service.CreateEnquiryInput
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	req.UserID = user.ID
	req.Username = user.Name

	enquiry, err := h.enquiries.CreateEnquiry(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, enquiry)
}

// GET /admin/enquiries
func (h *EnquiryHandler) ListEnquiries(w http.ResponseWriter, r *http.Request) {
	enquiries, err := h.enquiries.ListEnquiries(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if enquiries == nil {
		enquiries = []*domain.Enquiry{}
	}
	respondJSON(w, http.StatusOK, enquiries)
}

// PATCH /admin/enquiries/{id}/status
func (h *EnquiryHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	enquiry, err := h.enquiries.UpdateStatus(r.Context(), pathParam(r, "id"), domain.EnquiryStatus(req.Status))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, enquiry)
}

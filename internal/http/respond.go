package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/mudhasirp/Leather-Ecommerce-API/internal/service"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

type StockDetails struct {
	ProductID string `json:"productId"`
	UnitLabel string `json:"unitLabel"`
	Name      string `json:"name,omitempty"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// respondServiceError translates service errors into HTTP responses.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr        *service.ValidationError
		stockErr    *service.InsufficientStockError
		unavailable *service.ProductUnavailableError
		transition  *service.IllegalTransitionError
	)

	switch {
	case errors.As(err, &verr):
		respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation failed",
			Code:    "validation_failed",
			Details: verr.Violations,
		})
	case errors.Is(err, service.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", err.Error())
	case errors.As(err, &stockErr):
		respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: stockErr.Error(),
			Code:  "insufficient_stock",
			Details: StockDetails{
				ProductID: stockErr.ProductID,
				UnitLabel: stockErr.UnitLabel,
				Name:      stockErr.Name,
				Requested: stockErr.Requested,
				Available: stockErr.Available,
			},
		})
	case errors.As(err, &unavailable):
		respondError(w, http.StatusNotFound, "product_unavailable", unavailable.Error())
	case errors.As(err, &transition):
		respondError(w, http.StatusBadRequest, "illegal_transition", transition.Error())
	case errors.Is(err, service.ErrNotFound):
		respondError(w, http.StatusNotFound, "not_found", "resource not found")
	default:
		hlog.FromRequest(r).Error().Err(err).Msg("request failed")
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// decodeJSON reads a single JSON object from the body.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("request body exceeds %d bytes", maxErr.Limit)
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// pathParam returns the unescaped value of a route parameter. Unit labels
// such as "500 g" arrive percent-encoded.
func pathParam(r *http.Request, name string) string {
	raw := chi.URLParam(r, name)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

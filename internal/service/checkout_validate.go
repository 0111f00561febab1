package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mudhasirp/Leather-Ecommerce-API/internal/domain"
	"github.com/mudhasirp/Leather-Ecommerce-API/internal/repository"
)

// validateRequest checks the request without touching any store. An empty
// payment method means cash on delivery.
func (s *CheckoutServiceImpl) validateRequest(req *PlaceOrderRequest) (domain.PaymentMethod, error) {
	verr := &ValidationError{}

	if strings.TrimSpace(req.UserID) == "" {
		verr.Violations = append(verr.Violations, FieldViolation{Field: "userId", Reason: "is required"})
	}

	if err := validateStruct(req.Address); err != nil {
		var addrErr *ValidationError
		if !errors.As(err, &addrErr) {
			return "", err
		}
		verr.Violations = append(verr.Violations, addrErr.Violations...)
	}

	method := domain.PaymentMethod(strings.ToUpper(strings.TrimSpace(string(req.PaymentMethod))))
	if method == "" {
		method = domain.PaymentCOD
	}
	if !method.IsValid() {
		verr.Violations = append(verr.Violations, FieldViolation{
			Field:  "paymentMethod",
			Reason: "must be one of COD, UPI, CARD",
		})
	}

	if len(verr.Violations) > 0 {
		return "", verr
	}
	return method, nil
}

// checkStock re-reads every product so that a cart which obviously cannot
// be fulfilled fails before any write. It is advisory only: stock may
// still run out before reservation.
func (s *CheckoutServiceImpl) checkStock(ctx context.Context, items []domain.CartItem) error {
	for _, item := range items {
		product, err := s.catalog.GetProduct(ctx, item.ProductID)
		if errors.Is(err, repository.ErrProductNotFound) {
			return &ProductUnavailableError{ProductID: item.ProductID, Name: item.Name}
		}
		if err != nil {
			return fmt.Errorf("failed to load product %s: %w", item.ProductID, err)
		}

		variant, ok := product.Variant(item.UnitLabel)
		if !ok {
			return &ProductUnavailableError{ProductID: item.ProductID, UnitLabel: item.UnitLabel, Name: product.Name}
		}
		if variant.Stock < item.Quantity {
			return &InsufficientStockError{
				ProductID: item.ProductID,
				UnitLabel: item.UnitLabel,
				Name:      product.Name,
				Requested: item.Quantity,
				Available: variant.Stock,
			}
		}
	}
	return nil
}

func trimAddress(a domain.Address) domain.Address {
	return domain.Address{
		FullName:   strings.TrimSpace(a.FullName),
		Phone:      strings.TrimSpace(a.Phone),
		Line1:      strings.TrimSpace(a.Line1),
		Line2:      strings.TrimSpace(a.Line2),
		City:       strings.TrimSpace(a.City),
		State:      strings.TrimSpace(a.State),
		PostalCode: strings.TrimSpace(a.PostalCode),
		Country:    strings.TrimSpace(a.Country),
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mudhasirp/Leather-Ecommerce-API/internal/domain"
	"github.com/mudhasirp/Leather-Ecommerce-API/internal/repository"
	"github.com/mudhasirp/Leather-Ecommerce-API/pkg/logger"
)

const minEnquiryMessageLength = 10

type CreateEnquiryInput struct {
	UserID    string `json:"-"`
	Username  string `json:"-"`
	ProductID string `json:"productId" validate:"notblank"`
	Message   string `json:"message" validate:"notblank"`
	Phone     string `json:"phone" validate:"phone"`
}

type EnquiryService struct {
	enquiries repository.EnquiryRepository
	products  ProductReader
	addresses repository.AddressRepository
}

func NewEnquiryService(enquiries repository.EnquiryRepository, products ProductReader, addresses repository.AddressRepository) *EnquiryService {
	return &EnquiryService{
		enquiries: enquiries,
		products:  products,
		addresses: addresses,
	}
}

// CreateEnquiry records a product question with snapshots of the product
// and of the user's default address, when there is one.
func (s *EnquiryService) CreateEnquiry(ctx context.Context, in CreateEnquiryInput) (*domain.Enquiry, error) {
	in.Message = strings.TrimSpace(in.Message)
	in.Phone = strings.TrimSpace(in.Phone)

	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if len([]rune(in.Message)) < minEnquiryMessageLength {
		return nil, newValidationError("message", fmt.Sprintf("must be at least %d characters", minEnquiryMessageLength))
	}

	product, err := s.products.GetProduct(ctx, in.ProductID)
	if errors.Is(err, repository.ErrProductNotFound) {
		return nil, &ProductUnavailableError{ProductID: in.ProductID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}

	enquiry := &domain.Enquiry{
		UserID:    in.UserID,
		Username:  in.Username,
		UserPhone: in.Phone,
		Product: domain.EnquiryProduct{
			ProductID: product.ID,
			Name:      product.Name,
			Image:     product.MainImage,
		},
		Message: in.Message,
		Status:  domain.EnquiryStatusNew,
	}

	address, err := s.addresses.GetDefaultAddress(ctx, in.UserID)
	switch {
	case err == nil:
		enquiry.UserAddress = domain.NewEnquiryAddress(address.Address)
	case !errors.Is(err, repository.ErrAddressNotFound):
		return nil, fmt.Errorf("failed to load default address: %w", err)
	}

	if err := s.enquiries.CreateEnquiry(ctx, enquiry); err != nil {
		return nil, fmt.Errorf("failed to create enquiry: %w", err)
	}

	logger.Ctx(ctx).Info().
		Str("enquiry_id", enquiry.ID).
		Str("product_id", product.ID).
		Msg("enquiry created")
	return enquiry, nil
}

func (s *EnquiryService) ListEnquiries(ctx context.Context) ([]*domain.Enquiry, error) {
	return s.enquiries.ListEnquiries(ctx)
}

func (s *EnquiryService) UpdateStatus(ctx context.Context, id string, status domain.EnquiryStatus) (*domain.Enquiry, error) {
	if !status.IsValid() {
		return nil, newValidationError("status", "must be one of New, Contacted, Closed")
	}

	enquiry, err := s.enquiries.GetEnquiry(ctx, id)
	if errors.Is(err, repository.ErrEnquiryNotFound) {
		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	if err != nil {
		return nil, err
	}
	if enquiry.Status == status {
		return enquiry, nil
	}
	if !enquiry.Status.CanTransitionTo(status) {
		return nil, &IllegalTransitionError{From: string(enquiry.Status), To: string(status)}
	}

	if err := s.enquiries.UpdateEnquiryStatus(ctx, id, status); err != nil {
		return nil, err
	}
	enquiry.Status = status
	return enquiry, nil
}

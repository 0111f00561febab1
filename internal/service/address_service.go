package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/mudhasirp/Leather-Ecommerce-API/internal/domain"
	"github.com/mudhasirp/Leather-Ecommerce-API/internal/repository"
)

type AddressService struct {
	addresses repository.AddressRepository
}

func NewAddressService(addresses repository.AddressRepository) *AddressService {
	return &AddressService{addresses: addresses}
}

// SaveAddress stores an address-book entry. A default entry replaces the
// previous default.
func (s *AddressService) SaveAddress(ctx context.Context, userID string, address domain.Address, isDefault bool) (*domain.SavedAddress, error) {
	address = trimAddress(address)
	if err := validateStruct(address); err != nil {
		return nil, err
	}

	saved := &domain.SavedAddress{
		UserID:    userID,
		Address:   address,
		IsDefault: isDefault,
	}
	if err := s.addresses.SaveAddress(ctx, saved); err != nil {
		return nil, fmt.Errorf("failed to save address: %w", err)
	}
	return saved, nil
}

func (s *AddressService) GetDefaultAddress(ctx context.Context, userID string) (*domain.SavedAddress, error) {
	address, err := s.addresses.GetDefaultAddress(ctx, userID)
	if errors.Is(err, repository.ErrAddressNotFound) {
		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return address, err
}

package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mudhasirp/Leather-Ecommerce-API/internal/domain"
	"github.com/mudhasirp/Leather-Ecommerce-API/internal/repository"
)

func (s *MemoryStore) CreateEnquiry(_ context.Context, enquiry *domain.Enquiry) error {
	s.enquiriesMu.Lock()
	defer s.enquiriesMu.Unlock()

	now := time.Now().UTC()
	if enquiry.ID == "" {
		enquiry.ID = uuid.NewString()
	}
	enquiry.CreatedAt = now
	enquiry.UpdatedAt = now

	stored := *enquiry
	s.enquiries[stored.ID] = &stored
	s.enquirySeq = append(s.enquirySeq, stored.ID)
	return nil
}

func (s *MemoryStore) GetEnquiry(_ context.Context, id string) (*domain.Enquiry, error) {
	s.enquiriesMu.RLock()
	defer s.enquiriesMu.RUnlock()

	enquiry, exists := s.enquiries[id]
	if !exists {
		return nil, repository.ErrEnquiryNotFound
	}
	out := *enquiry
	return &out, nil
}

func (s *MemoryStore) ListEnquiries(_ context.Context) ([]*domain.Enquiry, error) {
	s.enquiriesMu.RLock()
	defer s.enquiriesMu.RUnlock()

	result := make([]*domain.Enquiry, 0, len(s.enquirySeq))
	for i := len(s.enquirySeq) - 1; i >= 0; i-- {
		out := *s.enquiries[s.enquirySeq[i]]
		result = append(result, &out)
	}
	return result, nil
}

func (s *MemoryStore) UpdateEnquiryStatus(_ context.Context, id string, status domain.EnquiryStatus) error {
	s.enquiriesMu.Lock()
	defer s.enquiriesMu.Unlock()

	enquiry, exists := s.enquiries[id]
	if !exists {
		return repository.ErrEnquiryNotFound
	}
	enquiry.Status = status
	enquiry.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *MemoryStore) SaveAddress(_ context.Context, address *domain.SavedAddress) error {
	s.addressesMu.Lock()
	defer s.addressesMu.Unlock()

	if address.ID == "" {
		address.ID = uuid.NewString()
	}
	address.CreatedAt = time.Now().UTC()

	if address.IsDefault {
		for _, existing := range s.addresses[address.UserID] {
			existing.IsDefault = false
		}
	}
	stored := *address
	s.addresses[address.UserID] = append(s.addresses[address.UserID], &stored)
	return nil
}

func (s *MemoryStore) GetDefaultAddress(_ context.Context, userID string) (*domain.SavedAddress, error) {
	s.addressesMu.RLock()
	defer s.addressesMu.RUnlock()

	for _, address := range s.addresses[userID] {
		if address.IsDefault {
			out := *address
			return &out, nil
		}
	}
	return nil, repository.ErrAddressNotFound
}

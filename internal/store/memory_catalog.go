package store

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/mudhasirp/Leather-Ecommerce-API/internal/domain"
	"github.com/mudhasirp/Leather-Ecommerce-API/internal/repository"
)

func (s *MemoryStore) CreateProduct(_ context.Context, product *domain.Product) error {
	s.catalogMu.Lock()
	defer s.catalogMu.Unlock()

	if _, exists := s.slugs[product.Slug]; exists {
		return repository.ErrDuplicateSlug
	}

	now := time.Now().UTC()
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	product.CreatedAt = now
	product.UpdatedAt = now

	stored := cloneProduct(product)
	for _, variant := range stored.UnitVariants {
		key := domain.VariantKey{ProductID: stored.ID, Label: variant.Label}
		s.stocks[key] = &variantStock{stock: variant.Stock}
	}
	stored.SoldCount = 0
	s.products[stored.ID] = stored
	s.slugs[stored.Slug] = stored.ID
	return nil
}

func (s *MemoryStore) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	s.catalogMu.RLock()
	defer s.catalogMu.RUnlock()

	product, exists := s.products[id]
	if !exists {
		return nil, repository.ErrProductNotFound
	}
	return s.snapshot(product), nil
}

func (s *MemoryStore) ListProducts(_ context.Context, activeOnly bool) ([]*domain.Product, error) {
	s.catalogMu.RLock()
	defer s.catalogMu.RUnlock()

	result := make([]*domain.Product, 0, len(s.products))
	for _, product := range s.products {
		if activeOnly && !product.IsActive {
			continue
		}
		result = append(result, s.snapshot(product))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *MemoryStore) SetVariantStock(_ context.Context, key domain.VariantKey, stock int) error {
	counter, err := s.counter(key)
	if err != nil {
		return err
	}

	counter.mu.Lock()
	counter.stock = stock
	counter.mu.Unlock()
	return nil
}

func (s *MemoryStore) TryReserve(_ context.Context, key domain.VariantKey, quantity int) (bool, error) {
	counter, err := s.counter(key)
	if err != nil {
		return false, err
	}

	counter.mu.Lock()
	defer counter.mu.Unlock()

	if counter.stock < quantity {
		return false, nil
	}
	counter.stock -= quantity
	counter.sold += quantity
	return true, nil
}

func (s *MemoryStore) Release(_ context.Context, key domain.VariantKey, quantity int) error {
	counter, err := s.counter(key)
	if err != nil {
		return err
	}

	counter.mu.Lock()
	counter.stock += quantity
	counter.sold -= quantity
	counter.mu.Unlock()
	return nil
}

// counter looks up the stock counter for key. Only the map access needs the
// catalog lock; the counter itself is locked by the caller.
func (s *MemoryStore) counter(key domain.VariantKey) (*variantStock, error) {
	s.catalogMu.RLock()
	defer s.catalogMu.RUnlock()

	if _, exists := s.products[key.ProductID]; !exists {
		return nil, repository.ErrProductNotFound
	}
	counter, exists := s.stocks[key]
	if !exists {
		return nil, repository.ErrVariantNotFound
	}
	return counter, nil
}

// snapshot copies product and fills in live stock. Caller holds catalogMu.
func (s *MemoryStore) snapshot(product *domain.Product) *domain.Product {
	out := cloneProduct(product)
	out.SoldCount = 0
	for i := range out.UnitVariants {
		counter := s.stocks[domain.VariantKey{ProductID: out.ID, Label: out.UnitVariants[i].Label}]
		counter.mu.Lock()
		out.UnitVariants[i].Stock = counter.stock
		out.SoldCount += counter.sold
		counter.mu.Unlock()
	}
	return out
}

func cloneProduct(p *domain.Product) *domain.Product {
	out := *p
	out.UnitVariants = append([]domain.UnitVariant(nil), p.UnitVariants...)
	out.Images = append([]string(nil), p.Images...)
	return &out
}

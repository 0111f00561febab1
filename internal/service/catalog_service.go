package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/mudhasirp/Leather-Ecommerce-API/internal/domain"
	"github.com/mudhasirp/Leather-Ecommerce-API/internal/repository"
	"github.com/shopspring/decimal"
)

var slugUnsafe = regexp.MustCompile(`[^a-z0-9]+`)

type VariantInput struct {
	Label         string          `json:"label" yaml:"label" validate:"notblank"`
	WeightInGrams int             `json:"weightInGrams" yaml:"weight_in_grams" validate:"gt=0"`
	Price         decimal.Decimal `json:"price" yaml:"price"`
	Stock         int             `json:"stock" yaml:"stock" validate:"gte=0"`
}

type CreateProductInput struct {
	Name         string         `json:"name" yaml:"name" validate:"notblank"`
	Slug         string         `json:"slug,omitempty" yaml:"slug"`
	Description  string         `json:"description" yaml:"description"`
	Category     string         `json:"category,omitempty" yaml:"category"`
	MainImage    string         `json:"mainImage" yaml:"main_image"`
	Images       []string       `json:"images,omitempty" yaml:"images"`
	IsOrganic    bool           `json:"isOrganic" yaml:"is_organic"`
	UnitVariants []VariantInput `json:"unitVariants" yaml:"unit_variants" validate:"required,min=1,unique=Label,dive"`
}

type CatalogService struct {
	products repository.ProductRepository
}

func NewCatalogService(products repository.ProductRepository) *CatalogService {
	return &CatalogService{products: products}
}

func (s *CatalogService) CreateProduct(ctx context.Context, in CreateProductInput) (*domain.Product, error) {
	in = trimProductInput(in)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	for i, v := range in.UnitVariants {
		if v.Price.IsNegative() {
			return nil, newValidationError(fmt.Sprintf("unitVariants[%d].price", i), "must not be negative")
		}
	}

	slug := in.Slug
	if slug == "" {
		slug = Slugify(in.Name)
	}
	if slug == "" {
		slug = "product-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	}

	product := &domain.Product{
		Name:        in.Name,
		Slug:        slug,
		Description: in.Description,
		Category:    in.Category,
		MainImage:   in.MainImage,
		Images:      in.Images,
		IsOrganic:   in.IsOrganic,
		IsActive:    true,
	}
	for _, v := range in.UnitVariants {
		product.UnitVariants = append(product.UnitVariants, domain.UnitVariant{
			Label:         v.Label,
			WeightInGrams: v.WeightInGrams,
			Price:         v.Price,
			Stock:         v.Stock,
		})
	}

	if err := s.products.CreateProduct(ctx, product); err != nil {
		if errors.Is(err, repository.ErrDuplicateSlug) {
			return nil, newValidationError("slug", "is already taken")
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.products.GetProduct(ctx, id)
	if errors.Is(err, repository.ErrProductNotFound) {
		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return product, err
}

func (s *CatalogService) ListProducts(ctx context.Context, activeOnly bool) ([]*domain.Product, error) {
	return s.products.ListProducts(ctx, activeOnly)
}

// SetVariantStock overwrites the stock of one variant. It is a plain write
// and may interleave with reservations.
func (s *CatalogService) SetVariantStock(ctx context.Context, productID, label string, stock int) (*domain.Product, error) {
	if stock < 0 {
		return nil, newValidationError("stock", "must not be negative")
	}

	key := domain.VariantKey{ProductID: productID, Label: label}
	if err := s.products.SetVariantStock(ctx, key, stock); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) || errors.Is(err, repository.ErrVariantNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return nil, err
	}
	return s.products.GetProduct(ctx, productID)
}

// trimProductInput trims the fields that identify a product or a variant so
// uniqueness is checked on the values that get stored.
func trimProductInput(in CreateProductInput) CreateProductInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Slug = strings.TrimSpace(in.Slug)
	variants := make([]VariantInput, len(in.UnitVariants))
	for i, v := range in.UnitVariants {
		v.Label = strings.TrimSpace(v.Label)
		variants[i] = v
	}
	if in.UnitVariants != nil {
		in.UnitVariants = variants
	}
	return in
}

// Slugify keeps ASCII letters and digits. It returns "" when the name has
// none; CreateProduct then falls back to an id-based slug.
func Slugify(name string) string {
	return strings.Trim(slugUnsafe.ReplaceAllString(strings.ToLower(name), "-"), "-")
}

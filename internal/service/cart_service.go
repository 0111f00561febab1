package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mudhasirp/Leather-Ecommerce-API/internal/cache"
	"github.com/mudhasirp/Leather-Ecommerce-API/internal/domain"
	"github.com/mudhasirp/Leather-Ecommerce-API/internal/repository"
	"github.com/mudhasirp/Leather-Ecommerce-API/pkg/logger"
	"golang.org/x/sync/singleflight"
)

const cacheOpTimeout = time.Second

// ProductReader is the catalog lookup the cart needs to snapshot items.
type ProductReader interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
}

type AddItemInput struct {
	ProductID string `json:"productId" validate:"notblank"`
	UnitLabel string `json:"unitLabel" validate:"notblank"`
	Quantity  int    `json:"quantity" validate:"gte=1,lte=99"`
}

type CartService struct {
	repo     repository.CartRepository
	products ProductReader
	cache    cache.CartCache
	sfg      singleflight.Group // Prevents cache stampede
}

func NewCartService(repo repository.CartRepository, products ProductReader, cache cache.CartCache) *CartService {
	return &CartService{
		repo:     repo,
		products: products,
		cache:    cache,
	}
}

// GetCart returns the user's cart, or an empty one if none exists yet.
func (s *CartService) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	// One caller cancelling must not fail the others sharing the flight.
	flightCtx := context.WithoutCancel(ctx)

	v, err, _ := s.sfg.Do(userID, func() (interface{}, error) {
		cart, err := s.cache.Get(flightCtx, userID)
		if err == nil {
			return cart, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			logger.Ctx(ctx).Warn().Err(err).Str("user_id", userID).Msg("cache get error")
		}

		cart, err = s.repo.GetCart(flightCtx, userID)
		if errors.Is(err, repository.ErrCartNotFound) {
			return domain.NewCart(userID), nil
		}
		if err != nil {
			return nil, err
		}

		setCtx, cancel := context.WithTimeout(flightCtx, cacheOpTimeout)
		defer cancel()
		if err := s.cache.Set(setCtx, userID, cart); err != nil {
			logger.Ctx(ctx).Warn().Err(err).Str("user_id", userID).Msg("cache set error")
		}

		return cart, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.Cart), nil
}

// AddItem snapshots the live product into a cart line and merges it with
// an existing line for the same unit.
func (s *CartService) AddItem(ctx context.Context, userID string, in AddItemInput) (*domain.Cart, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	product, err := s.products.GetProduct(ctx, in.ProductID)
	if errors.Is(err, repository.ErrProductNotFound) {
		return nil, &ProductUnavailableError{ProductID: in.ProductID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if !product.IsActive {
		return nil, &ProductUnavailableError{ProductID: product.ID, Name: product.Name}
	}

	variant, ok := product.Variant(in.UnitLabel)
	if !ok {
		return nil, &ProductUnavailableError{ProductID: product.ID, UnitLabel: in.UnitLabel, Name: product.Name}
	}

	item := domain.CartItem{
		ProductID:  product.ID,
		UnitLabel:  variant.Label,
		UnitWeight: variant.WeightInGrams,
		Name:       product.Name,
		Slug:       product.Slug,
		Image:      product.MainImage,
		Quantity:   in.Quantity,
		Price:      variant.Price,
	}

	cart, err := s.repo.AddItem(ctx, userID, item)
	if err != nil {
		logger.Ctx(ctx).Error().Err(err).Str("user_id", userID).Msg("repo add item error")
		return nil, err
	}

	s.invalidateCache(ctx, userID)
	return cart, nil
}

// UpdateQuantity sets the quantity of a line. Zero removes it.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, productID, unitLabel string, quantity int) (*domain.Cart, error) {
	if quantity < 0 || quantity > domain.MaxLineQuantity {
		return nil, newValidationError("quantity", fmt.Sprintf("must be between 0 and %d", domain.MaxLineQuantity))
	}

	cart, err := s.repo.UpdateItemQuantity(ctx, userID, productID, unitLabel, quantity)
	if err != nil {
		return nil, s.mapCartError(err)
	}

	s.invalidateCache(ctx, userID)
	return cart, nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, productID, unitLabel string) (*domain.Cart, error) {
	cart, err := s.repo.RemoveItem(ctx, userID, productID, unitLabel)
	if err != nil {
		return nil, s.mapCartError(err)
	}

	s.invalidateCache(ctx, userID)
	return cart, nil
}

// ClearCart empties the cart in the store and drops the cached copy.
func (s *CartService) ClearCart(ctx context.Context, userID string) error {
	if err := s.repo.ClearCart(ctx, userID); err != nil {
		return err
	}

	s.invalidateCache(ctx, userID)
	return nil
}

// CartForCheckout reads the cart straight from the store so that order
// placement never prices a stale cached copy.
func (s *CartService) CartForCheckout(ctx context.Context, userID string) (*domain.Cart, error) {
	return s.repo.GetCart(ctx, userID)
}

func (s *CartService) mapCartError(err error) error {
	if errors.Is(err, repository.ErrCartNotFound) || errors.Is(err, repository.ErrItemNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return err
}

func (s *CartService) invalidateCache(ctx context.Context, userID string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cacheOpTimeout)
	defer cancel()
	if err := s.cache.Delete(ctx, userID); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("user_id", userID).Msg("cache invalidate error")
	}
}

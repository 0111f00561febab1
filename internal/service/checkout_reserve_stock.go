package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/mudhasirp/Leather-Ecommerce-API/internal/domain"
	"github.com/mudhasirp/Leather-Ecommerce-API/internal/repository"
	"github.com/mudhasirp/Leather-Ecommerce-API/pkg/logger"
)

// reserveStock takes every line's units with a guarded decrement and
// registers a release for each one taken.
func (s *CheckoutServiceImpl) reserveStock(ctx context.Context, items []domain.CartItem, comp *compensation) error {
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return err
		}

		key := item.Key()
		quantity := item.Quantity

		ok, err := s.tryReserve(ctx, key, quantity)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) || errors.Is(err, repository.ErrVariantNotFound) {
				return &ProductUnavailableError{ProductID: key.ProductID, UnitLabel: key.Label, Name: item.Name}
			}
			if errors.Is(err, repository.ErrNotReserved) {
				logger.Ctx(ctx).Warn().Err(err).
					Str("variant", key.String()).
					Msg("reservation not applied")
				return fmt.Errorf("failed to reserve %s: %w", key, err)
			}
			// The decrement may or may not have been applied. Releasing
			// here could create stock out of nothing, so it is left alone.
			logger.Ctx(ctx).Error().Err(err).
				Str("variant", key.String()).
				Int("quantity", quantity).
				Msg("reservation outcome unknown, units not released")
			return fmt.Errorf("failed to reserve %s: %w", key, err)
		}
		if !ok {
			s.metrics.ReservationConflict()
			return s.insufficientStock(ctx, item)
		}

		comp.push("release "+key.String(), func(ctx context.Context) error {
			return s.catalog.Release(ctx, key, quantity)
		})
	}
	return nil
}

func (s *CheckoutServiceImpl) tryReserve(ctx context.Context, key domain.VariantKey, quantity int) (bool, error) {
	storeCtx, cancel := s.detached(ctx)
	defer cancel()
	return s.catalog.TryReserve(storeCtx, key, quantity)
}

// insufficientStock builds the error for a failed guard using a fresh read
// of the remaining stock.
func (s *CheckoutServiceImpl) insufficientStock(ctx context.Context, item domain.CartItem) error {
	stockErr := &InsufficientStockError{
		ProductID: item.ProductID,
		UnitLabel: item.UnitLabel,
		Name:      item.Name,
		Requested: item.Quantity,
	}

	storeCtx, cancel := s.detached(ctx)
	defer cancel()
	product, err := s.catalog.GetProduct(storeCtx, item.ProductID)
	if err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("product_id", item.ProductID).Msg("could not read remaining stock")
		return stockErr
	}

	stockErr.Name = product.Name
	if variant, ok := product.Variant(item.UnitLabel); ok {
		stockErr.Available = variant.Stock
	}
	return stockErr
}

package cache

import (
	"context"
	"errors"

	"github.com/mudhasirp/Leather-Ecommerce-API/internal/domain"
	"github.com/mudhasirp/Leather-Ecommerce-API/pkg/circuitbreaker"
	"github.com/sony/gobreaker/v2"
)

// BreakerCache guards a CartCache with a circuit breaker. While the breaker
// is open reads and writes fail fast and callers fall through to the database.
// Delete always reaches the cache: a skipped invalidation would leave a stale
// cart readable once the breaker closes.
type BreakerCache struct {
	next    CartCache
	breaker *gobreaker.CircuitBreaker[*domain.Cart]
}

func NewBreakerCache(next CartCache, settings circuitbreaker.Settings) *BreakerCache {
	settings.IsSuccessful = func(err error) bool {
		return err == nil || errors.Is(err, ErrCacheMiss)
	}
	return &BreakerCache{
		next:    next,
		breaker: circuitbreaker.New[*domain.Cart](settings),
	}
}

func (b *BreakerCache) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	return b.breaker.Execute(func() (*domain.Cart, error) {
		return b.next.Get(ctx, userID)
	})
}

func (b *BreakerCache) Set(ctx context.Context, userID string, cart *domain.Cart) error {
	_, err := b.breaker.Execute(func() (*domain.Cart, error) {
		return nil, b.next.Set(ctx, userID, cart)
	})
	return err
}

func (b *BreakerCache) Delete(ctx context.Context, userID string) error {
	return b.next.Delete(ctx, userID)
}

func (b *BreakerCache) State() gobreaker.State {
	return b.breaker.State()
}

package publisher

import (
	"context"

	"github.com/mudhasirp/Leather-Ecommerce-API/pkg/logger"
)

// LogPublisher only logs events. Used when no brokers are configured.
type LogPublisher struct{}

func (LogPublisher) Publish(ctx context.Context, event *OrderEvent) error {
	logger.Ctx(ctx).Info().
		Str("event_type", event.Type).
		Str("order_id", event.OrderID).
		Str("status", string(event.Status)).
		Msg("order event")
	return nil
}

func (LogPublisher) Close() error { return nil }

package publisher

import (
	"context"
	"time"

	"github.com/mudhasirp/Leather-Ecommerce-API/internal/domain"
	"github.com/rs/zerolog/log"
)

const defaultQueueSize = 256

// Dispatcher publishes events off the request path. Events are queued and
// written by a single worker; when the queue is full new events are dropped
// and logged.
type Dispatcher struct {
	events  OrderEvents
	queue   chan *OrderEvent
	timeout time.Duration
	done    chan struct{}
}

func NewDispatcher(events OrderEvents, queueSize int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	return &Dispatcher{
		events:  events,
		queue:   make(chan *OrderEvent, queueSize),
		timeout: 5 * time.Second,
		done:    make(chan struct{}),
	}
}

// Enqueue never blocks.
func (d *Dispatcher) Enqueue(event *OrderEvent) bool {
	select {
	case d.queue <- event:
		return true
	default:
		log.Warn().
			Str("event_type", event.Type).
			Str("order_id", event.OrderID).
			Msg("event queue full, dropping event")
		return false
	}
}

func (d *Dispatcher) OrderPlaced(order *domain.Order) {
	d.Enqueue(OrderPlaced(order))
}

func (d *Dispatcher) OrderStatusChanged(order *domain.Order, from domain.OrderStatus) {
	d.Enqueue(OrderStatusChanged(order, from))
}

// Run publishes queued events until ctx is done, then drains what is left.
func (d *Dispatcher) Run(ctx context.Context) {
	defer close(d.done)
	for {
		select {
		case event := <-d.queue:
			d.publish(event)
		case <-ctx.Done():
			d.drain()
			return
		}
	}
}

// Wait blocks until Run has drained the queue.
func (d *Dispatcher) Wait() {
	<-d.done
}

func (d *Dispatcher) drain() {
	for {
		select {
		case event := <-d.queue:
			d.publish(event)
		default:
			return
		}
	}
}

func (d *Dispatcher) publish(event *OrderEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	if err := d.events.Publish(ctx, event); err != nil {
		log.Error().Err(err).
			Str("event_type", event.Type).
			Str("order_id", event.OrderID).
			Msg("failed to publish order event")
	}
}

package publisher

import (
	"context"
	"time"

	"github.com/mudhasirp/Leather-Ecommerce-API/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	EventOrderPlaced        = "OrderPlaced"
	EventOrderStatusChanged = "OrderStatusChanged"
)

// OrderEvents announces order lifecycle changes to other systems.
type OrderEvents interface {
	Publish(ctx context.Context, event *OrderEvent) error
	Close() error
}

type OrderEventItem struct {
	ProductID string          `json:"product_id"`
	UnitLabel string          `json:"unit_label"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// OrderEvent is the JSON payload written to the order topic.
type OrderEvent struct {
	Type          string             `json:"event_type"`
	OrderID       string             `json:"order_id"`
	UserID        string             `json:"user_id"`
	Status        domain.OrderStatus `json:"status"`
	PreviousState domain.OrderStatus `json:"previous_status,omitempty"`
	PaymentMethod string             `json:"payment_method"`
	IsPaid        bool               `json:"is_paid"`
	TotalAmount   decimal.Decimal    `json:"total_amount"`
	Items         []OrderEventItem   `json:"items,omitempty"`
	OccurredAt    time.Time          `json:"occurred_at"`
}

func OrderPlaced(order *domain.Order) *OrderEvent {
	event := newOrderEvent(EventOrderPlaced, order)
	event.Items = make([]OrderEventItem, 0, len(order.Items))
	for _, item := range order.Items {
		event.Items = append(event.Items, OrderEventItem{
			ProductID: item.ProductID,
			UnitLabel: item.UnitLabel,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	return event
}

func OrderStatusChanged(order *domain.Order, from domain.OrderStatus) *OrderEvent {
	event := newOrderEvent(EventOrderStatusChanged, order)
	event.PreviousState = from
	return event
}

func newOrderEvent(eventType string, order *domain.Order) *OrderEvent {
	return &OrderEvent{
		Type:          eventType,
		OrderID:       order.ID,
		UserID:        order.UserID,
		Status:        order.Status,
		PaymentMethod: string(order.PaymentMethod),
		IsPaid:        order.IsPaid,
		TotalAmount:   order.TotalAmount,
		OccurredAt:    time.Now().UTC(),
	}
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPlaced    OrderStatus = "Placed"
	OrderStatusConfirmed OrderStatus = "Confirmed"
	OrderStatusShipped   OrderStatus = "Shipped"
	OrderStatusDelivered OrderStatus = "Delivered"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPlaced:    {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered: {},
	OrderStatusCancelled: {},
}

func (s OrderStatus) IsValid() bool {
	_, ok := orderTransitions[s]
	return ok
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransitionTo reports whether an order may move from s to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s OrderStatus) String() string {
	return string(s)
}

type PaymentMethod string

const (
	PaymentCOD  PaymentMethod = "COD"
	PaymentUPI  PaymentMethod = "UPI"
	PaymentCard PaymentMethod = "CARD"
)

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCOD, PaymentUPI, PaymentCard:
		return true
	}
	return false
}

// OrderItem is a frozen copy of a purchased cart line.
type OrderItem struct {
	ProductID string          `bson:"product_id" json:"productId"`
	Name      string          `bson:"name" json:"name"`
	Image     string          `bson:"image,omitempty" json:"image,omitempty"`
	Price     decimal.Decimal `bson:"price" json:"price"`
	Quantity  int             `bson:"quantity" json:"quantity"`
	UnitLabel string          `bson:"unit_label" json:"unitLabel"`
}

func (i OrderItem) Key() VariantKey {
	return VariantKey{ProductID: i.ProductID, Label: i.UnitLabel}
}

type Order struct {
	ID             string          `bson:"_id,omitempty" json:"id"`
	UserID         string          `bson:"user_id" json:"userId"`
	Items          []OrderItem     `bson:"items" json:"items"`
	Address        Address         `bson:"address" json:"address"`
	PaymentMethod  PaymentMethod   `bson:"payment_method" json:"paymentMethod"`
	Subtotal       decimal.Decimal `bson:"subtotal" json:"subtotal"`
	DeliveryFee    decimal.Decimal `bson:"delivery_fee" json:"deliveryFee"`
	TotalAmount    decimal.Decimal `bson:"total_amount" json:"totalAmount"`
	Status         OrderStatus     `bson:"status" json:"status"`
	IsPaid         bool            `bson:"is_paid" json:"isPaid"`
	IdempotencyKey string          `bson:"idempotency_key,omitempty" json:"-"`
	CreatedAt      time.Time       `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time       `bson:"updated_at" json:"updatedAt"`
}

// OrderSummary is the list view of an order.
type OrderSummary struct {
	ID          string          `json:"id"`
	Status      OrderStatus     `json:"status"`
	IsPaid      bool            `json:"isPaid"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func (o *Order) Summary() OrderSummary {
	return OrderSummary{
		ID:          o.ID,
		Status:      o.Status,
		IsPaid:      o.IsPaid,
		TotalAmount: o.TotalAmount,
		CreatedAt:   o.CreatedAt,
	}
}

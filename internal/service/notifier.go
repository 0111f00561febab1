package service

import "github.com/mudhasirp/Leather-Ecommerce-API/internal/domain"

// OrderNotifier is told about order changes after they are stored. It must
// not block.
type OrderNotifier interface {
	OrderPlaced(order *domain.Order)
	OrderStatusChanged(order *domain.Order, from domain.OrderStatus)
}

type nopNotifier struct{}

func (nopNotifier) OrderPlaced(*domain.Order) {}

func (nopNotifier) OrderStatusChanged(*domain.Order, domain.OrderStatus) {}

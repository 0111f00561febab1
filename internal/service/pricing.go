package service

import (
	"github.com/mudhasirp/Leather-Ecommerce-API/internal/domain"
	"github.com/shopspring/decimal"
)

// Pricing computes order totals. Orders whose subtotal reaches
// FreeDeliveryThreshold ship free; all others pay DeliveryFee.
type Pricing struct {
	FreeDeliveryThreshold decimal.Decimal
	DeliveryFee           decimal.Decimal
}

func DefaultPricing() Pricing {
	return Pricing{
		FreeDeliveryThreshold: decimal.NewFromInt(499),
		DeliveryFee:           decimal.NewFromInt(40),
	}
}

type Totals struct {
	Subtotal    decimal.Decimal
	DeliveryFee decimal.Decimal
	Total       decimal.Decimal
}

func (p Pricing) Quote(items []domain.CartItem) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
	}

	fee := p.DeliveryFee
	if subtotal.GreaterThanOrEqual(p.FreeDeliveryThreshold) {
		fee = decimal.Zero
	}

	return Totals{
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Total:       subtotal.Add(fee),
	}
}

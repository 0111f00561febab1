package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultCurrency = "INR"

	// MaxLineQuantity caps the quantity of a single cart line.
	MaxLineQuantity = 99
)

type Cart struct {
	ID        string          `bson:"_id,omitempty" json:"id,omitempty"`
	UserID    string          `bson:"user_id" json:"userId"`
	Items     []CartItem      `bson:"items" json:"items"`
	Subtotal  decimal.Decimal `bson:"subtotal" json:"subtotal"`
	Currency  string          `bson:"currency" json:"currency"`
	CreatedAt time.Time       `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time       `bson:"updated_at" json:"updatedAt"`
}

// CartItem holds a value snapshot of the product taken when it was added.
type CartItem struct {
	ProductID  string          `bson:"product_id" json:"productId"`
	UnitLabel  string          `bson:"unit_label" json:"unitLabel"`
	UnitWeight int             `bson:"unit_weight" json:"unitWeight"`
	Name       string          `bson:"name" json:"name"`
	Slug       string          `bson:"slug,omitempty" json:"slug,omitempty"`
	Image      string          `bson:"image,omitempty" json:"image,omitempty"`
	Quantity   int             `bson:"quantity" json:"quantity"`
	Price      decimal.Decimal `bson:"price" json:"price"`
	AddedAt    time.Time       `bson:"added_at" json:"addedAt"`
}

func (i CartItem) Key() VariantKey {
	return VariantKey{ProductID: i.ProductID, Label: i.UnitLabel}
}

func (i CartItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Recalculate refreshes the cached subtotal from the line items.
func (c *Cart) Recalculate() decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range c.Items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	c.Subtotal = subtotal
	return subtotal
}

// IndexOf returns the position of the line for the given product and unit, or -1.
func (c *Cart) IndexOf(productID, unitLabel string) int {
	for i, item := range c.Items {
		if item.ProductID == productID && item.UnitLabel == unitLabel {
			return i
		}
	}
	return -1
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Merge adds item to the cart. An existing line for the same product and
// unit keeps its snapshot and only has its quantity increased, up to
// MaxLineQuantity.
func (c *Cart) Merge(item CartItem) {
	if i := c.IndexOf(item.ProductID, item.UnitLabel); i >= 0 {
		c.Items[i].Quantity = min(c.Items[i].Quantity+item.Quantity, MaxLineQuantity)
	} else {
		item.Quantity = min(item.Quantity, MaxLineQuantity)
		c.Items = append(c.Items, item)
	}
	c.Recalculate()
}

// SetQuantity updates a line; a quantity of zero removes it.
func (c *Cart) SetQuantity(productID, unitLabel string, quantity int) bool {
	i := c.IndexOf(productID, unitLabel)
	if i < 0 {
		return false
	}
	if quantity <= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	} else {
		c.Items[i].Quantity = quantity
	}
	c.Recalculate()
	return true
}

func (c *Cart) Remove(productID, unitLabel string) bool {
	return c.SetQuantity(productID, unitLabel, 0)
}

// Clear empties the cart but keeps it.
func (c *Cart) Clear() {
	c.Items = []CartItem{}
	c.Subtotal = decimal.Zero
}

// NewCart returns an empty cart for the user.
func NewCart(userID string) *Cart {
	return &Cart{
		UserID:   userID,
		Items:    []CartItem{},
		Subtotal: decimal.Zero,
		Currency: DefaultCurrency,
	}
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// UnitVariant is a purchasable unit of a product, e.g. "500 g".
type UnitVariant struct {
	Label         string          `bson:"label" json:"label"`
	WeightInGrams int             `bson:"weight_in_grams" json:"weightInGrams"`
	Price         decimal.Decimal `bson:"price" json:"price"`
	Stock         int             `bson:"stock" json:"stock"`
}

type Product struct {
	ID           string        `bson:"_id,omitempty" json:"id"`
	Name         string        `bson:"name" json:"name"`
	Slug         string        `bson:"slug" json:"slug"`
	Description  string        `bson:"description" json:"description"`
	Category     string        `bson:"category,omitempty" json:"category,omitempty"`
	MainImage    string        `bson:"main_image" json:"mainImage"`
	Images       []string      `bson:"images,omitempty" json:"images,omitempty"`
	UnitVariants []UnitVariant `bson:"unit_variants" json:"unitVariants"`
	IsOrganic    bool          `bson:"is_organic" json:"isOrganic"`
	IsActive     bool          `bson:"is_active" json:"isActive"`
	SoldCount    int           `bson:"sold_count" json:"soldCount"`
	CreatedAt    time.Time     `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time     `bson:"updated_at" json:"updatedAt"`
}

// Variant returns the variant with the given label.
func (p *Product) Variant(label string) (*UnitVariant, bool) {
	for i := range p.UnitVariants {
		if p.UnitVariants[i].Label == label {
			return &p.UnitVariants[i], true
		}
	}
	return nil, false
}

// VariantKey identifies a single stock counter.
type VariantKey struct {
	ProductID string
	Label     string
}

func (k VariantKey) String() string {
	return k.ProductID + "/" + k.Label
}

package domain

import "time"

// Address is the shipping address embedded by value into orders.
type Address struct {
	FullName   string `bson:"full_name" json:"fullName" validate:"notblank"`
	Phone      string `bson:"phone" json:"phone" validate:"phone"`
	Line1      string `bson:"line1" json:"line1" validate:"notblank"`
	Line2      string `bson:"line2,omitempty" json:"line2,omitempty"`
	City       string `bson:"city" json:"city" validate:"notblank"`
	State      string `bson:"state" json:"state" validate:"notblank"`
	PostalCode string `bson:"postal_code" json:"postalCode" validate:"postalcode"`
	Country    string `bson:"country,omitempty" json:"country,omitempty"`
}

// SavedAddress is an address-book entry owned by a user.
type SavedAddress struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	UserID    string    `bson:"user_id" json:"userId"`
	Address   Address   `bson:"address" json:"address"`
	IsDefault bool      `bson:"is_default" json:"isDefault"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

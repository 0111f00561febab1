package domain

import "time"

type EnquiryStatus string

const (
	EnquiryStatusNew       EnquiryStatus = "New"
	EnquiryStatusContacted EnquiryStatus = "Contacted"
	EnquiryStatusClosed    EnquiryStatus = "Closed"
)

func (s EnquiryStatus) IsValid() bool {
	switch s {
	case EnquiryStatusNew, EnquiryStatusContacted, EnquiryStatusClosed:
		return true
	}
	return false
}

// EnquiryAddress is the part of the default address copied into an enquiry.
type EnquiryAddress struct {
	Line1      string `bson:"line1" json:"line1"`
	City       string `bson:"city" json:"city"`
	State      string `bson:"state" json:"state"`
	PostalCode string `bson:"postal_code" json:"postalCode"`
}

type EnquiryProduct struct {
	ProductID string `bson:"product_id" json:"productId"`
	Name      string `bson:"name" json:"name"`
	Image     string `bson:"image,omitempty" json:"image,omitempty"`
}

type Enquiry struct {
	ID          string          `bson:"_id,omitempty" json:"id"`
	UserID      string          `bson:"user_id" json:"userId"`
	Username    string          `bson:"username" json:"username"`
	UserPhone   string          `bson:"user_phone" json:"userPhone"`
	UserAddress *EnquiryAddress `bson:"user_address,omitempty" json:"userAddress,omitempty"`
	Product     EnquiryProduct  `bson:"product" json:"product"`
	Message     string          `bson:"message" json:"message"`
	Status      EnquiryStatus   `bson:"status" json:"status"`
	CreatedAt   time.Time       `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time       `bson:"updated_at" json:"updatedAt"`
}

var enquiryTransitions = map[EnquiryStatus][]EnquiryStatus{
	EnquiryStatusNew:       {EnquiryStatusContacted, EnquiryStatusClosed},
	EnquiryStatusContacted: {EnquiryStatusClosed},
	EnquiryStatusClosed:    {},
}

func (s EnquiryStatus) CanTransitionTo(next EnquiryStatus) bool {
	for _, allowed := range enquiryTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// NewEnquiryAddress copies the fields an enquiry keeps from a saved address.
func NewEnquiryAddress(a Address) *EnquiryAddress {
	return &EnquiryAddress{
		Line1:      a.Line1,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
	}
}

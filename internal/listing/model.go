package listing

import (
	"time"

	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeMarketplace Type = "marketplace"
	TypeService     Type = "service"
	TypeExperience  Type = "experience"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Listing is a row of business_listings: a business, product or experience
// offered in the directory.
type Listing struct {
	ID          string              `json:"id"`
	BusinessID  string              `json:"businessId"`
	Name        string              `json:"name"`
	Description *string             `json:"description,omitempty"`
	Category    string              `json:"category"`
	Type        Type                `json:"type"`
	City        string              `json:"city"`
	Price       decimal.Decimal     `json:"price"`
	ShippingFee decimal.NullDecimal `json:"shippingFee"`
	ImageURL    *string             `json:"imageUrl,omitempty"`
	Status      Status              `json:"status"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

func (l *Listing) IsPurchasable() bool {
	return l.Status == StatusActive && l.Price.IsPositive()
}

type Filter struct {
	Search   *string
	Category *string
	Type     *Type
	City     *string
	Limit    int32
	Page     int32
}

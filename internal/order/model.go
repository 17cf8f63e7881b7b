package order

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusPaid     Status = "paid"
	StatusCanceled Status = "canceled"
)

type PaymentMethod string

const (
	PaymentMethodCard PaymentMethod = "card"
	PaymentMethodCash PaymentMethod = "cash"
)

func (m PaymentMethod) IsValid() bool {
	return m == PaymentMethodCard || m == PaymentMethodCash
}

// Order is created once per checkout submission. The checkout flow never
// mutates it afterwards; status moves on via the payment webhook.
type Order struct {
	ID               string          `json:"id"`
	UserID           *string         `json:"userId,omitempty"`
	CartSessionID    string          `json:"-"`
	Status           Status          `json:"status"`
	PaymentMethod    PaymentMethod   `json:"paymentMethod"`
	CustomerName     string          `json:"customerName"`
	CustomerEmail    string          `json:"customerEmail"`
	ShippingAddress  string          `json:"shippingAddress"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	ShippingFee      decimal.Decimal `json:"shippingFee"`
	Tax              decimal.Decimal `json:"tax"`
	Total            decimal.Decimal `json:"total"`
	PaymentSessionID *string         `json:"-"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
	Items            []Item          `json:"items,omitempty"`
}

// Item stores the price the customer saw when ordering.
type Item struct {
	ID        int64           `json:"id"`
	OrderID   string          `json:"orderId"`
	ListingID string          `json:"listingId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// Requester identifies who is asking for an order: a signed-in user, an
// anonymous cart session, or both.
type Requester struct {
	UserID    *string
	SessionID string
}

func (o *Order) OwnedBy(r Requester) bool {
	if o.UserID != nil && r.UserID != nil && *o.UserID == *r.UserID {
		return true
	}
	return r.SessionID != "" && o.CartSessionID == r.SessionID
}

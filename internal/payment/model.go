package payment

import (
	"encoding/json"

	"potosi-be/internal/cart"
)

const defaultCurrency = "mxn"

// SessionRequest is the body of POST /api/checkout/create-session/.
type SessionRequest struct {
	OrderID       string      `json:"orderId"`
	Items         []cart.Item `json:"items"`
	CustomerEmail string      `json:"customerEmail"`
}

type Session struct {
	ID  string `json:"sessionId"`
	URL string `json:"url,omitempty"`
}

// LineItem amounts are in the currency's minor unit.
type LineItem struct {
	Name       string
	UnitAmount int64
	Quantity   int
}

type CheckoutSessionParams struct {
	OrderID       string
	CustomerEmail string
	Currency      string
	LineItems     []LineItem
}

// Redirect is what the client needs to send the buyer to the hosted page.
type Redirect struct {
	SessionID      string `json:"sessionId"`
	PublishableKey string `json:"publishableKey"`
	URL            string `json:"url,omitempty"`
}

// WebhookEvent is the subset of a provider event the webhook acts on.
type WebhookEvent struct {
	ID            string
	Type          string
	SessionID     string
	OrderID       string
	PaymentStatus string
	Payload       json.RawMessage
}

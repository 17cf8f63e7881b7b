package payment

import "context"

// Gateway talks to the hosted payment provider with the secret key.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutSessionParams) (*Session, error)
	VerifySignature(header string, payload []byte) error
}

// SessionCreator returns a hosted checkout session for a persisted order.
type SessionCreator interface {
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)
}

// ClientLoader makes sure the provider's client library can be used before
// a redirect is handed out.
type ClientLoader interface {
	EnsureLoaded(ctx context.Context) error
}

package payment

import (
	"context"

	"potosi-be/internal/cart"
	"potosi-be/internal/logger"

	"go.uber.org/zap"
)

// Redirector hands out everything the client needs to open the hosted
// checkout page for an order.
type Redirector struct {
	loader         ClientLoader
	sessions       SessionCreator
	publishableKey string
}

func NewRedirector(loader ClientLoader, sessions SessionCreator, publishableKey string) *Redirector {
	return &Redirector{loader: loader, sessions: sessions, publishableKey: publishableKey}
}

func (r *Redirector) ProcessPayment(ctx context.Context, orderID string, items []cart.Item, customerEmail string) (*Redirect, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "payment"),
		zap.String("method", "ProcessPayment"),
		zap.String("order_id", orderID),
	)

	if r.publishableKey == "" {
		log.Error("publishable key missing")
		return nil, ErrMissingPublishableKey
	}

	if err := r.loader.EnsureLoaded(ctx); err != nil {
		log.Error("payment client not available", zap.Error(err))
		return nil, err
	}

	sess, err := r.sessions.CreateSession(ctx, SessionRequest{
		OrderID:       orderID,
		Items:         items,
		CustomerEmail: customerEmail,
	})
	if err != nil {
		log.Error("failed to create payment session", zap.Error(err))
		return nil, err
	}
	if sess.ID == "" {
		return nil, ErrMissingSessionID
	}

	log.Info("payment redirect ready", zap.String("session_id", sess.ID))
	return &Redirect{
		SessionID:      sess.ID,
		PublishableKey: r.publishableKey,
		URL:            sess.URL,
	}, nil
}

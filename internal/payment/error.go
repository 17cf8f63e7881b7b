package payment

import "errors"

var (
	ErrClientLoadTimeout     = errors.New("payment client failed to load in time")
	ErrMissingPublishableKey = errors.New("payment publishable key is not configured")
	ErrMissingSessionID      = errors.New("payment session response has no session id")
	ErrSessionRequestFailed  = errors.New("payment session request failed")
	ErrInvalidSessionRequest = errors.New("invalid payment session request")
	ErrOrderNotPayable       = errors.New("order is not awaiting payment")
	ErrMissingSecretKey      = errors.New("payment secret key is not configured")

	ErrMissingSignature     = errors.New("missing webhook signature")
	ErrInvalidSignature     = errors.New("invalid webhook signature")
	ErrSignatureExpired     = errors.New("webhook signature timestamp outside tolerance")
	ErrMissingWebhookSecret = errors.New("webhook secret is not configured")
	ErrInvalidEvent         = errors.New("invalid webhook event")
)

package order

import "errors"

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrOrderNotPending  = errors.New("order is no longer pending")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrNoOrderItems     = errors.New("order has no items")
	ErrUnknownListing   = errors.New("order item references an unknown listing")
	ErrFailedCreate     = errors.New("failed to create order")
	ErrFailedCreateItem = errors.New("failed to create order items")

	pgForeignKeyViolation = "23503"
)

package cart

import "errors"

var (
	// -- Validation & Input --
	ErrInvalidQuantity  = errors.New("invalid cart quantity")
	ErrMissingSessionID = errors.New("cart session id is required")

	// -- Resource State --
	ErrCartNotFound     = errors.New("cart not found")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrCartConflict     = errors.New("cart changed concurrently")

	// -- Store Failures --
	ErrFailedLoadCart  = errors.New("failed to load cart")
	ErrFailedSaveCart  = errors.New("failed to save cart")
	ErrFailedClearCart = errors.New("failed to clear cart")
)

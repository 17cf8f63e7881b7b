package checkout

import "errors"

var (
	ErrSubmissionInProgress = errors.New("a checkout for this cart is already in progress")
	ErrConfirmationNotFound = errors.New("no checkout confirmation for this session")
	ErrLockUnavailable      = errors.New("checkout lock unavailable")
)

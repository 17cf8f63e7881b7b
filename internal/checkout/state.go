package checkout

type State string

const (
	StateIdle                 State = "idle"
	StateValidating           State = "validating"
	StateCreatingOrder        State = "creating_order"
	StateCreatingOrderItems   State = "creating_order_items"
	StateRedirectingToPayment State = "redirecting_to_payment"
	StateCompleted            State = "completed"
	StateFailed               State = "failed"
)

// CanSubmit reports whether a new submission may start from s. Failed is
// retryable.
func (s State) CanSubmit() bool {
	return s == StateIdle || s == StateFailed
}

// IsTerminal is true once the attempt has nothing left to do in this
// process. A redirect hands control to the payment provider.
func (s State) IsTerminal() bool {
	return s == StateCompleted || s == StateRedirectingToPayment
}

type ErrorKind string

const (
	ErrorKindValidation  ErrorKind = "validation"
	ErrorKindPersistence ErrorKind = "persistence"
	ErrorKindPayment     ErrorKind = "payment"
	ErrorKindUnexpected  ErrorKind = "unexpected"
)

package user

// CheckoutProfile holds the stored details used to prefill the checkout form.
// Any field may be empty when the user never filled it in.
type CheckoutProfile struct {
	UserID   string
	FullName string
	Email    string
	Address  string
	City     string
	State    string
	ZipCode  string
	Country  string
}

package checkout

import "errors"

var (
	ErrEmptyCart              = errors.New("cart is empty, nothing to checkout")
	ErrIncompleteShippingInfo = errors.New("all shipping address fields are required")
	ErrInvalidPaymentMethod   = errors.New("payment method must be credit or debit")
	ErrNotAuthenticated       = errors.New("sign in before placing an order")
	ErrSubmissionInFlight     = errors.New("a submission is already in progress")
)

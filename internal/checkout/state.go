package checkout

import "errors"

type State string

const (
	StateCollecting                  State = "collecting"
	StateAwaitingPaymentConfirmation State = "awaiting-payment-confirmation"
	StatePaymentConfirmed            State = "payment-confirmed"
	StateSubmitting                  State = "submitting"
	StateCompleted                   State = "completed"
)

// Busy reports whether an external call is in flight.
func (s State) Busy() bool {
	return s == StateAwaitingPaymentConfirmation || s == StatePaymentConfirmed || s == StateSubmitting
}

func (s State) String() string {
	return string(s)
}

var (
	ErrEmptyCart        = errors.New("cart is empty, nothing to checkout")
	ErrInProgress       = errors.New("checkout is already in progress")
	ErrCompleted        = errors.New("checkout is already completed")
	ErrPaymentFailed    = errors.New("mobile-money payment failed")
	ErrPaymentCancelled = errors.New("mobile-money payment was cancelled")
	ErrCartChanged      = errors.New("cart changed while the payment was confirmed")
	ErrOrderFailed      = errors.New("order could not be placed")
)

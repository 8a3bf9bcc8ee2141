package payments

import "errors"

var (
	ErrAlreadyPaid         = errors.New("order is already paid or cancelled")
	ErrInsufficientPayment = errors.New("received amount does not cover the order total")
	ErrAmountMismatch      = errors.New("payment parts do not add up to the order total")
	ErrUnknownMethod       = errors.New("unknown payment method")
)

package cashier

import "errors"

var (
	ErrSessionNotFound     = errors.New("cash session not found")
	ErrSessionAlreadyOpen  = errors.New("a cash session is already open")
	ErrSessionNotOpen      = errors.New("cash session is not open")
	ErrInvalidAmount       = errors.New("amount must be greater than 0")
	ErrInvalidMovementType = errors.New("movement type must be in or out")
	ErrSaleNotFound        = errors.New("sale not found")
)

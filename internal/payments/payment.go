package payments

import (
	"fmt"

	"github.com/crepeskaffee/pos/pkg/enums/paymethod"
)

// mixedTolerance absorbs a one-minor-unit rounding gap when a guest splits
// the bill between cash and card. Anything larger is a mismatch.
const mixedTolerance = 1

// PaymentDetail is the method-specific breakdown the terminal captures.
// Received applies to cash payments; CashPart and CardPart to mixed ones.
// Amounts are minor currency units.
type PaymentDetail struct {
	Method   string `json:"method"`
	Received int64  `json:"received,omitempty"`
	CashPart int64  `json:"cash_part,omitempty"`
	CardPart int64  `json:"card_part,omitempty"`
}

// Validate checks the detail against the order total and returns the change
// due back to the guest. Nothing is mutated; a validation failure leaves
// order, table and session exactly as they were.
func (d PaymentDetail) Validate(total int64) (change int64, err error) {
	switch d.Method {
	case paymethod.Methods.Cash.Name:
		if d.Received < total {
			return 0, fmt.Errorf("received %d of %d: %w", d.Received, total, ErrInsufficientPayment)
		}
		return d.Received - total, nil

	case paymethod.Methods.Card.Name, paymethod.Methods.Transfer.Name:
		return 0, nil

	case paymethod.Methods.Mixed.Name:
		if d.CashPart < 0 || d.CardPart < 0 {
			return 0, fmt.Errorf("payment parts cannot be negative: %w", ErrAmountMismatch)
		}
		diff := d.CashPart + d.CardPart - total
		if diff < -mixedTolerance || diff > mixedTolerance {
			return 0, fmt.Errorf("cash %d + card %d vs total %d: %w", d.CashPart, d.CardPart, total, ErrAmountMismatch)
		}
		return 0, nil

	default:
		return 0, fmt.Errorf("%q: %w", d.Method, ErrUnknownMethod)
	}
}

// cashComponent is the amount that physically enters the drawer.
func (d PaymentDetail) cashComponent(total int64) int64 {
	switch d.Method {
	case paymethod.Methods.Cash.Name:
		return total
	case paymethod.Methods.Mixed.Name:
		return d.CashPart
	default:
		return 0
	}
}

// cardComponent is the amount charged to a card.
func (d PaymentDetail) cardComponent(total int64) int64 {
	switch d.Method {
	case paymethod.Methods.Card.Name:
		return total
	case paymethod.Methods.Mixed.Name:
		return d.CardPart
	default:
		return 0
	}
}

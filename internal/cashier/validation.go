package cashier

import "context"

func ValidateSessionOpen(ctx context.Context, req SessionOpenRequest) []string {
	var errors []string

	if req.UserID == "" {
		errors = append(errors, "user_id is required")
	}

	if req.InitialAmount < 0 {
		errors = append(errors, "initial_amount cannot be negative")
	}

	return errors
}

func ValidateMovement(ctx context.Context, req MovementRequest) []string {
	var errors []string

	if req.Type != MovementIn && req.Type != MovementOut {
		errors = append(errors, "type must be in or out")
	}

	if req.Amount <= 0 {
		errors = append(errors, "amount must be greater than 0")
	}

	return errors
}

func ValidateSessionClose(ctx context.Context, req SessionCloseRequest) []string {
	var errors []string

	if req.CountedAmount < 0 {
		errors = append(errors, "counted_amount cannot be negative")
	}

	return errors
}

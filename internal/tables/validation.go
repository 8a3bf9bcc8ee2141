package tables

import (
	"context"

	"github.com/google/uuid"
)

func ValidateTableCreate(ctx context.Context, req TableCreateRequest) []string {
	var errors []string

	if req.Number <= 0 {
		errors = append(errors, "number must be greater than 0")
	}

	if req.Capacity <= 0 {
		errors = append(errors, "capacity must be greater than 0")
	}

	return errors
}

func ValidateTableAssign(ctx context.Context, req TableAssignRequest) []string {
	var errors []string

	if req.OrderID == uuid.Nil {
		errors = append(errors, "order_id is required")
	}

	return errors
}

package catalog

import (
	"context"
	"strings"
)

func ValidateProductCreate(ctx context.Context, req ProductCreateRequest) []string {
	var errors []string

	if strings.TrimSpace(req.Name) == "" {
		errors = append(errors, "name is required")
	}

	if req.Price <= 0 {
		errors = append(errors, "price must be greater than 0")
	}

	if req.Cost < 0 {
		errors = append(errors, "cost cannot be negative")
	}

	return errors
}

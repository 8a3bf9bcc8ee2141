package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

func ValidateOrderCreate(ctx context.Context, req OrderCreateRequest) []string {
	var errors []string

	if len(req.Items) == 0 {
		errors = append(errors, "order must contain at least one item")
	}

	if req.DineIn {
		if req.TableNumber == nil {
			errors = append(errors, "table_number is required for dine-in orders")
		} else if *req.TableNumber <= 0 {
			errors = append(errors, "table_number must be greater than 0")
		}
	}

	for i, item := range req.Items {
		if item.ProductID == uuid.Nil {
			errors = append(errors, fmt.Sprintf("items[%d]: product_id is required", i))
		}
		if item.Quantity <= 0 {
			errors = append(errors, fmt.Sprintf("items[%d]: quantity must be greater than 0", i))
		}
	}

	return errors
}

func ValidateOrderStatus(ctx context.Context, req OrderStatusRequest) []string {
	var errors []string

	if req.Status == "" {
		errors = append(errors, "status is required")
	}

	return errors
}

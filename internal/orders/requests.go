package orders

import "github.com/google/uuid"

type OrderItemRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

type OrderCreateRequest struct {
	DineIn      bool               `json:"dine_in"`
	TableNumber *int               `json:"table_number,omitempty"`
	Items       []OrderItemRequest `json:"items"`
	CreatedBy   string             `json:"created_by,omitempty"`
}

type OrderStatusRequest struct {
	Status string `json:"status"`
}

type OrderItemUpdateRequest struct {
	Quantity int `json:"quantity"`
}

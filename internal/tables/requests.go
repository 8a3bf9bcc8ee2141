package tables

import "github.com/google/uuid"

type TableCreateRequest struct {
	Number   int    `json:"number"`
	Capacity int    `json:"capacity"`
	Location string `json:"location,omitempty"`
}

type TableAssignRequest struct {
	OrderID uuid.UUID `json:"order_id"`
}

type TableReleaseRequest struct {
	OrderID uuid.UUID `json:"order_id"`
}

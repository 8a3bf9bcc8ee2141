package pkg

import "time"

const (
	// TableStatusTopic delivers authoritative status changes for tables.
	// Every terminal sharing the store subscribes to it to keep its local
	// table board in sync without polling.
	TableStatusTopic = "tables.status"
	// OrderStatusTopic delivers order lifecycle transitions.
	OrderStatusTopic = "orders.status"
	// CashSessionTopic groups cash drawer lifecycle and movement events.
	CashSessionTopic = "cash.sessions"
	// SalesTopic delivers finalized sales produced by the payment processor.
	SalesTopic = "sales"

	// EventTableStatusChanged identifies a table status change payload.
	EventTableStatusChanged = "table.status.changed"
	// EventOrderStatusChanged identifies an order status change payload.
	EventOrderStatusChanged = "order.status.changed"
	// EventCashSessionOpened identifies a cash session open payload.
	EventCashSessionOpened = "cash.session.opened"
	// EventCashSessionClosed identifies a cash session close payload.
	EventCashSessionClosed = "cash.session.closed"
	// EventCashMovementAdded identifies a cash in/out movement payload.
	EventCashMovementAdded = "cash.movement.added"
	// EventSaleRecorded identifies a recorded sale payload.
	EventSaleRecorded = "sale.recorded"
)

// TableStatusEvent captures the minimal information another terminal needs
// to reason about a table's availability.
type TableStatusEvent struct {
	EventType      string    `json:"event_type"`
	TableID        string    `json:"table_id"`
	TableNumber    int       `json:"table_number"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	OrderID        string    `json:"order_id,omitempty"`
	Reason         string    `json:"reason,omitempty"`
	Source         string    `json:"source,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// OrderStatusEvent captures an order lifecycle transition.
type OrderStatusEvent struct {
	EventType      string    `json:"event_type"`
	OrderID        string    `json:"order_id"`
	TableNumber    *int      `json:"table_number,omitempty"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	Total          int64     `json:"total"`
	Reason         string    `json:"reason,omitempty"`
	Source         string    `json:"source,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// CashSessionEvent captures cash drawer lifecycle changes and movements.
// Amount carries the movement amount (or the initial/counted amount for
// open/close events) in minor currency units.
type CashSessionEvent struct {
	EventType    string    `json:"event_type"`
	SessionID    string    `json:"session_id"`
	UserID       string    `json:"user_id,omitempty"`
	MovementType string    `json:"movement_type,omitempty"`
	Amount       int64     `json:"amount"`
	Difference   *int64    `json:"difference,omitempty"`
	Source       string    `json:"source,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// SaleRecordedEvent is published exactly once per successfully paid order.
type SaleRecordedEvent struct {
	EventType   string    `json:"event_type"`
	SaleID      string    `json:"sale_id"`
	OrderID     string    `json:"order_id"`
	SessionID   string    `json:"session_id"`
	TableNumber *int      `json:"table_number,omitempty"`
	Total       int64     `json:"total"`
	Method      string    `json:"method"`
	Source      string    `json:"source,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

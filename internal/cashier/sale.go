package cashier

import (
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"

	"github.com/crepeskaffee/pos/internal/orders"
)

// Sale is the immutable record of one paid order. Items are copied from
// the order so later order edits can never rewrite history. CashAmount,
// CardAmount and TransferAmount break the total down by tender; for a
// single-method sale the matching field carries the whole total.
type Sale struct {
	ID             uuid.UUID          `json:"id" bson:"_id"`
	SessionID      uuid.UUID          `json:"session_id" bson:"session_id"`
	OrderID        uuid.UUID          `json:"order_id" bson:"order_id"`
	TableNumber    *int               `json:"table_number,omitempty" bson:"table_number,omitempty"`
	Items          []orders.OrderItem `json:"items" bson:"items"`
	Total          int64              `json:"total" bson:"total"`
	Method         string             `json:"method" bson:"method"`
	CashAmount     int64              `json:"cash_amount,omitempty" bson:"cash_amount,omitempty"`
	CardAmount     int64              `json:"card_amount,omitempty" bson:"card_amount,omitempty"`
	TransferAmount int64              `json:"transfer_amount,omitempty" bson:"transfer_amount,omitempty"`
	CashierID      string             `json:"cashier_id,omitempty" bson:"cashier_id,omitempty"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
}

func (s *Sale) GetID() uuid.UUID {
	return s.ID
}

func (s *Sale) ResourceType() string {
	return "sale"
}

func (s *Sale) SetID(id uuid.UUID) {
	s.ID = id
}

func NewSale() *Sale {
	return &Sale{
		ID: apt.GenerateNewID(),
	}
}

func (s *Sale) EnsureID() {
	if s.ID == uuid.Nil {
		s.ID = apt.GenerateNewID()
	}
}

func (s *Sale) BeforeCreate() {
	s.EnsureID()
	s.CreatedAt = time.Now()
}

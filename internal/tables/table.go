package tables

import (
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"

	"github.com/crepeskaffee/pos/pkg/enums/tablestatus"
)

// Table is a physical table in the room. Number is the stable human-facing
// identifier; ID is the storage identity. A table is occupied exactly while
// CurrentOrderID points at an order that has not yet been paid or cancelled.
type Table struct {
	ID             uuid.UUID  `json:"id" bson:"_id"`
	Number         int        `json:"number" bson:"number"`
	Capacity       int        `json:"capacity" bson:"capacity"`
	Location       string     `json:"location,omitempty" bson:"location,omitempty"`
	Status         string     `json:"status" bson:"status"`
	CurrentOrderID *uuid.UUID `json:"current_order_id,omitempty" bson:"current_order_id,omitempty"`
	LastActivityAt time.Time  `json:"last_activity_at" bson:"last_activity_at"`
	CreatedAt      time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" bson:"updated_at"`
}

func (t *Table) GetID() uuid.UUID {
	return t.ID
}

func (t *Table) ResourceType() string {
	return "table"
}

func (t *Table) SetID(id uuid.UUID) {
	t.ID = id
}

func NewTable() *Table {
	return &Table{
		ID:     apt.GenerateNewID(),
		Status: tablestatus.Statuses.Free.Name,
	}
}

func (t *Table) EnsureID() {
	if t.ID == uuid.Nil {
		t.ID = apt.GenerateNewID()
	}
}

func (t *Table) BeforeCreate() {
	t.EnsureID()
	t.CreatedAt = time.Now()
	t.UpdatedAt = time.Now()
}

func (t *Table) BeforeUpdate() {
	t.UpdatedAt = time.Now()
}

func (t *Table) IsFree() bool {
	return t.Status == tablestatus.Statuses.Free.Name
}

// Occupy links the table to an order and marks it occupied.
func (t *Table) Occupy(orderID uuid.UUID) {
	t.Status = tablestatus.Statuses.Occupied.Name
	t.CurrentOrderID = &orderID
	t.touch()
}

// Release clears the order link and frees the table.
func (t *Table) Release() {
	t.Status = tablestatus.Statuses.Free.Name
	t.CurrentOrderID = nil
	t.touch()
}

// MarkCleaning clears the order link but keeps the table blocked until a
// human confirms it was wiped down.
func (t *Table) MarkCleaning() {
	t.Status = tablestatus.Statuses.Cleaning.Name
	t.CurrentOrderID = nil
	t.touch()
}

func (t *Table) MarkClean() {
	t.Status = tablestatus.Statuses.Free.Name
	t.CurrentOrderID = nil
	t.touch()
}

// References reports whether the table currently links to the given order.
func (t *Table) References(orderID uuid.UUID) bool {
	return t.CurrentOrderID != nil && *t.CurrentOrderID == orderID
}

func (t *Table) touch() {
	now := time.Now()
	t.LastActivityAt = now
	t.UpdatedAt = now
}

package cashier

import (
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"

	"github.com/crepeskaffee/pos/pkg/enums/paymethod"
)

const (
	SessionStatusOpen   = "open"
	SessionStatusClosed = "closed"

	MovementOpening = "opening"
	MovementClosing = "closing"
	MovementIn      = "in"
	MovementOut     = "out"
)

// CashSession is one register shift. All amounts are minor currency units.
// TotalCash starts at the opening float, so the drawer invariant is
// CurrentAmount == TotalCash + Σin − Σout at all times while open.
type CashSession struct {
	ID            uuid.UUID      `json:"id" bson:"_id"`
	UserID        string         `json:"user_id" bson:"user_id"`
	UserName      string         `json:"user_name" bson:"user_name"`
	OpenedAt      time.Time      `json:"opened_at" bson:"opened_at"`
	ClosedAt      *time.Time     `json:"closed_at,omitempty" bson:"closed_at,omitempty"`
	Status        string         `json:"status" bson:"status"`
	InitialAmount int64          `json:"initial_amount" bson:"initial_amount"`
	CurrentAmount int64          `json:"current_amount" bson:"current_amount"`
	TotalSales    int64          `json:"total_sales" bson:"total_sales"`
	TotalCash     int64          `json:"total_cash" bson:"total_cash"`
	TotalCard     int64          `json:"total_card" bson:"total_card"`
	TotalTransfer int64          `json:"total_transfer" bson:"total_transfer"`
	TotalMixed    int64          `json:"total_mixed" bson:"total_mixed"`
	FinalAmount   *int64         `json:"final_amount,omitempty" bson:"final_amount,omitempty"`
	Difference    *int64         `json:"difference,omitempty" bson:"difference,omitempty"`
	Movements     []CashMovement `json:"movements" bson:"movements"`
	Notes         string         `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt     time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" bson:"updated_at"`
}

// CashMovement is an append-only drawer adjustment. Opening and closing
// entries bookend the shift; only in/out entries move the expected cash.
type CashMovement struct {
	ID          uuid.UUID `json:"id" bson:"id"`
	Type        string    `json:"type" bson:"type"`
	Amount      int64     `json:"amount" bson:"amount"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	UserID      string    `json:"user_id,omitempty" bson:"user_id,omitempty"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

func (s *CashSession) GetID() uuid.UUID {
	return s.ID
}

func (s *CashSession) ResourceType() string {
	return "cash-session"
}

func (s *CashSession) SetID(id uuid.UUID) {
	s.ID = id
}

func NewCashSession(userID, userName string, initialAmount int64) *CashSession {
	return &CashSession{
		ID:            apt.GenerateNewID(),
		UserID:        userID,
		UserName:      userName,
		Status:        SessionStatusOpen,
		InitialAmount: initialAmount,
		CurrentAmount: initialAmount,
		TotalCash:     initialAmount,
	}
}

func (s *CashSession) EnsureID() {
	if s.ID == uuid.Nil {
		s.ID = apt.GenerateNewID()
	}
}

func (s *CashSession) BeforeCreate() {
	s.EnsureID()
	s.CreatedAt = time.Now()
	s.UpdatedAt = time.Now()
}

func (s *CashSession) BeforeUpdate() {
	s.UpdatedAt = time.Now()
}

// IsOpen reports whether the session still accepts sales and movements.
func (s *CashSession) IsOpen() bool {
	return s.Status == SessionStatusOpen
}

// ExpectedCash is the money the drawer should hold right now. It must
// equal CurrentAmount while the session is open.
func (s *CashSession) ExpectedCash() int64 {
	expected := s.TotalCash
	for _, m := range s.Movements {
		switch m.Type {
		case MovementIn:
			expected += m.Amount
		case MovementOut:
			expected -= m.Amount
		}
	}
	return expected
}

// ApplySale folds a finalized sale into the running totals. Only the cash
// component touches CurrentAmount; card and transfer money never sits in
// the drawer.
func (s *CashSession) ApplySale(sale *Sale) {
	s.TotalSales += sale.Total

	switch sale.Method {
	case paymethod.Methods.Cash.Name:
		s.TotalCash += sale.Total
		s.CurrentAmount += sale.Total
	case paymethod.Methods.Card.Name:
		s.TotalCard += sale.Total
	case paymethod.Methods.Transfer.Name:
		s.TotalTransfer += sale.Total
	case paymethod.Methods.Mixed.Name:
		s.TotalMixed += sale.Total
		s.TotalCash += sale.CashAmount
		s.TotalCard += sale.CardAmount
		s.CurrentAmount += sale.CashAmount
	}

	s.UpdatedAt = time.Now()
}

// AppendMovement logs a drawer adjustment and applies it to the running
// balance. Opening and closing entries are informational only.
func (s *CashSession) AppendMovement(m CashMovement) {
	switch m.Type {
	case MovementIn:
		s.CurrentAmount += m.Amount
	case MovementOut:
		s.CurrentAmount -= m.Amount
	}
	s.Movements = append(s.Movements, m)
	s.UpdatedAt = time.Now()
}

// CloseWith freezes the session against the counted drawer amount.
func (s *CashSession) CloseWith(countedAmount int64, notes string) {
	now := time.Now()
	difference := countedAmount - s.ExpectedCash()

	s.Status = SessionStatusClosed
	s.FinalAmount = &countedAmount
	s.Difference = &difference
	s.ClosedAt = &now
	if notes != "" {
		s.Notes = notes
	}
	s.UpdatedAt = now
}

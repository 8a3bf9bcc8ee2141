package cashier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"
	"github.com/google/uuid"

	"github.com/crepeskaffee/pos/pkg"
)

const sessionEventSource = "pos-terminal"

// Ledger owns the cash drawer. It always re-fetches the persisted session
// before mutating so two terminals sharing the store see each other's
// writes as soon as possible.
type Ledger struct {
	sessions  SessionRepo
	sales     SaleRepo
	publisher events.Publisher
	logger    apt.Logger
}

func NewLedger(sessions SessionRepo, sales SaleRepo, publisher events.Publisher, logger apt.Logger) *Ledger {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Ledger{
		sessions:  sessions,
		sales:     sales,
		publisher: publisher,
		logger:    logger,
	}
}

// Open starts the register shift. Only one session may be open at a time.
func (l *Ledger) Open(ctx context.Context, userID, userName string, initialAmount int64, notes string) (*CashSession, error) {
	if initialAmount < 0 {
		return nil, fmt.Errorf("initial amount cannot be negative: %w", ErrInvalidAmount)
	}

	open, err := l.sessions.GetOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot check for open session: %w", err)
	}
	if open != nil {
		return nil, ErrSessionAlreadyOpen
	}

	session := NewCashSession(userID, userName, initialAmount)
	session.Notes = notes
	session.BeforeCreate()
	session.AppendMovement(CashMovement{
		ID:          apt.GenerateNewID(),
		Type:        MovementOpening,
		Amount:      initialAmount,
		Description: "opening float",
		UserID:      userID,
		CreatedAt:   time.Now(),
	})

	if err := l.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("cannot create cash session: %w", err)
	}

	l.publishSessionEvent(ctx, pkg.CashSessionEvent{
		EventType: pkg.EventCashSessionOpened,
		SessionID: session.ID.String(),
		UserID:    userID,
		Amount:    initialAmount,
	})
	return session, nil
}

// Get returns one session, open or closed.
func (l *Ledger) Get(ctx context.Context, id uuid.UUID) (*CashSession, error) {
	session, err := l.sessions.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("cannot load cash session %s: %w", id, err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// CurrentOpen returns the open session, freshly read from the store.
func (l *Ledger) CurrentOpen(ctx context.Context) (*CashSession, error) {
	session, err := l.sessions.GetOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot load open session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotOpen
	}
	return session, nil
}

// RecordSale persists a finalized sale and folds it into the open session's
// totals. The sale record is written first; it is immutable history even if
// the session update fails and the sweep has to flag the divergence.
func (l *Ledger) RecordSale(ctx context.Context, sale *Sale) (*CashSession, error) {
	session, err := l.CurrentOpen(ctx)
	if err != nil {
		return nil, err
	}

	sale.SessionID = session.ID
	sale.BeforeCreate()
	if err := l.sales.Create(ctx, sale); err != nil {
		return nil, fmt.Errorf("cannot create sale: %w", err)
	}

	session.ApplySale(sale)
	session.BeforeUpdate()
	if err := l.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("cannot save cash session: %w", err)
	}

	return session, nil
}

// AddMovement logs a manual drawer adjustment (petty cash in, supplier
// payout, etc.) on the open session.
func (l *Ledger) AddMovement(ctx context.Context, sessionID uuid.UUID, movementType string, amount int64, description, userID string) (*CashSession, error) {
	if movementType != MovementIn && movementType != MovementOut {
		return nil, fmt.Errorf("%q: %w", movementType, ErrInvalidMovementType)
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	session, err := l.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsOpen() {
		return nil, ErrSessionNotOpen
	}

	session.AppendMovement(CashMovement{
		ID:          apt.GenerateNewID(),
		Type:        movementType,
		Amount:      amount,
		Description: description,
		UserID:      userID,
		CreatedAt:   time.Now(),
	})
	session.BeforeUpdate()

	if err := l.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("cannot save cash session: %w", err)
	}

	l.publishSessionEvent(ctx, pkg.CashSessionEvent{
		EventType:    pkg.EventCashMovementAdded,
		SessionID:    session.ID.String(),
		UserID:       userID,
		MovementType: movementType,
		Amount:       amount,
	})
	return session, nil
}

// Close reconciles the drawer against the counted amount and freezes the
// session. A surplus or deficit is reported, never a reason to refuse the
// close.
func (l *Ledger) Close(ctx context.Context, sessionID uuid.UUID, countedAmount int64, notes, userID string) (*CashSession, error) {
	if countedAmount < 0 {
		return nil, fmt.Errorf("counted amount cannot be negative: %w", ErrInvalidAmount)
	}

	session, err := l.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsOpen() {
		return nil, ErrSessionNotOpen
	}

	if expected := session.ExpectedCash(); expected != session.CurrentAmount {
		l.logger.Error("cash session balance diverged",
			"session_id", session.ID.String(),
			"expected", expected,
			"current", session.CurrentAmount)
	}

	session.AppendMovement(CashMovement{
		ID:          apt.GenerateNewID(),
		Type:        MovementClosing,
		Amount:      countedAmount,
		Description: "counted at close",
		UserID:      userID,
		CreatedAt:   time.Now(),
	})
	session.CloseWith(countedAmount, notes)
	session.BeforeUpdate()

	if err := l.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("cannot save cash session: %w", err)
	}

	l.publishSessionEvent(ctx, pkg.CashSessionEvent{
		EventType:  pkg.EventCashSessionClosed,
		SessionID:  session.ID.String(),
		UserID:     userID,
		Amount:     countedAmount,
		Difference: session.Difference,
	})
	return session, nil
}

// VerifyOpenSession checks the drawer invariant on the open session, if
// any. It returns the divergence (0 means balanced) for the caller to log.
func (l *Ledger) VerifyOpenSession(ctx context.Context) (int64, error) {
	session, err := l.sessions.GetOpen(ctx)
	if err != nil {
		return 0, fmt.Errorf("cannot load open session: %w", err)
	}
	if session == nil {
		return 0, nil
	}
	return session.CurrentAmount - session.ExpectedCash(), nil
}

func (l *Ledger) publishSessionEvent(ctx context.Context, evt pkg.CashSessionEvent) {
	if l.publisher == nil {
		return
	}
	evt.Source = sessionEventSource
	evt.OccurredAt = time.Now()

	payload, err := json.Marshal(evt)
	if err != nil {
		l.logger.Error("cannot marshal cash session event", "error", err)
		return
	}
	if err := l.publisher.Publish(ctx, pkg.CashSessionTopic, payload); err != nil {
		l.logger.Error("cannot publish cash session event", "error", err, "session_id", evt.SessionID)
	}
}

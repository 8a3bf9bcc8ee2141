package cashier

import (
	"context"

	"github.com/google/uuid"
)

type SessionRepo interface {
	Create(ctx context.Context, session *CashSession) error
	Get(ctx context.Context, id uuid.UUID) (*CashSession, error)
	GetOpen(ctx context.Context) (*CashSession, error)
	List(ctx context.Context) ([]*CashSession, error)
	Save(ctx context.Context, session *CashSession) error
}

type SaleRepo interface {
	Create(ctx context.Context, sale *Sale) error
	Get(ctx context.Context, id uuid.UUID) (*Sale, error)
	List(ctx context.Context) ([]*Sale, error)
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*Sale, error)
}

package sweep

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/crepeskaffee/pos/internal/cashier"
	"github.com/crepeskaffee/pos/internal/tables"
	"github.com/crepeskaffee/pos/pkg/enums/tablestatus"
)

type activeOrderSourceFunc func(ctx context.Context) (map[uuid.UUID]struct{}, error)

func (f activeOrderSourceFunc) ActiveOrderIDs(ctx context.Context) (map[uuid.UUID]struct{}, error) {
	return f(ctx)
}

type memTableRepo struct {
	mu     sync.RWMutex
	tables map[uuid.UUID]*tables.Table
}

func newMemTableRepo() *memTableRepo {
	return &memTableRepo{tables: make(map[uuid.UUID]*tables.Table)}
}

func (m *memTableRepo) Create(ctx context.Context, table *tables.Table) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[table.ID] = table
	return nil
}

func (m *memTableRepo) Get(ctx context.Context, id uuid.UUID) (*tables.Table, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tables[id], nil
}

func (m *memTableRepo) GetByNumber(ctx context.Context, number int) (*tables.Table, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, table := range m.tables {
		if table.Number == number {
			return table, nil
		}
	}
	return nil, nil
}

func (m *memTableRepo) List(ctx context.Context) ([]*tables.Table, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*tables.Table
	for _, table := range m.tables {
		result = append(result, table)
	}
	return result, nil
}

func (m *memTableRepo) ListByStatus(ctx context.Context, status string) ([]*tables.Table, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*tables.Table
	for _, table := range m.tables {
		if table.Status == status {
			result = append(result, table)
		}
	}
	return result, nil
}

func (m *memTableRepo) Save(ctx context.Context, table *tables.Table) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[table.ID] = table
	return nil
}

func (m *memTableRepo) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tables, id)
	return nil
}

type memSessionRepo struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*cashier.CashSession
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: make(map[uuid.UUID]*cashier.CashSession)}
}

func (m *memSessionRepo) Create(ctx context.Context, session *cashier.CashSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = session
	return nil
}

func (m *memSessionRepo) Get(ctx context.Context, id uuid.UUID) (*cashier.CashSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[id], nil
}

func (m *memSessionRepo) GetOpen(ctx context.Context) (*cashier.CashSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.sessions {
		if s.Status == cashier.SessionStatusOpen {
			return s, nil
		}
	}
	return nil, nil
}

func (m *memSessionRepo) List(ctx context.Context) ([]*cashier.CashSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*cashier.CashSession
	for _, s := range m.sessions {
		result = append(result, s)
	}
	return result, nil
}

func (m *memSessionRepo) Save(ctx context.Context, session *cashier.CashSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = session
	return nil
}

type memSaleRepo struct{}

func (memSaleRepo) Create(ctx context.Context, sale *cashier.Sale) error { return nil }
func (memSaleRepo) Get(ctx context.Context, id uuid.UUID) (*cashier.Sale, error) {
	return nil, nil
}
func (memSaleRepo) List(ctx context.Context) ([]*cashier.Sale, error) { return nil, nil }
func (memSaleRepo) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*cashier.Sale, error) {
	return nil, nil
}

func TestSweeperRunOnceRepairsOrphans(t *testing.T) {
	ctx := context.Background()
	tableRepo := newMemTableRepo()
	registry := tables.NewRegistry(tableRepo, nil, nil)
	ledger := cashier.NewLedger(newMemSessionRepo(), memSaleRepo{}, nil, nil)

	table := tables.NewTable()
	table.Number = 3
	table.Capacity = 4
	table.BeforeCreate()
	if err := tableRepo.Create(ctx, table); err != nil {
		t.Fatalf("cannot seed table: %v", err)
	}

	deadOrder := uuid.New()
	if _, err := registry.Assign(ctx, 3, deadOrder); err != nil {
		t.Fatalf("Assign() error = %v", err)
	}

	source := activeOrderSourceFunc(func(ctx context.Context) (map[uuid.UUID]struct{}, error) {
		return map[uuid.UUID]struct{}{}, nil
	})

	sweeper := NewSweeper(time.Hour, source, registry, ledger, nil)
	sweeper.RunOnce(ctx)

	repaired, err := registry.Get(ctx, 3)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if repaired.Status != tablestatus.Statuses.Free.Name {
		t.Errorf("table status = %s, want free", repaired.Status)
	}
	if repaired.CurrentOrderID != nil {
		t.Errorf("table order ref = %v, want nil", repaired.CurrentOrderID)
	}
}

func TestSweeperStartStop(t *testing.T) {
	calls := make(chan struct{}, 16)
	source := activeOrderSourceFunc(func(ctx context.Context) (map[uuid.UUID]struct{}, error) {
		select {
		case calls <- struct{}{}:
		default:
		}
		return map[uuid.UUID]struct{}{}, nil
	})

	registry := tables.NewRegistry(newMemTableRepo(), nil, nil)
	ledger := cashier.NewLedger(newMemSessionRepo(), memSaleRepo{}, nil, nil)

	sweeper := NewSweeper(5*time.Millisecond, source, registry, ledger, nil)
	sweeper.Start(context.Background())

	select {
	case <-calls:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not run")
	}

	sweeper.Stop()

	// Stop is idempotent.
	sweeper.Stop()
}

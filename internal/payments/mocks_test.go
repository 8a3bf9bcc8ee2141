package payments

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/crepeskaffee/pos/internal/cashier"
	"github.com/crepeskaffee/pos/internal/orders"
	"github.com/crepeskaffee/pos/internal/tables"
)

// MockPublisher is a mock implementation of events.Publisher for testing
type MockPublisher struct {
	mu          sync.Mutex
	PublishFunc func(ctx context.Context, topic string, msg []byte) error
	topics      []string
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, msg []byte) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, msg)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.topics = append(m.topics, topic)
	return nil
}

func (m *MockPublisher) Topics() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.topics...)
}

// MockOrderRepo is a mock implementation of orders.OrderRepo for testing
type MockOrderRepo struct {
	mu       sync.RWMutex
	orders   map[uuid.UUID]*orders.Order
	SaveFunc func(ctx context.Context, order *orders.Order) error
}

func NewMockOrderRepo() *MockOrderRepo {
	return &MockOrderRepo{
		orders: make(map[uuid.UUID]*orders.Order),
	}
}

func (m *MockOrderRepo) Create(ctx context.Context, order *orders.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[order.ID] = order
	return nil
}

func (m *MockOrderRepo) Get(ctx context.Context, id uuid.UUID) (*orders.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.orders[id], nil
}

func (m *MockOrderRepo) List(ctx context.Context) ([]*orders.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*orders.Order
	for _, o := range m.orders {
		result = append(result, o)
	}
	return result, nil
}

func (m *MockOrderRepo) ListByStatus(ctx context.Context, status string) ([]*orders.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*orders.Order
	for _, o := range m.orders {
		if o.Status == status {
			result = append(result, o)
		}
	}
	return result, nil
}

func (m *MockOrderRepo) ListActive(ctx context.Context) ([]*orders.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*orders.Order
	for _, o := range m.orders {
		if o.IsActive() {
			result = append(result, o)
		}
	}
	return result, nil
}

func (m *MockOrderRepo) Save(ctx context.Context, order *orders.Order) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, order)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[order.ID] = order
	return nil
}

func (m *MockOrderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.orders, id)
	return nil
}

// MockSessionRepo is a mock implementation of cashier.SessionRepo for testing
type MockSessionRepo struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*cashier.CashSession
}

func NewMockSessionRepo() *MockSessionRepo {
	return &MockSessionRepo{
		sessions: make(map[uuid.UUID]*cashier.CashSession),
	}
}

func (m *MockSessionRepo) Create(ctx context.Context, session *cashier.CashSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = session
	return nil
}

func (m *MockSessionRepo) Get(ctx context.Context, id uuid.UUID) (*cashier.CashSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[id], nil
}

func (m *MockSessionRepo) GetOpen(ctx context.Context) (*cashier.CashSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.sessions {
		if s.Status == cashier.SessionStatusOpen {
			return s, nil
		}
	}
	return nil, nil
}

func (m *MockSessionRepo) List(ctx context.Context) ([]*cashier.CashSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*cashier.CashSession
	for _, s := range m.sessions {
		result = append(result, s)
	}
	return result, nil
}

func (m *MockSessionRepo) Save(ctx context.Context, session *cashier.CashSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = session
	return nil
}

// MockSaleRepo is a mock implementation of cashier.SaleRepo for testing
type MockSaleRepo struct {
	mu    sync.RWMutex
	sales map[uuid.UUID]*cashier.Sale
}

func NewMockSaleRepo() *MockSaleRepo {
	return &MockSaleRepo{
		sales: make(map[uuid.UUID]*cashier.Sale),
	}
}

func (m *MockSaleRepo) Create(ctx context.Context, sale *cashier.Sale) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sales[sale.ID] = sale
	return nil
}

func (m *MockSaleRepo) Get(ctx context.Context, id uuid.UUID) (*cashier.Sale, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sales[id], nil
}

func (m *MockSaleRepo) List(ctx context.Context) ([]*cashier.Sale, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*cashier.Sale
	for _, s := range m.sales {
		result = append(result, s)
	}
	return result, nil
}

func (m *MockSaleRepo) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*cashier.Sale, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*cashier.Sale
	for _, s := range m.sales {
		if s.SessionID == sessionID {
			result = append(result, s)
		}
	}
	return result, nil
}

// MockTableRepo is a mock implementation of tables.TableRepo for testing
type MockTableRepo struct {
	mu     sync.RWMutex
	tables map[uuid.UUID]*tables.Table
}

func NewMockTableRepo() *MockTableRepo {
	return &MockTableRepo{
		tables: make(map[uuid.UUID]*tables.Table),
	}
}

func (m *MockTableRepo) Create(ctx context.Context, table *tables.Table) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[table.ID] = table
	return nil
}

func (m *MockTableRepo) Get(ctx context.Context, id uuid.UUID) (*tables.Table, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tables[id], nil
}

func (m *MockTableRepo) GetByNumber(ctx context.Context, number int) (*tables.Table, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, table := range m.tables {
		if table.Number == number {
			return table, nil
		}
	}
	return nil, nil
}

func (m *MockTableRepo) List(ctx context.Context) ([]*tables.Table, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*tables.Table
	for _, table := range m.tables {
		result = append(result, table)
	}
	return result, nil
}

func (m *MockTableRepo) ListByStatus(ctx context.Context, status string) ([]*tables.Table, error) {
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

func (m *MockTableRepo) Save(ctx context.Context, table *tables.Table) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[table.ID] = table
	return nil
}

func (m *MockTableRepo) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tables, id)
	return nil
}

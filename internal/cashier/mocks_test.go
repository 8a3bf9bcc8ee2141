package cashier

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MockPublisher is a mock implementation of events.Publisher for testing
type MockPublisher struct {
	mu          sync.Mutex
	PublishFunc func(ctx context.Context, topic string, msg []byte) error
	published   [][]byte
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
	m.published = append(m.published, msg)
	return nil
}

// MockSessionRepo is a mock implementation of SessionRepo for testing
type MockSessionRepo struct {
	mu         sync.RWMutex
	sessions   map[uuid.UUID]*CashSession
	CreateFunc func(ctx context.Context, session *CashSession) error
	GetOpenFunc func(ctx context.Context) (*CashSession, error)
	SaveFunc   func(ctx context.Context, session *CashSession) error
}

func NewMockSessionRepo() *MockSessionRepo {
	return &MockSessionRepo{
		sessions: make(map[uuid.UUID]*CashSession),
	}
}

func (m *MockSessionRepo) Create(ctx context.Context, session *CashSession) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, session)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = session
	return nil
}

func (m *MockSessionRepo) Get(ctx context.Context, id uuid.UUID) (*CashSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[id], nil
}

func (m *MockSessionRepo) GetOpen(ctx context.Context) (*CashSession, error) {
	if m.GetOpenFunc != nil {
		return m.GetOpenFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.sessions {
		if s.Status == SessionStatusOpen {
			return s, nil
		}
	}
	return nil, nil
}

func (m *MockSessionRepo) List(ctx context.Context) ([]*CashSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*CashSession
	for _, s := range m.sessions {
		result = append(result, s)
	}
	return result, nil
}

func (m *MockSessionRepo) Save(ctx context.Context, session *CashSession) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, session)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = session
	return nil
}

// MockSaleRepo is a mock implementation of SaleRepo for testing
type MockSaleRepo struct {
	mu         sync.RWMutex
	sales      map[uuid.UUID]*Sale
	CreateFunc func(ctx context.Context, sale *Sale) error
}

func NewMockSaleRepo() *MockSaleRepo {
	return &MockSaleRepo{
		sales: make(map[uuid.UUID]*Sale),
	}
}

func (m *MockSaleRepo) Create(ctx context.Context, sale *Sale) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, sale)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sales[sale.ID] = sale
	return nil
}

func (m *MockSaleRepo) Get(ctx context.Context, id uuid.UUID) (*Sale, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sales[id], nil
}

func (m *MockSaleRepo) List(ctx context.Context) ([]*Sale, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*Sale
	for _, s := range m.sales {
		result = append(result, s)
	}
	return result, nil
}

func (m *MockSaleRepo) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*Sale, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*Sale
	for _, s := range m.sales {
		if s.SessionID == sessionID {
			result = append(result, s)
		}
	}
	return result, nil
}

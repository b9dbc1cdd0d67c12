package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"

	"github.com/phrazzld/tasktrack/internal/domain"
	"github.com/phrazzld/tasktrack/internal/events"
	"github.com/stretchr/testify/mock"
)

// MockTaskRepository mocks the TaskRepository interface
type MockTaskRepository struct {
	mock.Mock
	db *sql.DB
}

func (m *MockTaskRepository) ListAll(ctx context.Context) ([]*domain.Task, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Task), args.Error(1)
}

func (m *MockTaskRepository) ListByStatuses(
	ctx context.Context,
	statuses []domain.TaskStatus,
) ([]*domain.Task, error) {
	args := m.Called(ctx, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Task), args.Error(1)
}

func (m *MockTaskRepository) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockTaskRepository) Create(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) Update(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTaskRepository) CountByStatus(ctx context.Context, status domain.TaskStatus) (int, error) {
	args := m.Called(ctx, status)
	return args.Int(0), args.Error(1)
}

// WithTx returns the same mock so expectations apply inside transactions.
func (m *MockTaskRepository) WithTx(tx *sql.Tx) TaskRepository {
	return m
}

func (m *MockTaskRepository) DB() *sql.DB {
	return m.db
}

// MockEventEmitter records emitted events.
type MockEventEmitter struct {
	mu     sync.Mutex
	events []*events.TaskEvent
	err    error
}

func (m *MockEventEmitter) EmitEvent(ctx context.Context, event *events.TaskEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return m.err
}

func (m *MockEventEmitter) Types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, 0, len(m.events))
	for _, e := range m.events {
		types = append(types, e.Type)
	}
	return types
}

// memoryListCache is an in-process ListCache that round-trips values
// through JSON like the Redis implementation.
type memoryListCache struct {
	mu          sync.Mutex
	entries     map[string][]byte
	gets        int
	hits        int
	invalidated int
	generation  int64
}

func newMemoryListCache() *memoryListCache {
	return &memoryListCache{entries: make(map[string][]byte)}
}

func (c *memoryListCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	b, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(b, dest)
}

func (c *memoryListCache) Set(ctx context.Context, key string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = b
	return nil
}

func (c *memoryListCache) InvalidateAll(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.entries = make(map[string][]byte)
	c.invalidated++
	return nil
}

func (c *memoryListCache) Generation(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation, nil
}

func (c *memoryListCache) getCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gets
}

func (c *memoryListCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

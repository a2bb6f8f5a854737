package mocks

import (
	"context"
	"sync"

	"github.com/pathwise-labs/pathwise-core/internal/core/domain"
)

// MockSearchLogStore is a mock implementation of SearchLogStore for testing
type MockSearchLogStore struct {
	mu       sync.RWMutex
	entries  []*domain.SearchQuery
	failNext error
}

// NewMockSearchLogStore creates a new MockSearchLogStore
func NewMockSearchLogStore() *MockSearchLogStore {
	return &MockSearchLogStore{}
}

func (m *MockSearchLogStore) Record(ctx context.Context, entry *domain.SearchQuery) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failNext; err != nil {
		m.failNext = nil
		return err
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *MockSearchLogStore) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries), nil
}

func (m *MockSearchLogStore) CountByUser(ctx context.Context, userID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, entry := range m.entries {
		if entry.UserID != nil && *entry.UserID == userID {
			count++
		}
	}
	return count, nil
}

// Helper methods for testing

func (m *MockSearchLogStore) FailNext(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = err
}

func (m *MockSearchLogStore) Entries() []*domain.SearchQuery {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.SearchQuery, len(m.entries))
	copy(out, m.entries)
	return out
}

func (m *MockSearchLogStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = nil
	m.failNext = nil
}

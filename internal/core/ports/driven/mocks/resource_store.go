package mocks

import (
	"context"
	"sync"

	"github.com/pathwise-labs/pathwise-core/internal/core/domain"
)

// MockResourceStore is a mock implementation of ResourceStore for testing
type MockResourceStore struct {
	mu        sync.RWMutex
	resources map[string]*domain.Resource
	failNext  error
}

// NewMockResourceStore creates a new MockResourceStore
func NewMockResourceStore() *MockResourceStore {
	return &MockResourceStore{
		resources: make(map[string]*domain.Resource),
	}
}

func (m *MockResourceStore) Search(ctx context.Context, criteria domain.SearchCriteria) ([]*domain.Resource, error) {
	m.mu.Lock()
	if err := m.failNext; err != nil {
		m.failNext = nil
		m.mu.Unlock()
		return nil, err
	}
	m.mu.Unlock()

	m.mu.RLock()
	defer m.mu.RUnlock()

	var results []*domain.Resource
	for _, r := range m.resources {
		if criteria.Matches(r) {
			results = append(results, r)
		}
		if criteria.Limit > 0 && len(results) >= criteria.Limit {
			break
		}
	}
	return results, nil
}

func (m *MockResourceStore) Get(ctx context.Context, id string) (*domain.Resource, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.resources[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

func (m *MockResourceStore) Save(ctx context.Context, resource *domain.Resource) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failNext; err != nil {
		m.failNext = nil
		return err
	}
	m.resources[resource.ID] = resource
	return nil
}

func (m *MockResourceStore) List(ctx context.Context, includeInactive bool) ([]*domain.Resource, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var results []*domain.Resource
	for _, r := range m.resources {
		if !includeInactive && !r.IsActive {
			continue
		}
		results = append(results, r)
	}
	return results, nil
}

func (m *MockResourceStore) Deactivate(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.resources[id]
	if !ok {
		return domain.ErrNotFound
	}
	r.IsActive = false
	return nil
}

// Helper methods for testing

func (m *MockResourceStore) FailNext(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = err
}

func (m *MockResourceStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resources = make(map[string]*domain.Resource)
	m.failNext = nil
}

func (m *MockResourceStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.resources)
}

package mocks

import (
	"context"
	"sync"

	"github.com/pathwise-labs/pathwise-core/internal/core/domain"
)

// MockPlanStore is a mock implementation of PlanStore for testing
type MockPlanStore struct {
	mu    sync.RWMutex
	plans map[string]*domain.Plan
}

// NewMockPlanStore creates a new MockPlanStore seeded with the default plans
func NewMockPlanStore() *MockPlanStore {
	m := &MockPlanStore{plans: make(map[string]*domain.Plan)}
	for _, plan := range domain.DefaultPlans() {
		m.plans[plan.ID] = plan
	}
	return m
}

func (m *MockPlanStore) List(ctx context.Context) ([]*domain.Plan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Plan
	for _, plan := range m.plans {
		result = append(result, plan)
	}
	return result, nil
}

func (m *MockPlanStore) Get(ctx context.Context, id string) (*domain.Plan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	plan, ok := m.plans[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return plan, nil
}

func (m *MockPlanStore) Save(ctx context.Context, plan *domain.Plan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plans[plan.ID] = plan
	return nil
}

// Helper methods for testing

func (m *MockPlanStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plans = make(map[string]*domain.Plan)
	for _, plan := range domain.DefaultPlans() {
		m.plans[plan.ID] = plan
	}
}

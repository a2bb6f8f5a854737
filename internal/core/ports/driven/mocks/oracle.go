package mocks

import (
	"context"
	"sync"

	"github.com/pathwise-labs/pathwise-core/internal/core/domain"
)

// MockQueryOracle is a mock implementation of QueryOracle for testing
type MockQueryOracle struct {
	mu        sync.Mutex
	directive *domain.SearchDirective
	failNext  error
	delay     func(ctx context.Context) error
	calls     int
	lastQuery string
}

// NewMockQueryOracle creates a new MockQueryOracle
func NewMockQueryOracle() *MockQueryOracle {
	return &MockQueryOracle{}
}

func (m *MockQueryOracle) Understand(ctx context.Context, query string, viewer *domain.ViewerContext) (*domain.SearchDirective, error) {
	m.mu.Lock()
	m.calls++
	m.lastQuery = query
	delay := m.delay
	if err := m.failNext; err != nil {
		m.failNext = nil
		m.mu.Unlock()
		return nil, err
	}
	directive := m.directive
	m.mu.Unlock()

	if delay != nil {
		if err := delay(ctx); err != nil {
			return nil, err
		}
	}
	if directive != nil {
		return directive, nil
	}
	return domain.FallbackDirective(query), nil
}

func (m *MockQueryOracle) Model() string {
	return "mock-oracle-model"
}

func (m *MockQueryOracle) Ping(ctx context.Context) error {
	return nil
}

func (m *MockQueryOracle) Close() error {
	return nil
}

// Helper methods for testing

// SetDirective fixes the directive returned by Understand
func (m *MockQueryOracle) SetDirective(d *domain.SearchDirective) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.directive = d
}

// FailNext makes the next Understand call return err
func (m *MockQueryOracle) FailNext(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = err
}

// Block makes Understand wait until the caller's context is done,
// simulating a provider that never answers
func (m *MockQueryOracle) Block() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}
}

func (m *MockQueryOracle) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockQueryOracle) LastQuery() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastQuery
}

package mocks

import (
	"context"
	"sync"

	"github.com/pathwise-labs/pathwise-core/internal/core/domain"
)

// MockNotifier is a mock implementation of Notifier for testing
type MockNotifier struct {
	mu       sync.Mutex
	logins   []string
	changes  []string
	digests  []string
	failNext error
}

// NewMockNotifier creates a new MockNotifier
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) LoginAlert(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failNext; err != nil {
		m.failNext = nil
		return err
	}
	m.logins = append(m.logins, user.ID)
	return nil
}

func (m *MockNotifier) SubscriptionChanged(ctx context.Context, user *domain.User, previous domain.SubscriptionTier) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failNext; err != nil {
		m.failNext = nil
		return err
	}
	m.changes = append(m.changes, user.ID)
	return nil
}

func (m *MockNotifier) WeeklyDigest(ctx context.Context, user *domain.User, resources []*domain.Resource) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failNext; err != nil {
		m.failNext = nil
		return err
	}
	m.digests = append(m.digests, user.ID)
	return nil
}

// Helper methods for testing

func (m *MockNotifier) FailNext(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = err
}

func (m *MockNotifier) LoginAlerts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.logins))
	copy(out, m.logins)
	return out
}

func (m *MockNotifier) SubscriptionChanges() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.changes))
	copy(out, m.changes)
	return out
}

func (m *MockNotifier) Digests() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.digests))
	copy(out, m.digests)
	return out
}

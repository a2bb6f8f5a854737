package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pathwise-labs/pathwise-core/internal/core/domain"
)

// MockUserStore is a mock implementation of UserStore for testing
type MockUserStore struct {
	mu        sync.RWMutex
	users     map[string]*domain.User
	byEmail   map[string]*domain.User
	interests map[string][]*domain.Interest
}

// NewMockUserStore creates a new MockUserStore
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{
		users:     make(map[string]*domain.User),
		byEmail:   make(map[string]*domain.User),
		interests: make(map[string][]*domain.Interest),
	}
}

func (m *MockUserStore) Save(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
	m.byEmail[user.Email] = user
	return nil
}

func (m *MockUserStore) Get(ctx context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

func (m *MockUserStore) List(ctx context.Context) ([]*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.User
	for _, user := range m.users {
		result = append(result, user)
	}
	return result, nil
}

func (m *MockUserStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(m.byEmail, user.Email)
	delete(m.users, id)
	delete(m.interests, id)
	return nil
}

func (m *MockUserStore) UpdateLastLogin(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	now := time.Now()
	user.LastLoginAt = &now
	return nil
}

func (m *MockUserStore) UpdateSubscription(ctx context.Context, id string, tier domain.SubscriptionTier) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	user.SubscriptionTier = tier
	return nil
}

func (m *MockUserStore) ListInterests(ctx context.Context, userID string, limit int) ([]*domain.Interest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	list := make([]*domain.Interest, len(m.interests[userID]))
	copy(list, m.interests[userID])
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Priority > list[j].Priority
	})
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (m *MockUserStore) AddInterest(ctx context.Context, interest *domain.Interest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.interests[interest.UserID] = append(m.interests[interest.UserID], interest)
	return nil
}

func (m *MockUserStore) DeleteInterest(ctx context.Context, userID, interestID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.interests[userID]
	for i, interest := range list {
		if interest.ID == interestID {
			m.interests[userID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// Helper methods for testing

func (m *MockUserStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = make(map[string]*domain.User)
	m.byEmail = make(map[string]*domain.User)
	m.interests = make(map[string][]*domain.Interest)
}

func (m *MockUserStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users)
}

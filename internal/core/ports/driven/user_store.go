package driven

import (
	"context"

	"github.com/pathwise-labs/pathwise-core/internal/core/domain"
)

// UserStore handles user persistence (PostgreSQL)
type UserStore interface {
	// Save creates or updates a user
	Save(ctx context.Context, user *domain.User) error

	// Get retrieves a user by ID
	Get(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// List retrieves all users
	List(ctx context.Context) ([]*domain.User, error)

	// Delete deletes a user
	Delete(ctx context.Context, id string) error

	// UpdateLastLogin updates the last login timestamp
	UpdateLastLogin(ctx context.Context, id string) error

	// UpdateSubscription sets the user's subscription tier
	UpdateSubscription(ctx context.Context, id string, tier domain.SubscriptionTier) error

	// ListInterests returns the user's interests, highest priority first,
	// capped at limit (0 means no cap)
	ListInterests(ctx context.Context, userID string, limit int) ([]*domain.Interest, error)

	// AddInterest stores a ranked interest for the user
	AddInterest(ctx context.Context, interest *domain.Interest) error

	// DeleteInterest removes one interest by ID
	DeleteInterest(ctx context.Context, userID, interestID string) error
}

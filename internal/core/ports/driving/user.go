package driving

import (
	"context"

	"github.com/pathwise-labs/pathwise-core/internal/core/domain"
)

// SignupRequest represents a self-service account registration
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// CreateUserRequest represents a request to create a new user (admin only)
type CreateUserRequest struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Name     string      `json:"name"`
	Role     domain.Role `json:"role"`
}

// UpdateProfileRequest represents a profile update by the user themselves
type UpdateProfileRequest struct {
	Name            *string `json:"name,omitempty"`
	Location        *string `json:"location,omitempty"`
	Industry        *string `json:"industry,omitempty"`
	ExperienceLevel *string `json:"experience_level,omitempty"`
}

// AddInterestRequest represents a new ranked interest
type AddInterestRequest struct {
	Interest string `json:"interest"`
	Priority int    `json:"priority"`
}

// SetupRequest represents a request to create the initial admin user
type SetupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// SetupResponse represents the response from the setup endpoint
type SetupResponse struct {
	User    *domain.User `json:"user"`
	Message string       `json:"message"`
}

// UserService manages user accounts, profiles and interests
type UserService interface {
	// Setup creates the initial admin user (only works if no users exist)
	Setup(ctx context.Context, req SetupRequest) (*SetupResponse, error)

	// Signup registers a new member on the free tier
	Signup(ctx context.Context, req SignupRequest) (*domain.User, error)

	// Create creates a new user (admin only)
	Create(ctx context.Context, req CreateUserRequest) (*domain.User, error)

	// Get retrieves a user by ID
	Get(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// List retrieves all users (admin only)
	List(ctx context.Context) ([]*domain.User, error)

	// UpdateProfile updates the user's own profile fields
	UpdateProfile(ctx context.Context, id string, req UpdateProfileRequest) (*domain.User, error)

	// Delete deletes a user (admin only)
	Delete(ctx context.Context, id string) error

	// UpdateSubscription changes the user's tier and notifies them
	UpdateSubscription(ctx context.Context, id string, tier domain.SubscriptionTier) (*domain.User, error)

	// ListInterests returns the user's interests, highest priority first
	ListInterests(ctx context.Context, userID string) ([]*domain.Interest, error)

	// AddInterest stores a ranked interest for the user
	AddInterest(ctx context.Context, userID string, req AddInterestRequest) (*domain.Interest, error)

	// DeleteInterest removes one interest
	DeleteInterest(ctx context.Context, userID, interestID string) error
}

package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/pathwise-labs/pathwise-core/internal/core/domain"
	"github.com/pathwise-labs/pathwise-core/internal/core/ports/driven"
	"github.com/pathwise-labs/pathwise-core/internal/core/ports/driving"
)

// Ensure userService implements UserService
var _ driving.UserService = (*userService)(nil)

// userService implements the UserService interface
type userService struct {
	userStore    driven.UserStore
	sessionStore driven.SessionStore
	authAdapter  driven.AuthAdapter
	notifier     driven.Notifier // nil disables subscription notices
	logger       *slog.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	userStore driven.UserStore,
	sessionStore driven.SessionStore,
	authAdapter driven.AuthAdapter,
	notifier driven.Notifier,
	logger *slog.Logger,
) driving.UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &userService{
		userStore:    userStore,
		sessionStore: sessionStore,
		authAdapter:  authAdapter,
		notifier:     notifier,
		logger:       logger,
	}
}

// Setup creates the initial admin user (only works if no users exist)
func (s *userService) Setup(ctx context.Context, req driving.SetupRequest) (*driving.SetupResponse, error) {
	// Validate input
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return nil, domain.ErrInvalidInput
	}

	// Check if any users exist
	users, err := s.userStore.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(users) > 0 {
		return nil, domain.ErrForbidden
	}

	// Create the admin user
	user, err := s.Create(ctx, driving.CreateUserRequest{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     domain.RoleAdmin,
	})
	if err != nil {
		return nil, err
	}

	return &driving.SetupResponse{
		User:    user,
		Message: "Setup complete. You can now log in.",
	}, nil
}

// Signup registers a new member on the free tier
func (s *userService) Signup(ctx context.Context, req driving.SignupRequest) (*domain.User, error) {
	return s.Create(ctx, driving.CreateUserRequest{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     domain.RoleMember,
	})
}

// Create creates a new user (admin only)
func (s *userService) Create(ctx context.Context, req driving.CreateUserRequest) (*domain.User, error) {
	// Validate input
	if err := s.validateCreateRequest(req); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	// Check if email already exists
	existing, _ := s.userStore.GetByEmail(ctx, email)
	if existing != nil {
		return nil, domain.ErrAlreadyExists
	}

	// Hash password
	passwordHash, err := s.authAdapter.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &domain.User{
		ID:               generateID(),
		Email:            email,
		PasswordHash:     passwordHash,
		Name:             strings.TrimSpace(req.Name),
		Role:             req.Role,
		SubscriptionTier: domain.TierFree,
		Active:           true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.userStore.Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Get retrieves a user by ID
func (s *userService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.userStore.Get(ctx, id)
}

// GetByEmail retrieves a user by email
func (s *userService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.userStore.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

// List retrieves all users (admin only)
func (s *userService) List(ctx context.Context) ([]*domain.User, error) {
	return s.userStore.List(ctx)
}

// UpdateProfile updates the user's own profile fields
func (s *userService) UpdateProfile(ctx context.Context, id string, req driving.UpdateProfileRequest) (*domain.User, error) {
	user, err := s.userStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// Apply updates
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		user.Name = name
	}
	if req.Location != nil {
		user.Location = req.Location
	}
	if req.Industry != nil {
		user.Industry = req.Industry
	}
	if req.ExperienceLevel != nil {
		user.ExperienceLevel = req.ExperienceLevel
	}
	user.UpdatedAt = time.Now()

	if err := s.userStore.Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Delete deletes a user (admin only)
func (s *userService) Delete(ctx context.Context, id string) error {
	user, err := s.userStore.Get(ctx, id)
	if err != nil {
		return err
	}

	// Invalidate all sessions first
	_ = s.sessionStore.DeleteByUser(ctx, user.ID)

	return s.userStore.Delete(ctx, id)
}

// UpdateSubscription changes the user's tier and notifies them
func (s *userService) UpdateSubscription(ctx context.Context, id string, tier domain.SubscriptionTier) (*domain.User, error) {
	if tier != domain.TierFree && tier != domain.TierPremium {
		return nil, domain.ErrInvalidInput
	}

	user, err := s.userStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := user.Tier()
	if previous == tier {
		return user, nil
	}

	if err := s.userStore.UpdateSubscription(ctx, id, tier); err != nil {
		return nil, err
	}
	user.SubscriptionTier = tier
	user.UpdatedAt = time.Now()

	s.notifySubscription(user, previous)

	return user, nil
}

// ListInterests returns the user's interests, highest priority first
func (s *userService) ListInterests(ctx context.Context, userID string) ([]*domain.Interest, error) {
	return s.userStore.ListInterests(ctx, userID, 0)
}

// AddInterest stores a ranked interest for the user
func (s *userService) AddInterest(ctx context.Context, userID string, req driving.AddInterestRequest) (*domain.Interest, error) {
	text := strings.TrimSpace(req.Interest)
	if text == "" {
		return nil, domain.ErrInvalidInput
	}

	// Owner must exist
	if _, err := s.userStore.Get(ctx, userID); err != nil {
		return nil, err
	}

	interest := &domain.Interest{
		ID:        generateID(),
		UserID:    userID,
		Interest:  text,
		Priority:  req.Priority,
		CreatedAt: time.Now(),
	}
	if err := s.userStore.AddInterest(ctx, interest); err != nil {
		return nil, err
	}
	return interest, nil
}

// DeleteInterest removes one interest
func (s *userService) DeleteInterest(ctx context.Context, userID, interestID string) error {
	return s.userStore.DeleteInterest(ctx, userID, interestID)
}

// notifySubscription sends the tier change notice without blocking the update.
func (s *userService) notifySubscription(user *domain.User, previous domain.SubscriptionTier) {
	if s.notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.notifier.SubscriptionChanged(ctx, user, previous); err != nil {
			s.logger.Warn("subscription notice failed", "error", err, "user_id", user.ID)
		}
	}()
}

// validateCreateRequest validates the create user request
func (s *userService) validateCreateRequest(req driving.CreateUserRequest) error {
	if req.Email == "" {
		return domain.ErrInvalidInput
	}
	if req.Password == "" {
		return domain.ErrInvalidInput
	}
	if req.Name == "" {
		return domain.ErrInvalidInput
	}
	if req.Role != domain.RoleAdmin && req.Role != domain.RoleMember {
		return domain.ErrInvalidInput
	}
	return nil
}

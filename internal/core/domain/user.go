package domain

import "time"

// Role defines user permission level
type Role string

const (
	RoleAdmin  Role = "admin"  // Manage users, resources, plans
	RoleMember Role = "member" // Search, save resources
)

// SubscriptionTier is the billing tier stored on the user, as reported by
// the payment collaborator. It maps to an access level through the plan
// table; an unknown or empty tier is treated as free.
type SubscriptionTier string

const (
	TierFree    SubscriptionTier = "free"
	TierPremium SubscriptionTier = "premium"
)

// User represents an account holder
type User struct {
	ID               string           `json:"id"`
	Email            string           `json:"email"`
	PasswordHash     string           `json:"-"` // Never serialize
	Name             string           `json:"name"`
	Role             Role             `json:"role"`
	SubscriptionTier SubscriptionTier `json:"subscription_tier"`
	Location         *string          `json:"location,omitempty"`
	Industry         *string          `json:"industry,omitempty"`
	ExperienceLevel  *string          `json:"experience_level,omitempty"`
	Active           bool             `json:"active"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
	LastLoginAt      *time.Time       `json:"last_login_at,omitempty"`
}

// Interest is one ranked entry of a user's interest list. Higher priority
// interests are fed to the query oracle first.
type Interest struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Interest  string    `json:"interest"`
	Priority  int       `json:"priority"`
	CreatedAt time.Time `json:"created_at"`
}

// UserSummary provides a safe view of user data (no password hash)
type UserSummary struct {
	ID               string           `json:"id"`
	Email            string           `json:"email"`
	Name             string           `json:"name"`
	Role             Role             `json:"role"`
	SubscriptionTier SubscriptionTier `json:"subscription_tier"`
	Active           bool             `json:"active"`
	LastLoginAt      *time.Time       `json:"last_login_at,omitempty"`
}

// ToSummary converts a User to UserSummary
func (u *User) ToSummary() *UserSummary {
	return &UserSummary{
		ID:               u.ID,
		Email:            u.Email,
		Name:             u.Name,
		Role:             u.Role,
		SubscriptionTier: u.SubscriptionTier,
		Active:           u.Active,
		LastLoginAt:      u.LastLoginAt,
	}
}

// IsAdmin checks if the user has admin privileges
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Tier returns the effective subscription tier, defaulting to free.
func (u *User) Tier() SubscriptionTier {
	if u.SubscriptionTier == "" {
		return TierFree
	}
	return u.SubscriptionTier
}

// ViewerContext projects the user's profile and ranked interests into the
// context handed to the query oracle.
func (u *User) ViewerContext(interests []*Interest) *ViewerContext {
	ctx := &ViewerContext{}
	if u.Location != nil {
		ctx.Location = *u.Location
	}
	if u.Industry != nil {
		ctx.Industry = *u.Industry
	}
	if u.ExperienceLevel != nil {
		ctx.ExperienceLevel = *u.ExperienceLevel
	}
	for _, i := range interests {
		ctx.Interests = append(ctx.Interests, i.Interest)
	}
	return ctx
}

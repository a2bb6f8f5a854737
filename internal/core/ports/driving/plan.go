package driving

import (
	"context"

	"github.com/pathwise-labs/pathwise-core/internal/core/domain"
)

// UpdatePlanRequest represents a partial plan update (admin only)
type UpdatePlanRequest struct {
	Name              *string            `json:"name,omitempty"`
	PriceCents        *int               `json:"price_cents,omitempty"`
	Period            *string            `json:"period,omitempty"`
	Description       *string            `json:"description,omitempty"`
	AccessLevel       *domain.AccessTier `json:"access_level,omitempty"`
	MaxSavedResources *int               `json:"max_saved_resources,omitempty"`
	MaxAISearches     *int               `json:"max_ai_searches,omitempty"`
}

// AdminStats summarizes platform activity for the admin dashboard
type AdminStats struct {
	TotalUsers     int `json:"total_users"`
	PremiumUsers   int `json:"premium_users"`
	TotalResources int `json:"total_resources"`
	TotalSearches  int `json:"total_searches"`
}

// PlanService manages subscription plans and reloads the policy engine when
// they change
type PlanService interface {
	// List returns all plans
	List(ctx context.Context) ([]*domain.Plan, error)

	// Get retrieves a plan by ID
	Get(ctx context.Context, id string) (*domain.Plan, error)

	// Update applies a partial plan update and reloads access policy
	// (admin only)
	Update(ctx context.Context, id string, req UpdatePlanRequest) (*domain.Plan, error)

	// Stats returns platform activity counters (admin only)
	Stats(ctx context.Context) (*AdminStats, error)
}

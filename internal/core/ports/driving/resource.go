package driving

import (
	"context"

	"github.com/pathwise-labs/pathwise-core/internal/core/domain"
)

// CreateResourceRequest represents a new catalog entry (admin only)
type CreateResourceRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Website      *string  `json:"website,omitempty"`
	Phone        *string  `json:"phone,omitempty"`
	ContactEmail *string  `json:"contactEmail,omitempty"`
	Address      *string  `json:"address,omitempty"`
	City         *string  `json:"city,omitempty"`
	State        *string  `json:"state,omitempty"`
	Industry     *string  `json:"industry,omitempty"`
	ResourceType string   `json:"resourceType"`
	Tags         []string `json:"tags,omitempty"`
	IsNational   bool     `json:"isNational"`
}

// UpdateResourceRequest represents a partial catalog update (admin only)
type UpdateResourceRequest struct {
	Title        *string  `json:"title,omitempty"`
	Description  *string  `json:"description,omitempty"`
	Website      *string  `json:"website,omitempty"`
	Phone        *string  `json:"phone,omitempty"`
	ContactEmail *string  `json:"contactEmail,omitempty"`
	Address      *string  `json:"address,omitempty"`
	City         *string  `json:"city,omitempty"`
	State        *string  `json:"state,omitempty"`
	Industry     *string  `json:"industry,omitempty"`
	ResourceType *string  `json:"resourceType,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	IsNational   *bool    `json:"isNational,omitempty"`
}

// ResourceService manages the resource catalog
type ResourceService interface {
	// Create adds a resource to the catalog (admin only)
	Create(ctx context.Context, req CreateResourceRequest) (*domain.Resource, error)

	// Get retrieves a resource by ID, redacted for the viewer's tier
	Get(ctx context.Context, id string, tier domain.SubscriptionTier) (*domain.Resource, error)

	// List retrieves catalog resources redacted for the viewer's tier.
	// Admin callers may include deactivated entries.
	List(ctx context.Context, tier domain.SubscriptionTier, includeInactive bool) ([]*domain.Resource, error)

	// Update applies a partial update (admin only)
	Update(ctx context.Context, id string, req UpdateResourceRequest) (*domain.Resource, error)

	// Deactivate soft-deletes a resource (admin only)
	Deactivate(ctx context.Context, id string) error
}

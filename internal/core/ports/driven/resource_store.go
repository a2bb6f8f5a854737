package driven

import (
	"context"

	"github.com/pathwise-labs/pathwise-core/internal/core/domain"
)

// ResourceStore handles resource catalog persistence. Two implementations
// exist: the PostgreSQL catalog and the in-memory contact directory; every
// search path treats them interchangeably.
type ResourceStore interface {
	// Search returns active resources matching the criteria, national
	// resources first, then most recently created, capped at the criteria
	// limit (or the default page size). An empty result is not an error.
	Search(ctx context.Context, criteria domain.SearchCriteria) ([]*domain.Resource, error)

	// Get retrieves a resource by ID
	Get(ctx context.Context, id string) (*domain.Resource, error)

	// Save creates or updates a resource
	Save(ctx context.Context, resource *domain.Resource) error

	// List retrieves all resources, optionally including deactivated ones
	List(ctx context.Context, includeInactive bool) ([]*domain.Resource, error)

	// Deactivate soft-deletes a resource (isActive=false); resources are
	// never hard-deleted in normal flow
	Deactivate(ctx context.Context, id string) error
}

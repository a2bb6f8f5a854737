package driven

import (
	"context"

	"github.com/pathwise-labs/pathwise-core/internal/core/domain"
)

// PlanStore persists subscription plans. The policy engine is built from
// this store at startup; admin edits write through here and trigger a
// reload, so plan changes survive restarts and propagate across instances.
type PlanStore interface {
	// List returns all plans
	List(ctx context.Context) ([]*domain.Plan, error)

	// Get retrieves a plan by ID
	Get(ctx context.Context, id string) (*domain.Plan, error)

	// Save creates or updates a plan
	Save(ctx context.Context, plan *domain.Plan) error
}

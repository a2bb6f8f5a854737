package postgres

import (
	"context"
	"database/sql"

	"github.com/pathwise-labs/pathwise-core/internal/core/domain"
	"github.com/pathwise-labs/pathwise-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.PlanStore = (*PlanStore)(nil)

// PlanStore implements driven.PlanStore using PostgreSQL
type PlanStore struct {
	db *DB
}

// NewPlanStore creates a new PlanStore
func NewPlanStore(db *DB) *PlanStore {
	return &PlanStore{db: db}
}

const planColumns = `id, name, price_cents, period, description, access_level, max_saved_resources, max_ai_searches, updated_at`

// List returns all plans
func (s *PlanStore) List(ctx context.Context) ([]*domain.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans ORDER BY price_cents`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []*domain.Plan
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}

// Get retrieves a plan by ID
func (s *PlanStore) Get(ctx context.Context, id string) (*domain.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE id = $1`
	return scanPlan(s.db.QueryRowContext(ctx, query, id))
}

// Save creates or updates a plan
func (s *PlanStore) Save(ctx context.Context, plan *domain.Plan) error {
	query := `
		INSERT INTO plans (` + planColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			price_cents = EXCLUDED.price_cents,
			period = EXCLUDED.period,
			description = EXCLUDED.description,
			access_level = EXCLUDED.access_level,
			max_saved_resources = EXCLUDED.max_saved_resources,
			max_ai_searches = EXCLUDED.max_ai_searches,
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		plan.ID,
		plan.Name,
		plan.PriceCents,
		plan.Period,
		plan.Description,
		string(plan.AccessLevel),
		plan.MaxSavedResources,
		plan.MaxAISearches,
		plan.UpdatedAt,
	)
	return err
}

func scanPlan(row interface{ Scan(...any) error }) (*domain.Plan, error) {
	var plan domain.Plan
	err := row.Scan(
		&plan.ID,
		&plan.Name,
		&plan.PriceCents,
		&plan.Period,
		&plan.Description,
		&plan.AccessLevel,
		&plan.MaxSavedResources,
		&plan.MaxAISearches,
		&plan.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

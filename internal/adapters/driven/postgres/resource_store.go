package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/pathwise-labs/pathwise-core/internal/core/domain"
	"github.com/pathwise-labs/pathwise-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ResourceStore = (*ResourceStore)(nil)

// ResourceStore implements driven.ResourceStore using PostgreSQL
type ResourceStore struct {
	db *DB
}

// NewResourceStore creates a new ResourceStore
func NewResourceStore(db *DB) *ResourceStore {
	return &ResourceStore{db: db}
}

const resourceColumns = `id, title, description, website, phone, contact_email, address, city, state, industry, resource_type, tags, is_national, is_active, created_at, updated_at`

// Search returns active resources matching the criteria, national resources
// first, then most recently created. Keywords and resource types combine
// disjunctively; the industry filter narrows the whole result set, mirroring
// domain.SearchCriteria.Matches.
func (s *ResourceStore) Search(ctx context.Context, criteria domain.SearchCriteria) ([]*domain.Resource, error) {
	query, args := searchQuery(criteria)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanResources(rows)
}

// searchQuery builds the catalog search statement. Keyword and type
// conditions are OR-joined inside one group; the industry condition is a
// separate AND so it narrows rather than widens the match set.
func searchQuery(criteria domain.SearchCriteria) (string, []any) {
	var conditions []string
	var args []any
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	for _, keyword := range criteria.Keywords {
		keyword = strings.TrimSpace(keyword)
		if keyword == "" {
			continue
		}
		pattern := next("%" + keyword + "%")
		conditions = append(conditions, fmt.Sprintf(
			"(title ILIKE %[1]s OR description ILIKE %[1]s OR EXISTS (SELECT 1 FROM unnest(tags) AS tag WHERE tag ILIKE %[1]s))",
			pattern,
		))
	}
	if len(criteria.ResourceTypes) > 0 {
		conditions = append(conditions, fmt.Sprintf("resource_type = ANY(%s)", next(pq.Array(criteria.ResourceTypes))))
	}

	query := `SELECT ` + resourceColumns + ` FROM resources WHERE is_active = TRUE`
	if industry := strings.TrimSpace(criteria.Industry); industry != "" {
		query += ` AND industry ILIKE ` + next("%"+industry+"%")
	}
	if len(conditions) > 0 {
		query += ` AND (` + strings.Join(conditions, " OR ") + `)`
	}

	limit := criteria.Limit
	if limit <= 0 {
		limit = domain.DefaultPageSize
	}
	query += fmt.Sprintf(` ORDER BY is_national DESC, created_at DESC LIMIT %s`, next(limit))

	return query, args
}

// Get retrieves a resource by ID
func (s *ResourceStore) Get(ctx context.Context, id string) (*domain.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources WHERE id = $1`
	return scanResource(s.db.QueryRowContext(ctx, query, id))
}

// Save creates or updates a resource
func (s *ResourceStore) Save(ctx context.Context, resource *domain.Resource) error {
	query := `
		INSERT INTO resources (` + resourceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			website = EXCLUDED.website,
			phone = EXCLUDED.phone,
			contact_email = EXCLUDED.contact_email,
			address = EXCLUDED.address,
			city = EXCLUDED.city,
			state = EXCLUDED.state,
			industry = EXCLUDED.industry,
			resource_type = EXCLUDED.resource_type,
			tags = EXCLUDED.tags,
			is_national = EXCLUDED.is_national,
			is_active = EXCLUDED.is_active,
			updated_at = EXCLUDED.updated_at
	`

	tags := resource.Tags
	if tags == nil {
		tags = []string{}
	}

	_, err := s.db.ExecContext(ctx, query,
		resource.ID,
		resource.Title,
		resource.Description,
		NullString(resource.Website),
		NullString(resource.Phone),
		NullString(resource.ContactEmail),
		NullString(resource.Address),
		NullString(resource.City),
		NullString(resource.State),
		NullString(resource.Industry),
		resource.ResourceType,
		pq.Array(tags),
		resource.IsNational,
		resource.IsActive,
		resource.CreatedAt,
		resource.UpdatedAt,
	)
	return err
}

// List retrieves all resources, optionally including deactivated ones
func (s *ResourceStore) List(ctx context.Context, includeInactive bool) ([]*domain.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources`
	if !includeInactive {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY is_national DESC, created_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanResources(rows)
}

// Deactivate soft-deletes a resource
func (s *ResourceStore) Deactivate(ctx context.Context, id string) error {
	query := `UPDATE resources SET is_active = FALSE, updated_at = NOW() WHERE id = $1`
	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanResource(row interface{ Scan(...any) error }) (*domain.Resource, error) {
	var r domain.Resource
	var website, phone, contactEmail, address, city, state, industry sql.NullString

	err := row.Scan(
		&r.ID,
		&r.Title,
		&r.Description,
		&website,
		&phone,
		&contactEmail,
		&address,
		&city,
		&state,
		&industry,
		&r.ResourceType,
		pq.Array(&r.Tags),
		&r.IsNational,
		&r.IsActive,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	r.Website = StringPtr(website)
	r.Phone = StringPtr(phone)
	r.ContactEmail = StringPtr(contactEmail)
	r.Address = StringPtr(address)
	r.City = StringPtr(city)
	r.State = StringPtr(state)
	r.Industry = StringPtr(industry)
	return &r, nil
}

func scanResources(rows *sql.Rows) ([]*domain.Resource, error) {
	var resources []*domain.Resource
	for rows.Next() {
		r, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		resources = append(resources, r)
	}
	return resources, rows.Err()
}

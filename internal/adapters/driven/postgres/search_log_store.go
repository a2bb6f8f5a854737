package postgres

import (
	"context"

	"github.com/pathwise-labs/pathwise-core/internal/core/domain"
	"github.com/pathwise-labs/pathwise-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.SearchLogStore = (*SearchLogStore)(nil)

// SearchLogStore implements driven.SearchLogStore using PostgreSQL
type SearchLogStore struct {
	db *DB
}

// NewSearchLogStore creates a new SearchLogStore
func NewSearchLogStore(db *DB) *SearchLogStore {
	return &SearchLogStore{db: db}
}

// Record appends one search log entry
func (s *SearchLogStore) Record(ctx context.Context, entry *domain.SearchQuery) error {
	query := `
		INSERT INTO search_queries (id, user_id, query, results_count, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(ctx, query,
		entry.ID,
		NullString(entry.UserID),
		entry.Query,
		entry.ResultsCount,
		entry.CreatedAt,
	)
	return err
}

// Count returns the total number of logged searches
func (s *SearchLogStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM search_queries`).Scan(&count)
	return count, err
}

// CountByUser returns how many searches the user has logged
func (s *SearchLogStore) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM search_queries WHERE user_id = $1`, userID).Scan(&count)
	return count, err
}

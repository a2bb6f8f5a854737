package driven

import (
	"context"

	"github.com/pathwise-labs/pathwise-core/internal/core/domain"
)

// SearchLogStore persists the append-only search analytics log. Writes are
// fire-and-forget from the caller's perspective; a failed write must never
// affect a response already delivered.
type SearchLogStore interface {
	// Record appends one search log entry
	Record(ctx context.Context, entry *domain.SearchQuery) error

	// Count returns the total number of logged searches
	Count(ctx context.Context) (int, error)

	// CountByUser returns how many searches the user has logged
	CountByUser(ctx context.Context, userID string) (int, error)
}

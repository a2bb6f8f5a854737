package driven

import (
	"context"

	"github.com/pathwise-labs/pathwise-core/internal/core/domain"
)

// QueryOracle turns a raw user query into a structured search directive.
// Implementations talk to an LLM provider; callers must tolerate failure
// and fall back to plain keyword matching.
type QueryOracle interface {
	// Understand analyzes a query, optionally conditioned on the
	// viewer's profile, and returns a directive for the search stage
	Understand(ctx context.Context, query string, viewer *domain.ViewerContext) (*domain.SearchDirective, error)

	// Model returns the configured model identifier
	Model() string

	// Ping checks provider connectivity
	Ping(ctx context.Context) error

	// Close releases provider resources
	Close() error
}

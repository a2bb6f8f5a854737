package driving

import (
	"context"

	"github.com/pathwise-labs/pathwise-core/internal/core/domain"
)

// StreamSearchService runs the staged search pipeline and emits progress
// events as they happen.
type StreamSearchService interface {
	// Stream starts a search and returns a channel of stage events.
	// The channel always ends with exactly one terminal event (completed
	// or error) and is then closed. Cancelling ctx stops the stream;
	// no further events are sent after cancellation.
	//
	// viewer carries the caller's tier and profile. Anonymous callers
	// pass a free tier context; the result is redacted server side
	// according to the viewer's tier before it is emitted.
	Stream(ctx context.Context, query string, viewer *domain.SearchViewer) (<-chan domain.StageEvent, error)
}

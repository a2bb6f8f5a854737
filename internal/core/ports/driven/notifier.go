package driven

import (
	"context"

	"github.com/pathwise-labs/pathwise-core/internal/core/domain"
)

// Notifier delivers user-facing notifications. Delivery is best effort;
// callers never fail an operation because a notification could not be sent.
type Notifier interface {
	// LoginAlert notifies a user about a new login
	LoginAlert(ctx context.Context, user *domain.User) error

	// SubscriptionChanged notifies a user that their tier changed
	SubscriptionChanged(ctx context.Context, user *domain.User, previous domain.SubscriptionTier) error

	// WeeklyDigest sends a periodic summary of fresh resources
	WeeklyDigest(ctx context.Context, user *domain.User, resources []*domain.Resource) error
}

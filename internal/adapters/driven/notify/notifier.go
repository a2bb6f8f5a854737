package notify

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pathwise-labs/pathwise-core/internal/core/domain"
	"github.com/pathwise-labs/pathwise-core/internal/core/ports/driven"
)

// Ensure LogNotifier implements Notifier
var _ driven.Notifier = (*LogNotifier)(nil)

// LogNotifier writes notifications to the structured log instead of an
// outbound channel. It stands in for a mail or push integration; every
// delivery is tagged with an ID so downstream log shipping can dedupe.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a notifier that records deliveries via slog.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger.With("component", "notifier")}
}

// LoginAlert records a new login for the user.
func (n *LogNotifier) LoginAlert(ctx context.Context, user *domain.User) error {
	n.logger.InfoContext(ctx, "login alert",
		"notification_id", uuid.NewString(),
		"user_id", user.ID,
		"email", user.Email)
	return nil
}

// SubscriptionChanged records a tier transition for the user.
func (n *LogNotifier) SubscriptionChanged(ctx context.Context, user *domain.User, previous domain.SubscriptionTier) error {
	n.logger.InfoContext(ctx, "subscription changed",
		"notification_id", uuid.NewString(),
		"user_id", user.ID,
		"previous_tier", previous,
		"new_tier", user.SubscriptionTier)
	return nil
}

// WeeklyDigest records the digest that would be mailed to the user.
func (n *LogNotifier) WeeklyDigest(ctx context.Context, user *domain.User, resources []*domain.Resource) error {
	titles := make([]string, 0, len(resources))
	for _, r := range resources {
		titles = append(titles, r.Title)
	}
	n.logger.InfoContext(ctx, "weekly digest",
		"notification_id", uuid.NewString(),
		"user_id", user.ID,
		"resource_count", len(resources),
		"resources", titles)
	return nil
}

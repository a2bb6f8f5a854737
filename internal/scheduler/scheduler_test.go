package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/pathwise-labs/pathwise-core/internal/core/domain"
	"github.com/pathwise-labs/pathwise-core/internal/core/ports/driven/mocks"
)

type fixture struct {
	scheduler *Scheduler
	sessions  *mocks.MockSessionStore
	users     *mocks.MockUserStore
	resources *mocks.MockResourceStore
	notifier  *mocks.MockNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		sessions:  mocks.NewMockSessionStore(),
		users:     mocks.NewMockUserStore(),
		resources: mocks.NewMockResourceStore(),
		notifier:  mocks.NewMockNotifier(),
	}
	f.scheduler = New(Config{
		Sessions:  f.sessions,
		Users:     f.users,
		Resources: f.resources,
		Notifier:  f.notifier,
	})
	return f
}

func (f *fixture) seedUser(t *testing.T, id string, active bool) {
	t.Helper()
	err := f.users.Save(context.Background(), &domain.User{
		ID:     id,
		Email:  id + "@example.com",
		Name:   "User " + id,
		Role:   domain.RoleMember,
		Active: active,
	})
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
}

func (f *fixture) seedResource(t *testing.T, id string, createdAt time.Time) {
	t.Helper()
	err := f.resources.Save(context.Background(), &domain.Resource{
		ID:           id,
		Title:        "Resource " + id,
		ResourceType: domain.ResourceTypeJobBoard,
		IsActive:     true,
		CreatedAt:    createdAt,
	})
	if err != nil {
		t.Fatalf("failed to seed resource: %v", err)
	}
}

func TestRunPurge(t *testing.T) {
	f := newFixture(t)

	expired := &domain.Session{
		ID:        "s-expired",
		UserID:    "u1",
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	live := &domain.Session{
		ID:        "s-live",
		UserID:    "u1",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if err := f.sessions.Save(context.Background(), expired); err != nil {
		t.Fatalf("failed to save session: %v", err)
	}
	if err := f.sessions.Save(context.Background(), live); err != nil {
		t.Fatalf("failed to save session: %v", err)
	}

	f.scheduler.runPurge(context.Background())

	if _, err := f.sessions.Get(context.Background(), "s-expired"); err == nil {
		t.Error("expected expired session purged")
	}
	if _, err := f.sessions.Get(context.Background(), "s-live"); err != nil {
		t.Error("expected live session kept")
	}
}

func TestRunDigest_SendsToActiveUsers(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "active-1", true)
	f.seedUser(t, "active-2", true)
	f.seedUser(t, "disabled", false)
	f.seedResource(t, "fresh", time.Now().Add(-24*time.Hour))
	f.seedResource(t, "stale", time.Now().Add(-30*24*time.Hour))

	f.scheduler.runDigest(context.Background())

	digests := f.notifier.Digests()
	if len(digests) != 2 {
		t.Fatalf("expected 2 digests, got %d", len(digests))
	}
	for _, userID := range digests {
		if userID == "disabled" {
			t.Error("disabled user must not receive a digest")
		}
	}
}

func TestRunDigest_QuietWeekSendsNothing(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "active-1", true)
	f.seedResource(t, "stale", time.Now().Add(-30*24*time.Hour))

	f.scheduler.runDigest(context.Background())

	if len(f.notifier.Digests()) != 0 {
		t.Error("expected no digests for a quiet week")
	}
}

func TestStartAndStop(t *testing.T) {
	f := newFixture(t)

	if err := f.scheduler.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.scheduler.Stop()
}

func TestStart_InvalidSpec(t *testing.T) {
	f := newFixture(t)
	f.scheduler.purgeSpec = "not a cron spec"

	if err := f.scheduler.Start(context.Background()); err == nil {
		t.Fatal("expected error for invalid cron spec")
	}
}

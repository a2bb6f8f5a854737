package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/pathwise-labs/pathwise-core/internal/core/domain"
)

// setupTestSessionStore creates a test Redis client and SessionStore
func setupTestSessionStore(t *testing.T) (*SessionStore, *miniredis.Miniredis, func()) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	store := NewSessionStore(client)

	return store, mr, func() {
		client.Close()
		mr.Close()
	}
}

// createTestSession creates a test session with default values
func createTestSession(userID string) *domain.Session {
	return &domain.Session{
		ID:           "session-123",
		UserID:       userID,
		RefreshToken: "refresh-xyz",
		ExpiresAt:    time.Now().Add(24 * time.Hour),
		CreatedAt:    time.Now(),
	}
}

func TestSessionStore_SaveAndGet(t *testing.T) {
	store, _, cleanup := setupTestSessionStore(t)
	defer cleanup()
	ctx := context.Background()

	session := createTestSession("user-1")
	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Get(ctx, session.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.UserID != "user-1" || got.RefreshToken != "refresh-xyz" {
		t.Errorf("got session %+v", got)
	}
}

func TestSessionStore_Get_NotFound(t *testing.T) {
	store, _, cleanup := setupTestSessionStore(t)
	defer cleanup()

	if _, err := store.Get(context.Background(), "missing"); err != domain.ErrSessionNotFound {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionStore_Save_ExpiredSessionSkipped(t *testing.T) {
	store, _, cleanup := setupTestSessionStore(t)
	defer cleanup()
	ctx := context.Background()

	session := createTestSession("user-1")
	session.ExpiresAt = time.Now().Add(-time.Minute)

	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := store.Get(ctx, session.ID); err != domain.ErrSessionNotFound {
		t.Errorf("expired session was stored: %v", err)
	}
}

func TestSessionStore_GetByRefreshToken(t *testing.T) {
	store, _, cleanup := setupTestSessionStore(t)
	defer cleanup()
	ctx := context.Background()

	session := createTestSession("user-1")
	_ = store.Save(ctx, session)

	got, err := store.GetByRefreshToken(ctx, "refresh-xyz")
	if err != nil {
		t.Fatalf("GetByRefreshToken() error = %v", err)
	}
	if got.ID != session.ID {
		t.Errorf("got session %s, want %s", got.ID, session.ID)
	}

	if _, err := store.GetByRefreshToken(ctx, "unknown"); err != domain.ErrSessionNotFound {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionStore_Delete(t *testing.T) {
	store, _, cleanup := setupTestSessionStore(t)
	defer cleanup()
	ctx := context.Background()

	session := createTestSession("user-1")
	_ = store.Save(ctx, session)

	if err := store.Delete(ctx, session.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Get(ctx, session.ID); err != domain.ErrSessionNotFound {
		t.Error("session still readable after delete")
	}

	// Refresh token index cleaned up too
	if _, err := store.GetByRefreshToken(ctx, session.RefreshToken); err != domain.ErrSessionNotFound {
		t.Error("refresh token index survived delete")
	}

	if err := store.Delete(ctx, session.ID); err != domain.ErrSessionNotFound {
		t.Errorf("expected ErrSessionNotFound on double delete, got %v", err)
	}
}

func TestSessionStore_DeleteByUser(t *testing.T) {
	store, _, cleanup := setupTestSessionStore(t)
	defer cleanup()
	ctx := context.Background()

	for i, id := range []string{"s1", "s2"} {
		session := createTestSession("user-1")
		session.ID = id
		session.RefreshToken = session.RefreshToken + string(rune('a'+i))
		_ = store.Save(ctx, session)
	}
	other := createTestSession("user-2")
	other.ID = "s3"
	other.RefreshToken = "refresh-other"
	_ = store.Save(ctx, other)

	if err := store.DeleteByUser(ctx, "user-1"); err != nil {
		t.Fatalf("DeleteByUser() error = %v", err)
	}

	for _, id := range []string{"s1", "s2"} {
		if _, err := store.Get(ctx, id); err != domain.ErrSessionNotFound {
			t.Errorf("session %s survived DeleteByUser", id)
		}
	}
	if _, err := store.Get(ctx, "s3"); err != nil {
		t.Errorf("other user's session was deleted: %v", err)
	}
}

func TestSessionStore_TTLExpiry(t *testing.T) {
	store, mr, cleanup := setupTestSessionStore(t)
	defer cleanup()
	ctx := context.Background()

	session := createTestSession("user-1")
	session.ExpiresAt = time.Now().Add(time.Minute)
	_ = store.Save(ctx, session)

	// Advance miniredis past the TTL
	mr.FastForward(2 * time.Minute)

	if _, err := store.Get(ctx, session.ID); err != domain.ErrSessionNotFound {
		t.Errorf("session survived TTL expiry: %v", err)
	}
}

func TestSessionStore_DeleteExpired_NoOp(t *testing.T) {
	store, _, cleanup := setupTestSessionStore(t)
	defer cleanup()

	n, err := store.DeleteExpired(context.Background())
	if err != nil {
		t.Fatalf("DeleteExpired() error = %v", err)
	}
	if n != 0 {
		t.Errorf("DeleteExpired() = %d, want 0", n)
	}
}

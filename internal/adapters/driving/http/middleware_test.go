package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pathwise-labs/pathwise-core/internal/core/domain"
)

// stubAuthService implements just enough of AuthService for middleware tests
type stubAuthService struct {
	authCtx *domain.AuthContext
	err     error
}

func (s *stubAuthService) Authenticate(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	return nil, domain.ErrInvalidCredentials
}

func (s *stubAuthService) ValidateToken(ctx context.Context, token string) (*domain.AuthContext, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.authCtx, nil
}

func (s *stubAuthService) RefreshToken(ctx context.Context, req domain.RefreshRequest) (*domain.LoginResponse, error) {
	return nil, domain.ErrTokenInvalid
}

func (s *stubAuthService) Logout(ctx context.Context, token string) error { return nil }

func (s *stubAuthService) LogoutAll(ctx context.Context, userID string) error { return nil }

func (s *stubAuthService) ChangePassword(ctx context.Context, userID string, req domain.ChangePasswordRequest) error {
	return nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"no header", "", ""},
		{"valid bearer", "Bearer abc123", "abc123"},
		{"lowercase bearer", "bearer abc123", "abc123"},
		{"missing scheme", "abc123", ""},
		{"wrong scheme", "Basic abc123", ""},
		{"extra whitespace", "Bearer   abc123", "abc123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			if got := extractBearerToken(r); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestAuthenticate_MissingToken(t *testing.T) {
	m := NewAuthMiddleware(&stubAuthService{})
	handler := m.Authenticate(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	m := NewAuthMiddleware(&stubAuthService{err: domain.ErrTokenExpired})
	handler := m.Authenticate(okHandler())

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer old-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestAuthenticate_AttachesContext(t *testing.T) {
	authCtx := &domain.AuthContext{UserID: "user-1", Role: domain.RoleMember, Tier: domain.TierPremium}
	m := NewAuthMiddleware(&stubAuthService{authCtx: authCtx})

	var seen *domain.AuthContext
	handler := m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetAuthContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if seen == nil || seen.UserID != "user-1" {
		t.Error("expected auth context attached to request")
	}
}

func TestAuthenticateOptional_Anonymous(t *testing.T) {
	m := NewAuthMiddleware(&stubAuthService{err: domain.ErrTokenInvalid})

	var seen *domain.AuthContext
	handler := m.AuthenticateOptional(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetAuthContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	// No token at all: pass through anonymously
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("POST", "/", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 for anonymous request, got %d", rec.Code)
	}
	if seen != nil {
		t.Error("expected no auth context for anonymous request")
	}

	// A present but invalid token is still rejected
	req := httptest.NewRequest("POST", "/", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for invalid token, got %d", rec.Code)
	}
}

func TestRequireAdmin(t *testing.T) {
	m := NewAuthMiddleware(&stubAuthService{})

	// Member is rejected
	memberCtx := context.WithValue(context.Background(), authContextKey,
		&domain.AuthContext{UserID: "u1", Role: domain.RoleMember})
	req := httptest.NewRequest("GET", "/", nil).WithContext(memberCtx)
	rec := httptest.NewRecorder()
	m.RequireAdmin(okHandler()).ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for member, got %d", rec.Code)
	}

	// Admin passes
	adminCtx := context.WithValue(context.Background(), authContextKey,
		&domain.AuthContext{UserID: "u2", Role: domain.RoleAdmin})
	req = httptest.NewRequest("GET", "/", nil).WithContext(adminCtx)
	rec = httptest.NewRecorder()
	m.RequireAdmin(okHandler()).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 for admin, got %d", rec.Code)
	}

	// Missing auth context
	rec = httptest.NewRecorder()
	m.RequireAdmin(okHandler()).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without auth context, got %d", rec.Code)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	m := NewRecoveryMiddleware()
	handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 after panic, got %d", rec.Code)
	}
}

func TestCORSMiddleware(t *testing.T) {
	m := NewCORSMiddleware([]string{"https://app.pathwise.io"})

	// Allowed origin gets headers
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "https://app.pathwise.io")
	rec := httptest.NewRecorder()
	m.Handler(okHandler()).ServeHTTP(rec, req)
	if rec.Header().Get("Access-Control-Allow-Origin") != "https://app.pathwise.io" {
		t.Error("expected CORS headers for allowed origin")
	}

	// Unknown origin gets none
	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	m.Handler(okHandler()).ServeHTTP(rec, req)
	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("expected no CORS headers for unknown origin")
	}

	// Preflight short-circuits
	req = httptest.NewRequest("OPTIONS", "/", nil)
	req.Header.Set("Origin", "https://app.pathwise.io")
	rec = httptest.NewRecorder()
	m.Handler(okHandler()).ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204 for preflight, got %d", rec.Code)
	}
}

package http

import (
	"encoding/json"
	"net/http"

	"github.com/pathwise-labs/pathwise-core/internal/core/domain"
	"github.com/pathwise-labs/pathwise-core/internal/core/ports/driving"
)

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse represents a simple status response
type StatusResponse struct {
	Status string `json:"status"`
}

// SearchRequest is the body of the streaming search endpoints
type SearchRequest struct {
	Query string `json:"query"`
}

// UpdateSubscriptionRequest changes a user's tier (admin only)
type UpdateSubscriptionRequest struct {
	Tier domain.SubscriptionTier `json:"tier"`
}

// Health endpoints

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	if s.redisClient != nil {
		if err := s.redisClient.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "session store unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// Setup endpoint

// handleSetup creates the initial admin account. It only succeeds on an
// empty user table, so it cannot be replayed after installation.
func (s *Server) handleSetup(w http.ResponseWriter, r *http.Request) {
	var req driving.SetupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := s.userService.Setup(r.Context(), req)
	if err != nil {
		switch err {
		case domain.ErrForbidden:
			writeError(w, http.StatusForbidden, "setup already completed")
		case domain.ErrInvalidInput:
			writeError(w, http.StatusBadRequest, "email, password and name are required")
		default:
			writeError(w, http.StatusInternalServerError, "setup failed")
		}
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// Auth endpoints

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req driving.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.userService.Signup(r.Context(), req)
	if err != nil {
		switch err {
		case domain.ErrAlreadyExists:
			writeError(w, http.StatusConflict, "email already registered")
		case domain.ErrInvalidInput:
			writeError(w, http.StatusBadRequest, "email, password and name are required")
		default:
			writeError(w, http.StatusInternalServerError, "signup failed")
		}
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := s.authService.Authenticate(r.Context(), req)
	if err != nil {
		switch err {
		case domain.ErrInvalidCredentials:
			writeError(w, http.StatusUnauthorized, "invalid credentials")
		case domain.ErrUnauthorized:
			writeError(w, http.StatusUnauthorized, "account disabled")
		default:
			writeError(w, http.StatusInternalServerError, "authentication failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req domain.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := s.authService.RefreshToken(r.Context(), req)
	if err != nil {
		switch err {
		case domain.ErrTokenInvalid, domain.ErrSessionNotFound, domain.ErrTokenExpired:
			writeError(w, http.StatusUnauthorized, "invalid refresh token")
		default:
			writeError(w, http.StatusInternalServerError, "token refresh failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := extractBearerToken(r)
	if err := s.authService.Logout(r.Context(), token); err != nil {
		writeError(w, http.StatusInternalServerError, "logout failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req domain.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.authService.ChangePassword(r.Context(), authCtx.UserID, req); err != nil {
		switch err {
		case domain.ErrInvalidCredentials:
			writeError(w, http.StatusUnauthorized, "current password is incorrect")
		case domain.ErrInvalidInput:
			writeError(w, http.StatusBadRequest, "new password does not meet requirements")
		default:
			writeError(w, http.StatusInternalServerError, "password change failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "password changed"})
}

// Search endpoints

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	s.runSearch(w, r, s.searchService)
}

func (s *Server) handleContactSearch(w http.ResponseWriter, r *http.Request) {
	s.runSearch(w, r, s.contactService)
}

// runSearch starts a streaming search and relays its events. The viewer is
// derived from the optional auth context; anonymous callers search on the
// free tier.
func (s *Server) runSearch(w http.ResponseWriter, r *http.Request, svc driving.StreamSearchService) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	events, err := svc.Stream(r.Context(), req.Query, searchViewer(r))
	if err != nil {
		switch err {
		case domain.ErrInvalidInput:
			writeError(w, http.StatusBadRequest, "query is required")
		default:
			writeError(w, http.StatusInternalServerError, "search failed")
		}
		return
	}

	streamEvents(w, events)
}

func searchViewer(r *http.Request) *domain.SearchViewer {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		return domain.AnonymousViewer()
	}
	return &domain.SearchViewer{
		Tier:   authCtx.Tier,
		UserID: &authCtx.UserID,
	}
}

// Profile endpoints

func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := s.userService.Get(r.Context(), authCtx.UserID)
	if err != nil {
		switch err {
		case domain.ErrNotFound:
			writeError(w, http.StatusNotFound, "user not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to load user")
		}
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req driving.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.userService.UpdateProfile(r.Context(), authCtx.UserID, req)
	if err != nil {
		switch err {
		case domain.ErrNotFound:
			writeError(w, http.StatusNotFound, "user not found")
		case domain.ErrInvalidInput:
			writeError(w, http.StatusBadRequest, "name cannot be blank")
		default:
			writeError(w, http.StatusInternalServerError, "profile update failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleListInterests(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	interests, err := s.userService.ListInterests(r.Context(), authCtx.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list interests")
		return
	}

	writeJSON(w, http.StatusOK, interests)
}

func (s *Server) handleAddInterest(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req driving.AddInterestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	interest, err := s.userService.AddInterest(r.Context(), authCtx.UserID, req)
	if err != nil {
		switch err {
		case domain.ErrInvalidInput:
			writeError(w, http.StatusBadRequest, "interest cannot be blank")
		case domain.ErrNotFound:
			writeError(w, http.StatusNotFound, "user not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to add interest")
		}
		return
	}

	writeJSON(w, http.StatusCreated, interest)
}

func (s *Server) handleDeleteInterest(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id := r.PathValue("id")
	if err := s.userService.DeleteInterest(r.Context(), authCtx.UserID, id); err != nil {
		switch err {
		case domain.ErrNotFound:
			writeError(w, http.StatusNotFound, "interest not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to delete interest")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Catalog endpoints

// viewerTier resolves the redaction tier for catalog reads. Anonymous
// browsing is allowed and sees free tier fields.
func viewerTier(r *http.Request) domain.SubscriptionTier {
	if authCtx := GetAuthContext(r.Context()); authCtx != nil {
		return authCtx.Tier
	}
	return domain.TierFree
}

func (s *Server) handleListResources(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	includeInactive := r.URL.Query().Get("include_inactive") == "true" &&
		authCtx != nil && authCtx.IsAdmin()

	resources, err := s.resourceService.List(r.Context(), viewerTier(r), includeInactive)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list resources")
		return
	}

	writeJSON(w, http.StatusOK, resources)
}

func (s *Server) handleGetResource(w http.ResponseWriter, r *http.Request) {
	resource, err := s.resourceService.Get(r.Context(), r.PathValue("id"), viewerTier(r))
	if err != nil {
		switch err {
		case domain.ErrNotFound:
			writeError(w, http.StatusNotFound, "resource not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to load resource")
		}
		return
	}

	writeJSON(w, http.StatusOK, resource)
}

func (s *Server) handleCreateResource(w http.ResponseWriter, r *http.Request) {
	var req driving.CreateResourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resource, err := s.resourceService.Create(r.Context(), req)
	if err != nil {
		switch err {
		case domain.ErrInvalidInput:
			writeError(w, http.StatusBadRequest, "title and resource type are required")
		default:
			writeError(w, http.StatusInternalServerError, "failed to create resource")
		}
		return
	}

	writeJSON(w, http.StatusCreated, resource)
}

func (s *Server) handleUpdateResource(w http.ResponseWriter, r *http.Request) {
	var req driving.UpdateResourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resource, err := s.resourceService.Update(r.Context(), r.PathValue("id"), req)
	if err != nil {
		switch err {
		case domain.ErrNotFound:
			writeError(w, http.StatusNotFound, "resource not found")
		case domain.ErrInvalidInput:
			writeError(w, http.StatusBadRequest, "title cannot be blank")
		default:
			writeError(w, http.StatusInternalServerError, "failed to update resource")
		}
		return
	}

	writeJSON(w, http.StatusOK, resource)
}

func (s *Server) handleDeactivateResource(w http.ResponseWriter, r *http.Request) {
	if err := s.resourceService.Deactivate(r.Context(), r.PathValue("id")); err != nil {
		switch err {
		case domain.ErrNotFound:
			writeError(w, http.StatusNotFound, "resource not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to deactivate resource")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Plan endpoints

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := s.planService.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list plans")
		return
	}

	writeJSON(w, http.StatusOK, plans)
}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := s.planService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		switch err {
		case domain.ErrNotFound:
			writeError(w, http.StatusNotFound, "plan not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to load plan")
		}
		return
	}

	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleUpdatePlan(w http.ResponseWriter, r *http.Request) {
	var req driving.UpdatePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	plan, err := s.planService.Update(r.Context(), r.PathValue("id"), req)
	if err != nil {
		switch err {
		case domain.ErrNotFound:
			writeError(w, http.StatusNotFound, "plan not found")
		case domain.ErrInvalidInput:
			writeError(w, http.StatusBadRequest, "invalid plan fields")
		default:
			writeError(w, http.StatusInternalServerError, "failed to update plan")
		}
		return
	}

	writeJSON(w, http.StatusOK, plan)
}

// User management endpoints (admin only)

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.userService.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list users")
		return
	}

	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req driving.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.userService.Create(r.Context(), req)
	if err != nil {
		switch err {
		case domain.ErrAlreadyExists:
			writeError(w, http.StatusConflict, "email already registered")
		case domain.ErrInvalidInput:
			writeError(w, http.StatusBadRequest, "invalid user fields")
		default:
			writeError(w, http.StatusInternalServerError, "failed to create user")
		}
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.userService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		switch err {
		case domain.ErrNotFound:
			writeError(w, http.StatusNotFound, "user not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to load user")
		}
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := s.userService.Delete(r.Context(), r.PathValue("id")); err != nil {
		switch err {
		case domain.ErrNotFound:
			writeError(w, http.StatusNotFound, "user not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to delete user")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpdateSubscription(w http.ResponseWriter, r *http.Request) {
	var req UpdateSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.userService.UpdateSubscription(r.Context(), r.PathValue("id"), req.Tier)
	if err != nil {
		switch err {
		case domain.ErrNotFound:
			writeError(w, http.StatusNotFound, "user not found")
		case domain.ErrInvalidInput:
			writeError(w, http.StatusBadRequest, "unknown subscription tier")
		default:
			writeError(w, http.StatusInternalServerError, "failed to update subscription")
		}
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Admin endpoints

func (s *Server) handleGetAdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.planService.Stats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// Helper functions

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

package services

import (
	"context"
	"time"

	"github.com/pathwise-labs/pathwise-core/internal/core/domain"
	"github.com/pathwise-labs/pathwise-core/internal/core/policy"
	"github.com/pathwise-labs/pathwise-core/internal/core/ports/driven"
	"github.com/pathwise-labs/pathwise-core/internal/core/ports/driving"
	"github.com/pathwise-labs/pathwise-core/internal/runtime"
)

// Ensure planService implements PlanService
var _ driving.PlanService = (*planService)(nil)

// planService manages persisted plans. Every write rebuilds the policy
// engine in the runtime registry so tier changes take effect immediately.
type planService struct {
	planStore     driven.PlanStore
	userStore     driven.UserStore
	resourceStore driven.ResourceStore
	searchLog     driven.SearchLogStore
	services      *runtime.Services
}

// NewPlanService creates a new PlanService
func NewPlanService(
	planStore driven.PlanStore,
	userStore driven.UserStore,
	resourceStore driven.ResourceStore,
	searchLog driven.SearchLogStore,
	services *runtime.Services,
) driving.PlanService {
	return &planService{
		planStore:     planStore,
		userStore:     userStore,
		resourceStore: resourceStore,
		searchLog:     searchLog,
		services:      services,
	}
}

// List returns all plans
func (s *planService) List(ctx context.Context) ([]*domain.Plan, error) {
	return s.planStore.List(ctx)
}

// Get retrieves a plan by ID
func (s *planService) Get(ctx context.Context, id string) (*domain.Plan, error) {
	return s.planStore.Get(ctx, id)
}

// Update applies a partial plan update and reloads access policy
func (s *planService) Update(ctx context.Context, id string, req driving.UpdatePlanRequest) (*domain.Plan, error) {
	plan, err := s.planStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		plan.Name = *req.Name
	}
	if req.PriceCents != nil {
		if *req.PriceCents < 0 {
			return nil, domain.ErrInvalidInput
		}
		plan.PriceCents = *req.PriceCents
	}
	if req.Period != nil {
		plan.Period = *req.Period
	}
	if req.Description != nil {
		plan.Description = *req.Description
	}
	if req.AccessLevel != nil {
		switch *req.AccessLevel {
		case domain.AccessBasic, domain.AccessPremium, domain.AccessUnlimited:
			plan.AccessLevel = *req.AccessLevel
		default:
			return nil, domain.ErrInvalidInput
		}
	}
	if req.MaxSavedResources != nil {
		plan.MaxSavedResources = *req.MaxSavedResources
	}
	if req.MaxAISearches != nil {
		plan.MaxAISearches = *req.MaxAISearches
	}
	plan.UpdatedAt = time.Now()

	if err := s.planStore.Save(ctx, plan); err != nil {
		return nil, err
	}

	if err := s.reloadPolicy(ctx); err != nil {
		return nil, err
	}
	return plan, nil
}

// Stats returns platform activity counters
func (s *planService) Stats(ctx context.Context) (*driving.AdminStats, error) {
	users, err := s.userStore.List(ctx)
	if err != nil {
		return nil, err
	}
	premium := 0
	for _, u := range users {
		if u.Tier() == domain.TierPremium {
			premium++
		}
	}

	resources, err := s.resourceStore.List(ctx, true)
	if err != nil {
		return nil, err
	}

	searches := 0
	if s.searchLog != nil {
		searches, err = s.searchLog.Count(ctx)
		if err != nil {
			return nil, err
		}
	}

	return &driving.AdminStats{
		TotalUsers:     len(users),
		PremiumUsers:   premium,
		TotalResources: len(resources),
		TotalSearches:  searches,
	}, nil
}

// reloadPolicy rebuilds the policy engine from the persisted plan set.
func (s *planService) reloadPolicy(ctx context.Context) error {
	plans, err := s.planStore.List(ctx)
	if err != nil {
		return err
	}
	s.services.SetPolicy(policy.NewEngine(policy.ConfigFromPlans(plans)))
	return nil
}

// SeedDefaultPlans writes the default plan set for any plan missing from the
// store. Called once at startup so a fresh database starts with the free and
// premium plans in place.
func SeedDefaultPlans(ctx context.Context, store driven.PlanStore) error {
	for _, plan := range domain.DefaultPlans() {
		if _, err := store.Get(ctx, plan.ID); err == nil {
			continue
		}
		plan.UpdatedAt = time.Now()
		if err := store.Save(ctx, plan); err != nil {
			return err
		}
	}
	return nil
}

package services

import (
	"context"
	"strings"
	"time"

	"github.com/pathwise-labs/pathwise-core/internal/core/domain"
	"github.com/pathwise-labs/pathwise-core/internal/core/ports/driven"
	"github.com/pathwise-labs/pathwise-core/internal/core/ports/driving"
	"github.com/pathwise-labs/pathwise-core/internal/runtime"
)

// Ensure resourceService implements ResourceService
var _ driving.ResourceService = (*resourceService)(nil)

// resourceService implements the ResourceService interface
type resourceService struct {
	resourceStore driven.ResourceStore
	services      *runtime.Services
}

// NewResourceService creates a new ResourceService
func NewResourceService(resourceStore driven.ResourceStore, services *runtime.Services) driving.ResourceService {
	return &resourceService{
		resourceStore: resourceStore,
		services:      services,
	}
}

// Create adds a resource to the catalog (admin only)
func (s *resourceService) Create(ctx context.Context, req driving.CreateResourceRequest) (*domain.Resource, error) {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.ResourceType) == "" {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	resource := &domain.Resource{
		ID:           generateID(),
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		Website:      req.Website,
		Phone:        req.Phone,
		ContactEmail: req.ContactEmail,
		Address:      req.Address,
		City:         req.City,
		State:        req.State,
		Industry:     req.Industry,
		ResourceType: req.ResourceType,
		Tags:         req.Tags,
		IsNational:   req.IsNational,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.resourceStore.Save(ctx, resource); err != nil {
		return nil, err
	}
	return resource, nil
}

// Get retrieves a resource by ID, redacted for the viewer's tier
func (s *resourceService) Get(ctx context.Context, id string, tier domain.SubscriptionTier) (*domain.Resource, error) {
	resource, err := s.resourceStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.services.Policy().RedactOne(resource, tier), nil
}

// List retrieves catalog resources redacted for the viewer's tier
func (s *resourceService) List(ctx context.Context, tier domain.SubscriptionTier, includeInactive bool) ([]*domain.Resource, error) {
	resources, err := s.resourceStore.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}

	policy := s.services.Policy()
	out := make([]*domain.Resource, len(resources))
	for i, r := range resources {
		out[i] = policy.RedactOne(r, tier)
	}
	return out, nil
}

// Update applies a partial update (admin only)
func (s *resourceService) Update(ctx context.Context, id string, req driving.UpdateResourceRequest) (*domain.Resource, error) {
	resource, err := s.resourceStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, domain.ErrInvalidInput
		}
		resource.Title = title
	}
	if req.Description != nil {
		resource.Description = *req.Description
	}
	if req.Website != nil {
		resource.Website = req.Website
	}
	if req.Phone != nil {
		resource.Phone = req.Phone
	}
	if req.ContactEmail != nil {
		resource.ContactEmail = req.ContactEmail
	}
	if req.Address != nil {
		resource.Address = req.Address
	}
	if req.City != nil {
		resource.City = req.City
	}
	if req.State != nil {
		resource.State = req.State
	}
	if req.Industry != nil {
		resource.Industry = req.Industry
	}
	if req.ResourceType != nil {
		resource.ResourceType = *req.ResourceType
	}
	if req.Tags != nil {
		resource.Tags = req.Tags
	}
	if req.IsNational != nil {
		resource.IsNational = *req.IsNational
	}
	resource.UpdatedAt = time.Now()

	if err := s.resourceStore.Save(ctx, resource); err != nil {
		return nil, err
	}
	return resource, nil
}

// Deactivate soft-deletes a resource (admin only)
func (s *resourceService) Deactivate(ctx context.Context, id string) error {
	return s.resourceStore.Deactivate(ctx, id)
}

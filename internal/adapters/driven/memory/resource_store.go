// Package memory provides an in-process ResourceStore used for the contact
// directory. The directory ships with a curated seed set and supports the
// same search contract as the PostgreSQL catalog.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pathwise-labs/pathwise-core/internal/core/domain"
	"github.com/pathwise-labs/pathwise-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ResourceStore = (*ResourceStore)(nil)

// ResourceStore implements driven.ResourceStore in memory
type ResourceStore struct {
	mu        sync.RWMutex
	resources map[string]*domain.Resource
}

// NewResourceStore creates an empty in-memory store
func NewResourceStore() *ResourceStore {
	return &ResourceStore{resources: make(map[string]*domain.Resource)}
}

// NewContactDirectory creates a store seeded with the built-in contact
// records for corporations and government agencies.
func NewContactDirectory() *ResourceStore {
	store := NewResourceStore()
	for _, contact := range seedContacts() {
		store.resources[contact.ID] = contact
	}
	return store
}

// Search returns active resources matching the criteria, national entries
// first, then alphabetically by title.
func (s *ResourceStore) Search(ctx context.Context, criteria domain.SearchCriteria) ([]*domain.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []*domain.Resource
	for _, r := range s.resources {
		if criteria.Matches(r) {
			matches = append(matches, r)
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].IsNational != matches[j].IsNational {
			return matches[i].IsNational
		}
		return strings.ToLower(matches[i].Title) < strings.ToLower(matches[j].Title)
	})

	limit := criteria.Limit
	if limit <= 0 {
		limit = domain.DefaultPageSize
	}
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// Get retrieves a resource by ID
func (s *ResourceStore) Get(ctx context.Context, id string) (*domain.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.resources[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

// Save creates or updates a resource
func (s *ResourceStore) Save(ctx context.Context, resource *domain.Resource) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resources[resource.ID] = resource
	return nil
}

// List retrieves all resources, optionally including deactivated ones
func (s *ResourceStore) List(ctx context.Context, includeInactive bool) ([]*domain.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Resource
	for _, r := range s.resources {
		if !includeInactive && !r.IsActive {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Title) < strings.ToLower(out[j].Title)
	})
	return out, nil
}

// Deactivate soft-deletes a resource
func (s *ResourceStore) Deactivate(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.resources[id]
	if !ok {
		return domain.ErrNotFound
	}
	r.IsActive = false
	return nil
}

func strPtr(s string) *string { return &s }

// seedContacts returns the built-in contact directory: official customer
// service and regulatory contact points that rarely change.
func seedContacts() []*domain.Resource {
	created := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	contact := func(id, title, description, website, phone, email, address, city, state string, tags []string) *domain.Resource {
		return &domain.Resource{
			ID:           id,
			Title:        title,
			Description:  description,
			Website:      strPtr(website),
			Phone:        strPtr(phone),
			ContactEmail: strPtr(email),
			Address:      strPtr(address),
			City:         strPtr(city),
			State:        strPtr(state),
			ResourceType: domain.ResourceTypeContact,
			Tags:         tags,
			IsNational:   true,
			IsActive:     true,
			CreatedAt:    created,
			UpdatedAt:    created,
		}
	}

	return []*domain.Resource{
		contact("amazon-hq", "Amazon.com, Inc.",
			"Global e-commerce and cloud computing company headquarters. Customer service and business inquiries.",
			"amazon.com", "1-888-280-4331", "customer-service@amazon.com",
			"410 Terry Avenue North", "Seattle", "WA",
			[]string{"corporate", "headquarters", "customer service"}),
		contact("florida-real-estate", "Florida Real Estate Commission",
			"Official state agency regulating real estate licenses, continuing education, and enforcement in Florida.",
			"myfloridalicense.com/dbpr", "1-850-487-1395", "real.estate@myfloridalicense.com",
			"2601 Blair Stone Road", "Tallahassee", "FL",
			[]string{"government", "regulatory", "real estate", "florida"}),
		contact("irs-customer-service", "Internal Revenue Service (IRS)",
			"Official U.S. federal tax collection agency. Customer service for tax questions, payments, and returns.",
			"irs.gov", "1-800-829-1040", "help@irs.gov",
			"1111 Constitution Ave NW", "Washington", "DC",
			[]string{"government", "federal", "tax"}),
		contact("tesla-hq", "Tesla, Inc.",
			"Electric vehicle and clean energy company headquarters. Customer support and investor relations.",
			"tesla.com", "1-650-681-5000", "customerservice@tesla.com",
			"1 Tesla Road", "Austin", "TX",
			[]string{"corporate", "headquarters", "automotive"}),
		contact("texas-dmv", "Texas Department of Motor Vehicles",
			"Official Texas state agency for vehicle registration, titles, licenses, and motor vehicle services.",
			"txdmv.gov", "1-888-368-4689", "webmaster@txdmv.gov",
			"4000 Jackson Ave", "Austin", "TX",
			[]string{"government", "dmv", "texas"}),
		contact("microsoft-support", "Microsoft Corporation",
			"Microsoft customer support for products, services, and technical assistance. Enterprise and consumer support.",
			"support.microsoft.com", "1-800-642-7676", "support@microsoft.com",
			"1 Microsoft Way", "Redmond", "WA",
			[]string{"corporate", "technology", "support"}),
		contact("california-dmv", "California Department of Motor Vehicles",
			"California DMV for driver licenses, vehicle registration, and motor vehicle services.",
			"dmv.ca.gov", "1-800-777-0133", "customer.service@dmv.ca.gov",
			"2415 1st Avenue", "Sacramento", "CA",
			[]string{"government", "dmv", "california"}),
		contact("apple-support", "Apple Inc.",
			"Apple customer support for iPhone, iPad, Mac, and other Apple products. Technical support and warranty services.",
			"apple.com/support", "1-800-275-2273", "support@apple.com",
			"1 Apple Park Way", "Cupertino", "CA",
			[]string{"corporate", "technology", "support"}),
		contact("social-security", "Social Security Administration",
			"Official U.S. federal agency managing social security benefits, disability, and retirement services.",
			"ssa.gov", "1-800-772-1213", "contact@ssa.gov",
			"6401 Security Blvd", "Baltimore", "MD",
			[]string{"government", "federal", "benefits"}),
		contact("google-support", "Google LLC",
			"Google customer support for search, advertising, cloud services, and consumer products.",
			"support.google.com", "1-650-253-0000", "support@google.com",
			"1600 Amphitheatre Parkway", "Mountain View", "CA",
			[]string{"corporate", "technology", "support"}),
	}
}

package domain

import (
	"strings"
	"time"
)

// Well-known resource type labels. The catalog is not restricted to these;
// they are the categories the query oracle is instructed to pick from.
const (
	ResourceTypeJobBoard         = "Job Search Website"
	ResourceTypeTradeOrg         = "Trade Organization"
	ResourceTypeBusinessDev      = "Business Development"
	ResourceTypeLearningPlatform = "Learning Platform"
	ResourceTypeIndustryResource = "Industry Resource"
	ResourceTypeContact          = "Contact Directory"
)

// Resource is a catalog entry: a career or business resource a viewer can
// be matched with. Contact fields are optional and subject to tier-based
// redaction before they leave the server.
type Resource struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Website      *string   `json:"website"`
	Phone        *string   `json:"phone"`
	ContactEmail *string   `json:"contactEmail"`
	Address      *string   `json:"address"`
	City         *string   `json:"city,omitempty"`
	State        *string   `json:"state,omitempty"`
	ResourceType string    `json:"resourceType"`
	Industry     *string   `json:"industry,omitempty"`
	Tags         []string  `json:"tags"`
	IsNational   bool      `json:"isNational"`
	IsActive     bool      `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Clone returns a deep copy so redaction never mutates store-owned data.
func (r *Resource) Clone() *Resource {
	c := *r
	c.Website = clonePtr(r.Website)
	c.Phone = clonePtr(r.Phone)
	c.ContactEmail = clonePtr(r.ContactEmail)
	c.Address = clonePtr(r.Address)
	c.City = clonePtr(r.City)
	c.State = clonePtr(r.State)
	c.Industry = clonePtr(r.Industry)
	if r.Tags != nil {
		c.Tags = append([]string(nil), r.Tags...)
	}
	return &c
}

func clonePtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// SearchCriteria is a disjunctive filter over the catalog: a resource
// matches when any keyword hits title/description/tags, or its type is in
// ResourceTypes. Industry, when set, narrows the whole disjunction.
type SearchCriteria struct {
	Keywords      []string `json:"keywords,omitempty"`
	ResourceTypes []string `json:"resource_types,omitempty"`
	Industry      string   `json:"industry,omitempty"`
	Limit         int      `json:"limit,omitempty"`
}

// IsEmpty reports whether no filter terms were supplied at all.
func (c SearchCriteria) IsEmpty() bool {
	return len(c.Keywords) == 0 && len(c.ResourceTypes) == 0 && c.Industry == ""
}

// DefaultPageSize caps a single catalog query.
const DefaultPageSize = 20

// Matches reports whether the resource satisfies the criteria. Shared by
// non-SQL store implementations (memory directory, mocks) so every path
// applies identical matching rules.
func (c SearchCriteria) Matches(r *Resource) bool {
	if !r.IsActive {
		return false
	}
	if c.Industry != "" {
		if r.Industry == nil || !strings.Contains(strings.ToLower(*r.Industry), strings.ToLower(c.Industry)) {
			return false
		}
	}
	if c.IsEmpty() || (len(c.Keywords) == 0 && len(c.ResourceTypes) == 0) {
		return true
	}
	for _, rt := range c.ResourceTypes {
		if strings.EqualFold(r.ResourceType, rt) {
			return true
		}
	}
	for _, kw := range c.Keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if strings.Contains(strings.ToLower(r.Title), kw) ||
			strings.Contains(strings.ToLower(r.Description), kw) {
			return true
		}
		for _, tag := range r.Tags {
			if strings.Contains(strings.ToLower(tag), kw) {
				return true
			}
		}
	}
	return false
}

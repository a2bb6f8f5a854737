package domain

import "time"

// AccessTier is the ordered access classification a plan grants. The
// ordering is basic < premium < unlimited; the policy engine compares tiers
// by rank, never by string.
type AccessTier string

const (
	AccessBasic     AccessTier = "basic"
	AccessPremium   AccessTier = "premium"
	AccessUnlimited AccessTier = "unlimited"
)

// Plan describes one subscription plan: pricing metadata plus the access
// level it grants. Plans live in persistent storage and are loaded into the
// policy engine at startup; admin edits are written back, not held only in
// process memory.
type Plan struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	PriceCents        int        `json:"price_cents"`
	Period            string     `json:"period"`
	Description       string     `json:"description"`
	AccessLevel       AccessTier `json:"access_level"`
	MaxSavedResources int        `json:"max_saved_resources"` // -1 means unlimited
	MaxAISearches     int        `json:"max_ai_searches"`     // -1 means unlimited
	UpdatedAt         time.Time  `json:"updated_at"`
}

// DefaultPlans returns the seed plan set: free maps to basic access,
// premium to unlimited.
func DefaultPlans() []*Plan {
	return []*Plan{
		{
			ID:                string(TierFree),
			Name:              "Free Plan",
			PriceCents:        0,
			Period:            "forever",
			Description:       "Basic search access with limited results",
			AccessLevel:       AccessBasic,
			MaxSavedResources: 5,
			MaxAISearches:     5,
		},
		{
			ID:                string(TierPremium),
			Name:              "Premium Plan",
			PriceCents:        599,
			Period:            "month",
			Description:       "Full access with complete contact information and unlimited searches",
			AccessLevel:       AccessUnlimited,
			MaxSavedResources: -1,
			MaxAISearches:     -1,
		},
	}
}

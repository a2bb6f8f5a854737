package policy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathwise-labs/pathwise-core/internal/core/domain"
)

func strPtr(s string) *string { return &s }

func sampleResources(n int) []*domain.Resource {
	items := make([]*domain.Resource, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, &domain.Resource{
			ID:           "res-" + string(rune('a'+i)),
			Title:        "Resource",
			Description:  strings.Repeat("career guidance text ", 20), // well past the budget
			Website:      strPtr("https://example.com"),
			Phone:        strPtr("1-800-555-0100"),
			ContactEmail: strPtr("contact@example.com"),
			Address:      strPtr("410 Terry Avenue North"),
			ResourceType: domain.ResourceTypeJobBoard,
			IsActive:     true,
		})
	}
	return items
}

func TestEngine_HasAccess(t *testing.T) {
	e := NewEngine(DefaultConfig())

	tests := []struct {
		tier     domain.SubscriptionTier
		required domain.AccessTier
		want     bool
	}{
		{domain.TierFree, domain.AccessBasic, true},
		{domain.TierFree, domain.AccessPremium, false},
		{domain.TierFree, domain.AccessUnlimited, false},
		{domain.TierPremium, domain.AccessBasic, true},
		{domain.TierPremium, domain.AccessPremium, true},
		{domain.TierPremium, domain.AccessUnlimited, true},
		{"", domain.AccessBasic, true},          // missing tier defaults to free
		{"", domain.AccessUnlimited, false},     // and fails closed
		{"mystery", domain.AccessUnlimited, false}, // unknown tier fails closed
		{domain.TierPremium, "mystery", true},   // unknown level requires unlimited
		{domain.TierFree, "mystery", false},
	}

	for _, tt := range tests {
		got := e.HasAccess(tt.tier, tt.required)
		assert.Equal(t, tt.want, got, "HasAccess(%q, %q)", tt.tier, tt.required)
	}
}

func TestEngine_HasAccess_Monotonic(t *testing.T) {
	e := NewEngine(DefaultConfig())

	// Whatever free can access, premium can access too.
	for _, level := range []domain.AccessTier{domain.AccessBasic, domain.AccessPremium, domain.AccessUnlimited} {
		if e.HasAccess(domain.TierFree, level) {
			assert.True(t, e.HasAccess(domain.TierPremium, level),
				"premium must dominate free at level %q", level)
		}
	}
}

func TestEngine_Redact_Basic(t *testing.T) {
	e := NewEngine(DefaultConfig())
	items := sampleResources(10)

	out := e.Redact(items, domain.TierFree)

	require.Len(t, out, 3, "free tier sees at most the preview limit")
	for _, r := range out {
		assert.Nil(t, r.Website)
		assert.Nil(t, r.Phone)
		assert.Nil(t, r.ContactEmail)
		assert.Nil(t, r.Address)
		assert.LessOrEqual(t, len([]rune(r.Description)), 200)
		assert.True(t, strings.HasSuffix(r.Description, "..."))
	}

	// Originals untouched.
	for _, r := range items {
		assert.NotNil(t, r.Website, "redaction must not mutate store-owned data")
	}
}

func TestEngine_Redact_Idempotent(t *testing.T) {
	e := NewEngine(DefaultConfig())
	items := sampleResources(5)

	once := e.Redact(items, domain.TierFree)
	twice := e.Redact(once, domain.TierFree)

	require.Len(t, twice, len(once))
	for i := range once {
		assert.Equal(t, once[i].Description, twice[i].Description)
		assert.Nil(t, twice[i].Website)
	}
}

func TestEngine_Redact_UnlimitedPassThrough(t *testing.T) {
	e := NewEngine(DefaultConfig())
	items := sampleResources(10)

	out := e.Redact(items, domain.TierPremium)

	require.Len(t, out, 10)
	for i := range items {
		assert.Same(t, items[i], out[i], "unlimited access returns items unchanged")
	}
}

func TestEngine_Redact_ShortDescriptionKept(t *testing.T) {
	e := NewEngine(DefaultConfig())
	items := sampleResources(1)
	items[0].Description = "short and sweet"

	out := e.Redact(items, domain.TierFree)

	require.Len(t, out, 1)
	assert.Equal(t, "short and sweet", out[0].Description)
}

func TestConfigFromPlans_AdminOverride(t *testing.T) {
	plans := domain.DefaultPlans()
	// Admin downgraded premium to basic access.
	plans[1].AccessLevel = domain.AccessBasic

	e := NewEngine(ConfigFromPlans(plans))

	assert.False(t, e.HasAccess(domain.TierPremium, domain.AccessUnlimited))
	out := e.Redact(sampleResources(10), domain.TierPremium)
	assert.Len(t, out, 3)
}

// Package policy implements tier-based access checks and result redaction.
// It is pure: no I/O, no ambient state. Every code path that serves resource
// data to a viewer goes through the same Engine so redaction rules cannot
// drift between call sites.
package policy

import (
	"unicode/utf8"

	"github.com/pathwise-labs/pathwise-core/internal/core/domain"
)

// tierRank orders access tiers. Unknown tiers rank below basic so access
// checks fail closed.
var tierRank = map[domain.AccessTier]int{
	domain.AccessBasic:     0,
	domain.AccessPremium:   1,
	domain.AccessUnlimited: 2,
}

// Config holds the policy configuration loaded from the plan store at
// startup. It is passed in explicitly; there is no process-global registry.
type Config struct {
	// Plans maps subscription tier id (e.g. "free", "premium") to the plan
	// granting its access level.
	Plans map[string]*domain.Plan

	// PreviewLimit is how many results a non-unlimited viewer sees.
	PreviewLimit int

	// DescriptionBudget is the description length, in runes, kept for
	// non-unlimited viewers.
	DescriptionBudget int
}

// DefaultConfig returns the seed policy config built from the default plans.
func DefaultConfig() Config {
	return ConfigFromPlans(domain.DefaultPlans())
}

// ConfigFromPlans builds a Config with the standard preview limits from a
// persisted plan set.
func ConfigFromPlans(plans []*domain.Plan) Config {
	m := make(map[string]*domain.Plan, len(plans))
	for _, p := range plans {
		m[p.ID] = p
	}
	return Config{
		Plans:             m,
		PreviewLimit:      3,
		DescriptionBudget: 200,
	}
}

// Engine answers access questions and redacts result sets for a viewer's
// subscription tier. Methods are deterministic and side-effect free.
type Engine struct {
	cfg Config
}

// NewEngine creates an Engine from the given config.
func NewEngine(cfg Config) *Engine {
	if cfg.PreviewLimit <= 0 {
		cfg.PreviewLimit = 3
	}
	if cfg.DescriptionBudget <= 0 {
		cfg.DescriptionBudget = 200
	}
	return &Engine{cfg: cfg}
}

// accessLevel resolves a subscription tier to its plan's access level.
// Missing or unknown tiers resolve to basic.
func (e *Engine) accessLevel(tier domain.SubscriptionTier) domain.AccessTier {
	id := string(tier)
	if id == "" {
		id = string(domain.TierFree)
	}
	plan, ok := e.cfg.Plans[id]
	if !ok {
		return domain.AccessBasic
	}
	if _, known := tierRank[plan.AccessLevel]; !known {
		return domain.AccessBasic
	}
	return plan.AccessLevel
}

// HasAccess reports whether the subscription tier grants at least the
// required access level. Unknown required levels are treated as unlimited,
// so both sides of the comparison fail closed.
func (e *Engine) HasAccess(tier domain.SubscriptionTier, required domain.AccessTier) bool {
	requiredRank, ok := tierRank[required]
	if !ok {
		requiredRank = tierRank[domain.AccessUnlimited]
	}
	return tierRank[e.accessLevel(tier)] >= requiredRank
}

// Redact applies tier-based filtering to a result set. Viewers with
// unlimited access get the input back unchanged. Everyone else gets at most
// PreviewLimit entries, each a copy with contact fields removed and the
// description truncated to DescriptionBudget runes.
func (e *Engine) Redact(items []*domain.Resource, tier domain.SubscriptionTier) []*domain.Resource {
	if e.HasAccess(tier, domain.AccessUnlimited) {
		return items
	}

	limit := e.cfg.PreviewLimit
	if limit > len(items) {
		limit = len(items)
	}

	redacted := make([]*domain.Resource, 0, limit)
	for _, item := range items[:limit] {
		r := item.Clone()
		r.Website = nil
		r.Phone = nil
		r.ContactEmail = nil
		r.Address = nil
		r.Description = truncate(r.Description, e.cfg.DescriptionBudget)
		redacted = append(redacted, r)
	}
	return redacted
}

// RedactOne redacts a single resource for the viewer's tier without any
// preview cap. Catalog browsing uses this: everyone may see the whole list,
// only contact details are gated.
func (e *Engine) RedactOne(item *domain.Resource, tier domain.SubscriptionTier) *domain.Resource {
	if e.HasAccess(tier, domain.AccessUnlimited) {
		return item
	}
	r := item.Clone()
	r.Website = nil
	r.Phone = nil
	r.ContactEmail = nil
	r.Address = nil
	r.Description = truncate(r.Description, e.cfg.DescriptionBudget)
	return r
}

// PreviewLimit exposes the configured preview size for messaging.
func (e *Engine) PreviewLimit() int {
	return e.cfg.PreviewLimit
}

// truncate shortens s to at most budget runes, ellipsis included, so a
// second pass over already-truncated text is a no-op.
func truncate(s string, budget int) string {
	if utf8.RuneCountInString(s) <= budget {
		return s
	}
	runes := []rune(s)
	return string(runes[:budget-3]) + "..."
}

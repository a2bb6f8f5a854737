package domain

import (
	"strings"
	"time"
)

// SearchDirective is the structured output of the query oracle: everything
// needed to turn a free-text question into a catalog query. Created per
// request, never persisted.
type SearchDirective struct {
	Guidance              string   `json:"guidance"`
	RelevantResourceTypes []string `json:"relevantResourceTypes"`
	SearchKeywords        []string `json:"searchKeywords"`
	IndustryFilter        string   `json:"industryFilter,omitempty"`
	LocationRelevant      bool     `json:"locationRelevant"`
}

// Criteria converts the directive into store search criteria.
func (d *SearchDirective) Criteria() SearchCriteria {
	return SearchCriteria{
		Keywords:      d.SearchKeywords,
		ResourceTypes: d.RelevantResourceTypes,
		Industry:      d.IndustryFilter,
		Limit:         DefaultPageSize,
	}
}

// FallbackDirective is the soft-failure directive used when the oracle times
// out or returns unparseable output: the raw query becomes the sole keyword.
func FallbackDirective(query string) *SearchDirective {
	return &SearchDirective{
		Guidance:       "",
		SearchKeywords: []string{strings.TrimSpace(query)},
	}
}

// KeywordDirective derives a directive from the query text alone, for search
// paths that do not consult the oracle. Terms shorter than three characters
// are dropped.
func KeywordDirective(query string) *SearchDirective {
	var keywords []string
	for _, term := range strings.Fields(strings.ToLower(query)) {
		if len(term) > 2 {
			keywords = append(keywords, term)
		}
	}
	if len(keywords) == 0 {
		keywords = []string{strings.TrimSpace(query)}
	}
	return &SearchDirective{SearchKeywords: keywords}
}

// ViewerContext is the optional profile context handed to the oracle for an
// identified viewer.
type ViewerContext struct {
	Location        string   `json:"location,omitempty"`
	Industry        string   `json:"industry,omitempty"`
	ExperienceLevel string   `json:"experience_level,omitempty"`
	Interests       []string `json:"interests,omitempty"`
}

// SearchViewer identifies who is searching: the tier that drives redaction,
// the user ID for analytics (nil when anonymous), and the optional profile
// context handed to the oracle.
type SearchViewer struct {
	Tier    SubscriptionTier
	UserID  *string
	Context *ViewerContext
}

// AnonymousViewer is the viewer for unauthenticated searches. Anonymous
// callers always see free-tier redacted results.
func AnonymousViewer() *SearchViewer {
	return &SearchViewer{Tier: TierFree}
}

// StageStatus identifies a stage of the streaming search pipeline.
type StageStatus string

const (
	StageAnalyzing  StageStatus = "analyzing"
	StageSearching  StageStatus = "searching"
	StageProcessing StageStatus = "processing"
	StageVerifying  StageStatus = "verifying"
	StageMatching   StageStatus = "matching"
	StageCompleted  StageStatus = "completed"
	StageError      StageStatus = "error"
)

// Terminal reports whether the stage ends the stream.
func (s StageStatus) Terminal() bool {
	return s == StageCompleted || s == StageError
}

// StageEvent is one record of the streamed search protocol. Progress events
// carry a message; the completed event carries the result instead.
type StageEvent struct {
	Status  StageStatus    `json:"status"`
	Message string         `json:"message,omitempty"`
	Result  *SearchOutcome `json:"result,omitempty"`
}

// SearchOutcome is the payload of the terminal completed event. Resources
// are already redacted for the requesting viewer's tier; TotalResults is the
// match count before any preview truncation.
type SearchOutcome struct {
	Guidance     string      `json:"guidance"`
	Resources    []*Resource `json:"resources"`
	Query        string      `json:"query"`
	TotalResults int         `json:"totalResults"`
}

// SearchQuery is the analytics record written after a completed search.
// Append-only; never read back within the request that wrote it.
type SearchQuery struct {
	ID           string    `json:"id"`
	UserID       *string   `json:"user_id,omitempty"`
	Query        string    `json:"query"`
	ResultsCount int       `json:"results_count"`
	CreatedAt    time.Time `json:"created_at"`
}

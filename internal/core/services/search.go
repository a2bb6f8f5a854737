package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/pathwise-labs/pathwise-core/internal/core/domain"
	"github.com/pathwise-labs/pathwise-core/internal/core/ports/driven"
	"github.com/pathwise-labs/pathwise-core/internal/core/ports/driving"
	"github.com/pathwise-labs/pathwise-core/internal/runtime"
)

// Ensure streamSearchService implements StreamSearchService
var _ driving.StreamSearchService = (*streamSearchService)(nil)

const (
	// defaultOracleTimeout bounds the analyzing stage; past it the pipeline
	// falls back to keyword matching.
	defaultOracleTimeout = 10 * time.Second

	// maxInterestContext is how many top-priority interests are fed to the
	// oracle.
	maxInterestContext = 5

	// eventBuffer absorbs bursts so a slow consumer does not stall the
	// producer between stages.
	eventBuffer = 8
)

// streamSearchService runs the staged search pipeline over a resource store.
// The AI path consults the query oracle during the analyzing stage; the
// contact path skips the oracle and adds a verifying stage instead. Both
// paths redact results server side through the runtime policy engine.
type streamSearchService struct {
	resources     driven.ResourceStore
	users         driven.UserStore      // nil when viewer context is not loaded
	searchLog     driven.SearchLogStore // nil disables analytics
	services      *runtime.Services
	logger        *slog.Logger
	oracleTimeout time.Duration
	useOracle     bool
	verifyStage   bool
}

// StreamSearchConfig holds dependencies for the search pipeline.
type StreamSearchConfig struct {
	Resources driven.ResourceStore
	Users     driven.UserStore
	SearchLog driven.SearchLogStore
	Services  *runtime.Services
	Logger    *slog.Logger

	// OracleTimeout overrides the analyzing stage deadline (tests only)
	OracleTimeout time.Duration
}

// NewStreamSearchService creates the AI search pipeline over the resource
// catalog. The oracle is looked up per request so it can be configured at
// runtime; when absent the pipeline degrades to keyword search.
func NewStreamSearchService(cfg StreamSearchConfig) driving.StreamSearchService {
	s := newPipeline(cfg)
	s.useOracle = true
	return s
}

// NewContactSearchService creates the contact directory pipeline: keyword
// matching only, with a verification stage in place of oracle analysis.
func NewContactSearchService(cfg StreamSearchConfig) driving.StreamSearchService {
	s := newPipeline(cfg)
	s.verifyStage = true
	return s
}

func newPipeline(cfg StreamSearchConfig) *streamSearchService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.OracleTimeout
	if timeout <= 0 {
		timeout = defaultOracleTimeout
	}
	return &streamSearchService{
		resources:     cfg.Resources,
		users:         cfg.Users,
		searchLog:     cfg.SearchLog,
		services:      cfg.Services,
		logger:        logger,
		oracleTimeout: timeout,
	}
}

// Stream starts the pipeline and returns the event channel. The producer
// goroutine owns the channel: it emits exactly one terminal event and closes
// it, or stops silently when ctx is cancelled first.
func (s *streamSearchService) Stream(ctx context.Context, query string, viewer *domain.SearchViewer) (<-chan domain.StageEvent, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrInvalidInput
	}
	if viewer == nil {
		viewer = domain.AnonymousViewer()
	}

	events := make(chan domain.StageEvent, eventBuffer)
	go s.run(ctx, query, viewer, events)
	return events, nil
}

func (s *streamSearchService) run(ctx context.Context, query string, viewer *domain.SearchViewer, events chan<- domain.StageEvent) {
	defer close(events)
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("search pipeline panic", "panic", r, "query", query)
			s.send(ctx, events, errorEvent())
		}
	}()

	if !s.send(ctx, events, domain.StageEvent{
		Status:  domain.StageAnalyzing,
		Message: s.analyzingMessage(),
	}) {
		return
	}

	if !s.send(ctx, events, domain.StageEvent{
		Status:  domain.StageSearching,
		Message: s.searchingMessage(),
	}) {
		return
	}

	if s.useOracle {
		if !s.send(ctx, events, domain.StageEvent{
			Status:  domain.StageProcessing,
			Message: "Processing your question...",
		}) {
			return
		}
	}

	directive := s.analyze(ctx, query, viewer)

	matches, err := s.resources.Search(ctx, directive.Criteria())
	if err != nil {
		s.logger.Error("resource search failed", "error", err, "query", query)
		s.send(ctx, events, errorEvent())
		return
	}

	if s.verifyStage {
		if !s.send(ctx, events, domain.StageEvent{
			Status:  domain.StageVerifying,
			Message: "Verifying contact information...",
		}) {
			return
		}
	}

	if !s.send(ctx, events, domain.StageEvent{
		Status:  domain.StageMatching,
		Message: "Finding matching resources...",
	}) {
		return
	}

	total := len(matches)
	redacted := s.services.Policy().Redact(matches, viewer.Tier)
	if redacted == nil {
		// A nil slice marshals as JSON null; clients expect an array.
		redacted = []*domain.Resource{}
	}

	outcome := &domain.SearchOutcome{
		Guidance:     directive.Guidance,
		Resources:    redacted,
		Query:        query,
		TotalResults: total,
	}

	if !s.send(ctx, events, domain.StageEvent{
		Status: domain.StageCompleted,
		Result: outcome,
	}) {
		return
	}

	s.recordQuery(viewer, query, total)
}

// analyze resolves the query into a search directive. The AI path asks the
// oracle under a deadline and falls back to keyword matching on any failure;
// the contact path always derives keywords locally.
func (s *streamSearchService) analyze(ctx context.Context, query string, viewer *domain.SearchViewer) *domain.SearchDirective {
	if !s.useOracle {
		return domain.KeywordDirective(query)
	}

	oracle := s.services.Oracle()
	if oracle == nil {
		return domain.FallbackDirective(query)
	}

	oracleCtx, cancel := context.WithTimeout(ctx, s.oracleTimeout)
	defer cancel()

	directive, err := oracle.Understand(oracleCtx, query, s.viewerContext(ctx, viewer))
	if err != nil {
		s.logger.Warn("query oracle failed, falling back to keywords", "error", err, "query", query)
		return domain.FallbackDirective(query)
	}
	return directive
}

// viewerContext loads the viewer's profile context for the oracle. Missing
// users or interest load failures degrade to whatever context is available.
func (s *streamSearchService) viewerContext(ctx context.Context, viewer *domain.SearchViewer) *domain.ViewerContext {
	if viewer.Context != nil {
		return viewer.Context
	}
	if viewer.UserID == nil || s.users == nil {
		return nil
	}

	user, err := s.users.Get(ctx, *viewer.UserID)
	if err != nil {
		return nil
	}
	interests, err := s.users.ListInterests(ctx, user.ID, maxInterestContext)
	if err != nil {
		interests = nil
	}
	return user.ViewerContext(interests)
}

// recordQuery writes the analytics entry without holding up the response.
func (s *streamSearchService) recordQuery(viewer *domain.SearchViewer, query string, total int) {
	if s.searchLog == nil {
		return
	}
	entry := &domain.SearchQuery{
		ID:           generateID(),
		UserID:       viewer.UserID,
		Query:        query,
		ResultsCount: total,
		CreatedAt:    time.Now(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.searchLog.Record(ctx, entry); err != nil {
			s.logger.Warn("search log write failed", "error", err)
		}
	}()
}

// send delivers an event unless the consumer's context is done first.
func (s *streamSearchService) send(ctx context.Context, events chan<- domain.StageEvent, event domain.StageEvent) bool {
	if ctx.Err() != nil {
		return false
	}
	select {
	case events <- event:
		return true
	case <-ctx.Done():
		return false
	}
}

func (s *streamSearchService) analyzingMessage() string {
	if s.verifyStage {
		return "Analyzing your contact search query..."
	}
	return "Understanding your question..."
}

func (s *streamSearchService) searchingMessage() string {
	if s.verifyStage {
		return "Searching contact database..."
	}
	return "Finding relevant resources..."
}

// errorEvent is the single generic terminal failure. Details stay in server
// logs; clients only learn that the search did not finish.
func errorEvent() domain.StageEvent {
	return domain.StageEvent{
		Status:  domain.StageError,
		Message: "Sorry, something went wrong processing your question. Please try again.",
	}
}

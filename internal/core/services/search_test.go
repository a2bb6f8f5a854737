package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pathwise-labs/pathwise-core/internal/core/domain"
	"github.com/pathwise-labs/pathwise-core/internal/core/policy"
	"github.com/pathwise-labs/pathwise-core/internal/core/ports/driven/mocks"
	"github.com/pathwise-labs/pathwise-core/internal/runtime"
)

func strPtr(s string) *string { return &s }

func seedResources(store *mocks.MockResourceStore, n int) {
	for i := 0; i < n; i++ {
		r := &domain.Resource{
			ID:           generateID(),
			Title:        "Plumbing apprenticeship program",
			Description:  "Hands-on plumbing training with union placement support and a long description that easily exceeds two hundred characters once padded with additional detail about schedules, tuition assistance, licensing exam preparation, and job placement statistics for graduates.",
			Website:      strPtr("https://example.org"),
			Phone:        strPtr("1-800-555-0100"),
			ContactEmail: strPtr("info@example.org"),
			Address:      strPtr("1 Trade St"),
			ResourceType: domain.ResourceTypeTradeOrg,
			Tags:         []string{"plumbing", "apprenticeship"},
			IsActive:     true,
			CreatedAt:    time.Now(),
		}
		_ = store.Save(context.Background(), r)
	}
}

type searchFixture struct {
	resources *mocks.MockResourceStore
	users     *mocks.MockUserStore
	searchLog *mocks.MockSearchLogStore
	oracle    *mocks.MockQueryOracle
	runtime   *runtime.Services
}

func newSearchFixture(t *testing.T) *searchFixture {
	t.Helper()
	f := &searchFixture{
		resources: mocks.NewMockResourceStore(),
		users:     mocks.NewMockUserStore(),
		searchLog: mocks.NewMockSearchLogStore(),
		oracle:    mocks.NewMockQueryOracle(),
		runtime:   runtime.NewServices(policy.NewEngine(policy.DefaultConfig())),
	}
	f.runtime.SetOracle(f.oracle)
	return f
}

func (f *searchFixture) config() StreamSearchConfig {
	return StreamSearchConfig{
		Resources:     f.resources,
		Users:         f.users,
		SearchLog:     f.searchLog,
		Services:      f.runtime,
		OracleTimeout: 200 * time.Millisecond,
	}
}

func collect(t *testing.T, events <-chan domain.StageEvent) []domain.StageEvent {
	t.Helper()
	var out []domain.StageEvent
	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return out
			}
			out = append(out, ev)
		case <-deadline:
			t.Fatal("stream did not terminate")
		}
	}
}

func statuses(events []domain.StageEvent) []domain.StageStatus {
	out := make([]domain.StageStatus, len(events))
	for i, ev := range events {
		out[i] = ev.Status
	}
	return out
}

func assertStageOrder(t *testing.T, got, want []domain.StageStatus) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("stages = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("stages = %v, want %v", got, want)
		}
	}
}

func TestStreamSearch_StageOrder(t *testing.T) {
	f := newSearchFixture(t)
	seedResources(f.resources, 2)
	f.oracle.SetDirective(&domain.SearchDirective{
		Guidance:       "Consider trade apprenticeships.",
		SearchKeywords: []string{"plumbing"},
	})

	svc := NewStreamSearchService(f.config())
	events, err := svc.Stream(context.Background(), "how do I become a plumber", domain.AnonymousViewer())
	if err != nil {
		t.Fatalf("Stream() error = %v", err)
	}

	collected := collect(t, events)
	assertStageOrder(t, statuses(collected), []domain.StageStatus{
		domain.StageAnalyzing,
		domain.StageSearching,
		domain.StageProcessing,
		domain.StageMatching,
		domain.StageCompleted,
	})

	final := collected[len(collected)-1]
	if final.Result == nil {
		t.Fatal("completed event has no result")
	}
	if final.Result.Guidance != "Consider trade apprenticeships." {
		t.Errorf("guidance = %q", final.Result.Guidance)
	}
	if final.Result.TotalResults != 2 {
		t.Errorf("totalResults = %d, want 2", final.Result.TotalResults)
	}
}

func TestStreamSearch_NoMatchesCompletesEmpty(t *testing.T) {
	f := newSearchFixture(t)
	f.oracle.SetDirective(&domain.SearchDirective{
		Guidance:       "Try a trade school near you.",
		SearchKeywords: []string{"underwater basket weaving"},
	})

	svc := NewStreamSearchService(f.config())
	// Premium exercises the unredacted pass-through on an empty result set
	viewer := &domain.SearchViewer{Tier: domain.TierPremium}
	events, err := svc.Stream(context.Background(), "underwater basket weaving", viewer)
	if err != nil {
		t.Fatalf("Stream() error = %v", err)
	}

	collected := collect(t, events)
	final := collected[len(collected)-1]
	if final.Status != domain.StageCompleted {
		t.Fatalf("terminal status = %q, want completed", final.Status)
	}
	if final.Result.TotalResults != 0 {
		t.Errorf("totalResults = %d, want 0", final.Result.TotalResults)
	}
	if final.Result.Resources == nil {
		t.Error("resources must be an empty slice, not nil")
	}
	if len(final.Result.Resources) != 0 {
		t.Errorf("resources = %v, want empty", final.Result.Resources)
	}
	if final.Result.Guidance != "Try a trade school near you." {
		t.Errorf("guidance = %q", final.Result.Guidance)
	}
}

func TestStreamSearch_EmptyQueryRejected(t *testing.T) {
	f := newSearchFixture(t)
	svc := NewStreamSearchService(f.config())

	for _, query := range []string{"", "   ", "\t\n"} {
		_, err := svc.Stream(context.Background(), query, domain.AnonymousViewer())
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("Stream(%q) error = %v, want ErrInvalidInput", query, err)
		}
	}
}

func TestStreamSearch_FreeTierRedaction(t *testing.T) {
	f := newSearchFixture(t)
	seedResources(f.resources, 6)

	svc := NewStreamSearchService(f.config())
	events, err := svc.Stream(context.Background(), "plumbing training", domain.AnonymousViewer())
	if err != nil {
		t.Fatalf("Stream() error = %v", err)
	}

	collected := collect(t, events)
	result := collected[len(collected)-1].Result
	if result == nil {
		t.Fatal("no result")
	}
	if result.TotalResults != 6 {
		t.Errorf("totalResults = %d, want 6", result.TotalResults)
	}
	if len(result.Resources) != 3 {
		t.Fatalf("free tier got %d resources, want 3", len(result.Resources))
	}
	for _, r := range result.Resources {
		if r.Website != nil || r.Phone != nil || r.ContactEmail != nil || r.Address != nil {
			t.Errorf("contact fields leaked for free tier: %+v", r)
		}
		if len([]rune(r.Description)) > 200 {
			t.Errorf("description not truncated: %d runes", len([]rune(r.Description)))
		}
	}
}

func TestStreamSearch_PremiumTierUnredacted(t *testing.T) {
	f := newSearchFixture(t)
	seedResources(f.resources, 6)

	svc := NewStreamSearchService(f.config())
	viewer := &domain.SearchViewer{Tier: domain.TierPremium}
	events, err := svc.Stream(context.Background(), "plumbing training", viewer)
	if err != nil {
		t.Fatalf("Stream() error = %v", err)
	}

	collected := collect(t, events)
	result := collected[len(collected)-1].Result
	if len(result.Resources) != 6 {
		t.Fatalf("premium got %d resources, want 6", len(result.Resources))
	}
	for _, r := range result.Resources {
		if r.Website == nil || r.Phone == nil {
			t.Errorf("premium resource missing contact fields: %+v", r)
		}
	}
}

func TestStreamSearch_OracleFailureFallsBack(t *testing.T) {
	f := newSearchFixture(t)
	seedResources(f.resources, 1)
	f.oracle.FailNext(errors.New("provider down"))

	svc := NewStreamSearchService(f.config())
	events, err := svc.Stream(context.Background(), "plumbing", domain.AnonymousViewer())
	if err != nil {
		t.Fatalf("Stream() error = %v", err)
	}

	collected := collect(t, events)
	final := collected[len(collected)-1]
	if final.Status != domain.StageCompleted {
		t.Fatalf("terminal status = %q, want completed", final.Status)
	}
	if final.Result.TotalResults != 1 {
		t.Errorf("fallback keyword search found %d, want 1", final.Result.TotalResults)
	}
}

func TestStreamSearch_OracleTimeoutFallsBack(t *testing.T) {
	f := newSearchFixture(t)
	seedResources(f.resources, 1)
	f.oracle.Block()

	svc := NewStreamSearchService(f.config())
	start := time.Now()
	events, err := svc.Stream(context.Background(), "plumbing", domain.AnonymousViewer())
	if err != nil {
		t.Fatalf("Stream() error = %v", err)
	}

	collected := collect(t, events)
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("timeout fallback took %v", elapsed)
	}
	final := collected[len(collected)-1]
	if final.Status != domain.StageCompleted {
		t.Fatalf("terminal status = %q, want completed", final.Status)
	}
}

func TestStreamSearch_NoOracleConfigured(t *testing.T) {
	f := newSearchFixture(t)
	seedResources(f.resources, 1)
	f.runtime.SetOracle(nil)

	svc := NewStreamSearchService(f.config())
	events, err := svc.Stream(context.Background(), "plumbing", domain.AnonymousViewer())
	if err != nil {
		t.Fatalf("Stream() error = %v", err)
	}

	collected := collect(t, events)
	final := collected[len(collected)-1]
	if final.Status != domain.StageCompleted {
		t.Fatalf("terminal status = %q, want completed", final.Status)
	}
}

func TestStreamSearch_StoreFailureEmitsSingleError(t *testing.T) {
	f := newSearchFixture(t)
	f.resources.FailNext(domain.ErrStoreUnavailable)

	svc := NewStreamSearchService(f.config())
	events, err := svc.Stream(context.Background(), "plumbing", domain.AnonymousViewer())
	if err != nil {
		t.Fatalf("Stream() error = %v", err)
	}

	collected := collect(t, events)
	terminal := 0
	for _, ev := range collected {
		if ev.Status.Terminal() {
			terminal++
		}
	}
	if terminal != 1 {
		t.Fatalf("got %d terminal events, want 1", terminal)
	}
	final := collected[len(collected)-1]
	if final.Status != domain.StageError {
		t.Fatalf("terminal status = %q, want error", final.Status)
	}
	if final.Result != nil {
		t.Error("error event must not carry a result")
	}
}

func TestStreamSearch_CancellationStopsStream(t *testing.T) {
	f := newSearchFixture(t)
	seedResources(f.resources, 1)
	f.oracle.Block()

	ctx, cancel := context.WithCancel(context.Background())
	svc := NewStreamSearchService(f.config())
	events, err := svc.Stream(ctx, "plumbing", domain.AnonymousViewer())
	if err != nil {
		t.Fatalf("Stream() error = %v", err)
	}
	cancel()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return // closed without hanging
			}
		case <-deadline:
			t.Fatal("channel not closed after cancellation")
		}
	}
}

func TestStreamSearch_RecordsAnalytics(t *testing.T) {
	f := newSearchFixture(t)
	seedResources(f.resources, 2)

	userID := "user-1"
	svc := NewStreamSearchService(f.config())
	viewer := &domain.SearchViewer{Tier: domain.TierFree, UserID: &userID}
	events, err := svc.Stream(context.Background(), "plumbing", viewer)
	if err != nil {
		t.Fatalf("Stream() error = %v", err)
	}
	collect(t, events)

	// Analytics write is asynchronous
	deadline := time.Now().Add(time.Second)
	for {
		if entries := f.searchLog.Entries(); len(entries) == 1 {
			if entries[0].UserID == nil || *entries[0].UserID != userID {
				t.Fatalf("logged userID = %v", entries[0].UserID)
			}
			if entries[0].ResultsCount != 2 {
				t.Fatalf("logged count = %d, want 2", entries[0].ResultsCount)
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("analytics entry never recorded")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestStreamSearch_AnalyticsFailureIgnored(t *testing.T) {
	f := newSearchFixture(t)
	seedResources(f.resources, 1)
	f.searchLog.FailNext(errors.New("db down"))

	svc := NewStreamSearchService(f.config())
	events, err := svc.Stream(context.Background(), "plumbing", domain.AnonymousViewer())
	if err != nil {
		t.Fatalf("Stream() error = %v", err)
	}
	collected := collect(t, events)
	if collected[len(collected)-1].Status != domain.StageCompleted {
		t.Fatal("analytics failure affected the response")
	}
}

func TestStreamSearch_ViewerContextPassedToOracle(t *testing.T) {
	f := newSearchFixture(t)
	seedResources(f.resources, 1)

	user := &domain.User{
		ID:       "user-1",
		Email:    "a@b.c",
		Name:     "A",
		Role:     domain.RoleMember,
		Industry: strPtr("construction"),
		Active:   true,
	}
	_ = f.users.Save(context.Background(), user)
	_ = f.users.AddInterest(context.Background(), &domain.Interest{
		ID: "i1", UserID: "user-1", Interest: "plumbing", Priority: 1,
	})

	svc := NewStreamSearchService(f.config())
	viewer := &domain.SearchViewer{Tier: domain.TierFree, UserID: &user.ID}
	events, err := svc.Stream(context.Background(), "next career move", viewer)
	if err != nil {
		t.Fatalf("Stream() error = %v", err)
	}
	collect(t, events)

	if f.oracle.Calls() != 1 {
		t.Fatalf("oracle calls = %d, want 1", f.oracle.Calls())
	}
	if f.oracle.LastQuery() != "next career move" {
		t.Errorf("oracle query = %q", f.oracle.LastQuery())
	}
}

func TestContactSearch_VerifyingStage(t *testing.T) {
	f := newSearchFixture(t)
	seedResources(f.resources, 1)

	svc := NewContactSearchService(f.config())
	events, err := svc.Stream(context.Background(), "plumbing union", domain.AnonymousViewer())
	if err != nil {
		t.Fatalf("Stream() error = %v", err)
	}

	collected := collect(t, events)
	assertStageOrder(t, statuses(collected), []domain.StageStatus{
		domain.StageAnalyzing,
		domain.StageSearching,
		domain.StageVerifying,
		domain.StageMatching,
		domain.StageCompleted,
	})

	// Contact path never consults the oracle
	if f.oracle.Calls() != 0 {
		t.Errorf("oracle calls = %d, want 0", f.oracle.Calls())
	}
}

func TestContactSearch_RedactedForFreeTier(t *testing.T) {
	f := newSearchFixture(t)
	seedResources(f.resources, 5)

	svc := NewContactSearchService(f.config())
	events, err := svc.Stream(context.Background(), "plumbing", domain.AnonymousViewer())
	if err != nil {
		t.Fatalf("Stream() error = %v", err)
	}

	collected := collect(t, events)
	result := collected[len(collected)-1].Result
	if len(result.Resources) != 3 {
		t.Fatalf("free tier contact search got %d, want 3", len(result.Resources))
	}
	for _, r := range result.Resources {
		if r.Phone != nil || r.ContactEmail != nil {
			t.Errorf("contact fields leaked: %+v", r)
		}
	}
}

package streamclient

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/pathwise-labs/pathwise-core/internal/core/domain"
	"github.com/pathwise-labs/pathwise-core/internal/core/policy"
)

const (
	defaultWatchdog = 45 * time.Second

	doneSentinel = "[DONE]"

	updateBuffer = 8
)

// ErrStreamInterrupted indicates the event stream ended before a terminal
// event arrived, either because the connection dropped or the watchdog
// fired.
var ErrStreamInterrupted = errors.New("search stream interrupted")

// Progress percentages per pipeline stage. Verifying is a heartbeat inside
// the processing phase and shares its percentage.
var stageProgress = map[domain.StageStatus]int{
	domain.StageAnalyzing:  20,
	domain.StageSearching:  40,
	domain.StageProcessing: 60,
	domain.StageVerifying:  60,
	domain.StageMatching:   80,
	domain.StageCompleted:  100,
}

// Update is one progress notification delivered to the consumer. Exactly one
// terminal update (completed result or Err set) ends every stream.
type Update struct {
	Status   domain.StageStatus
	Message  string
	Progress int
	Result   *domain.SearchOutcome
	Err      error
}

// Terminal reports whether this update ends the stream.
func (u Update) Terminal() bool {
	return u.Status == domain.StageCompleted || u.Err != nil
}

// Config holds controller configuration
type Config struct {
	// Endpoint is the full URL of the streaming search endpoint
	Endpoint string

	// Token is the bearer token to send, empty for anonymous searches
	Token string

	// Tier is the locally known viewer tier used for defensive redaction
	Tier domain.SubscriptionTier

	// Policy overrides the default access policy (tests only)
	Policy *policy.Engine

	// HTTPClient overrides the default HTTP client
	HTTPClient *http.Client

	// Watchdog overrides how long the controller waits for the next
	// event before abandoning the stream
	Watchdog time.Duration

	Logger *slog.Logger
}

// Controller consumes a staged search event stream and turns it into
// progress updates. At most one search is in flight at a time; starting a
// new one supersedes and cancels the previous stream.
//
// The server redacts results authoritatively. The controller still applies
// the same policy again with the tier it knows locally, so a misbehaving or
// stale server path can never leak gated fields to the rendering layer.
type Controller struct {
	endpoint string
	token    string
	tier     domain.SubscriptionTier
	policy   *policy.Engine
	client   *http.Client
	watchdog time.Duration
	logger   *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewController creates a search stream controller
func NewController(cfg Config) *Controller {
	if cfg.Policy == nil {
		cfg.Policy = policy.NewEngine(policy.DefaultConfig())
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}
	if cfg.Watchdog <= 0 {
		cfg.Watchdog = defaultWatchdog
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Tier == "" {
		cfg.Tier = domain.TierFree
	}
	return &Controller{
		endpoint: cfg.Endpoint,
		token:    cfg.Token,
		tier:     cfg.Tier,
		policy:   cfg.Policy,
		client:   cfg.HTTPClient,
		watchdog: cfg.Watchdog,
		logger:   cfg.Logger.With("component", "streamclient"),
	}
}

// Search starts a streaming search and returns a channel of updates. Any
// search still in flight is cancelled first and stops delivering updates.
// The returned channel is closed after one terminal update.
func (c *Controller) Search(ctx context.Context, query string) (<-chan Update, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.ErrInvalidInput
	}

	body, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, fmt.Errorf("encoding search request: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.cancel = cancel
	c.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		cancel()
		return nil, fmt.Errorf("building search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("connecting to search stream: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("search stream rejected with status %d", resp.StatusCode)
	}

	updates := make(chan Update, updateBuffer)
	go c.consume(ctx, cancel, resp, updates)
	return updates, nil
}

// Cancel abandons the in-flight search, if any.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// consume reads the event stream until a terminal event, the DONE sentinel,
// the watchdog firing, or cancellation.
func (c *Controller) consume(ctx context.Context, cancel context.CancelFunc, resp *http.Response, updates chan<- Update) {
	defer close(updates)
	defer resp.Body.Close()
	defer cancel()

	// The watchdog cancels the connection when the server goes quiet.
	// Receiving any event rearms it.
	watchdog := time.AfterFunc(c.watchdog, cancel)
	defer watchdog.Stop()

	terminal := false
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || !strings.HasPrefix(line, "data: ") {
			continue
		}
		payload := strings.TrimPrefix(line, "data: ")
		if payload == doneSentinel {
			break
		}

		var event domain.StageEvent
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			c.logger.Warn("skipping malformed stream frame", "err", err)
			continue
		}

		watchdog.Reset(c.watchdog)

		update := c.toUpdate(event)
		if !c.send(ctx, updates, update) {
			return
		}
		if update.Terminal() {
			terminal = true
			break
		}
	}

	if terminal {
		return
	}

	// The stream ended without a terminal event: the watchdog fired, the
	// connection dropped, or the caller cancelled. A superseded or
	// cancelled search stays silent; everything else surfaces an error.
	if ctx.Err() != nil && !watchdogFired(watchdog) {
		return
	}

	// The context is already cancelled here, so bypass send and deliver
	// the terminal error straight into the buffer.
	select {
	case updates <- Update{
		Status:  domain.StageError,
		Message: "Search was interrupted. Please try again.",
		Err:     ErrStreamInterrupted,
	}:
	default:
	}
}

// toUpdate converts a stage event, re-applying redaction to completed
// results with the locally known tier.
func (c *Controller) toUpdate(event domain.StageEvent) Update {
	update := Update{
		Status:   event.Status,
		Message:  event.Message,
		Progress: stageProgress[event.Status],
	}

	switch event.Status {
	case domain.StageError:
		update.Err = fmt.Errorf("search failed: %s", event.Message)
	case domain.StageCompleted:
		if event.Result != nil {
			result := *event.Result
			result.Resources = c.policy.Redact(result.Resources, c.tier)
			update.Result = &result
		}
	}
	return update
}

// send delivers an update unless the stream has been superseded. A send
// into a cancelled stream is dropped so stale events never reach the
// consumer.
func (c *Controller) send(ctx context.Context, updates chan<- Update, update Update) bool {
	if ctx.Err() != nil {
		return false
	}
	select {
	case updates <- update:
		return true
	case <-ctx.Done():
		return false
	}
}

// watchdogFired reports whether the watchdog already expired. Stop returns
// false once the timer has fired or been stopped, and the timer is only
// stopped on the consume exit path, so this is safe to call exactly once
// before that deferred Stop.
func watchdogFired(t *time.Timer) bool {
	return !t.Stop()
}

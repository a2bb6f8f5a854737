// Package runtime holds mutable service wiring shared across the process.
package runtime

import (
	"context"
	"sync"

	"github.com/pathwise-labs/pathwise-core/internal/core/policy"
	"github.com/pathwise-labs/pathwise-core/internal/core/ports/driven"
)

// Services holds references to dynamically configurable services.
// The query oracle can be configured or replaced at runtime, and the policy
// engine is rebuilt whenever an admin edits the plan table.
// Thread-safe for concurrent access.
type Services struct {
	mu sync.RWMutex

	// Dynamic oracle (can be nil, updated at runtime)
	oracle driven.QueryOracle

	// Current access policy, never nil
	policy *policy.Engine
}

// NewServices creates a new Services registry with the given policy engine.
func NewServices(engine *policy.Engine) *Services {
	if engine == nil {
		engine = policy.NewEngine(policy.DefaultConfig())
	}
	return &Services{policy: engine}
}

// Oracle returns the current query oracle (may be nil)
func (s *Services) Oracle() driven.QueryOracle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.oracle
}

// Policy returns the current access policy engine
func (s *Services) Policy() *policy.Engine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.policy
}

// SetOracle updates the query oracle.
// Closes the old oracle if present.
func (s *Services) SetOracle(oracle driven.QueryOracle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.oracle != nil {
		_ = s.oracle.Close()
	}
	s.oracle = oracle
}

// SetPolicy swaps in a rebuilt policy engine. Nil engines are ignored so a
// failed plan reload never leaves the process without access rules.
func (s *Services) SetPolicy(engine *policy.Engine) {
	if engine == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.policy = engine
}

// ValidateAndSetOracle validates connectivity before setting the oracle
func (s *Services) ValidateAndSetOracle(ctx context.Context, oracle driven.QueryOracle) error {
	if oracle == nil {
		s.SetOracle(nil)
		return nil
	}

	if err := oracle.Ping(ctx); err != nil {
		_ = oracle.Close()
		return err
	}

	s.SetOracle(oracle)
	return nil
}

// Close shuts down all services
func (s *Services) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.oracle != nil {
		_ = s.oracle.Close()
		s.oracle = nil
	}
	return nil
}

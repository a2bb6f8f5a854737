// Package scheduler wires up the cron jobs that keep the platform tidy:
// purging expired sessions and mailing the weekly resource digest.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/pathwise-labs/pathwise-core/internal/core/domain"
	"github.com/pathwise-labs/pathwise-core/internal/core/ports/driven"
)

const (
	defaultPurgeSpec = "@every 1h"

	// Monday mornings
	defaultDigestSpec = "0 9 * * 1"

	// Resources created within this window count as fresh for the digest
	digestWindow = 7 * 24 * time.Hour
)

// Config holds scheduler configuration
type Config struct {
	Sessions  driven.SessionStore
	Users     driven.UserStore
	Resources driven.ResourceStore
	Notifier  driven.Notifier
	Logger    *slog.Logger

	// PurgeSpec and DigestSpec override the cron specs (tests only)
	PurgeSpec  string
	DigestSpec string
}

// Scheduler wraps robfig/cron and manages the maintenance loop.
type Scheduler struct {
	cron       *cron.Cron
	sessions   driven.SessionStore
	users      driven.UserStore
	resources  driven.ResourceStore
	notifier   driven.Notifier
	logger     *slog.Logger
	purgeSpec  string
	digestSpec string
}

// New creates a Scheduler for the maintenance jobs.
func New(cfg Config) *Scheduler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.PurgeSpec == "" {
		cfg.PurgeSpec = defaultPurgeSpec
	}
	if cfg.DigestSpec == "" {
		cfg.DigestSpec = defaultDigestSpec
	}
	return &Scheduler{
		cron:       cron.New(cron.WithLogger(cron.DefaultLogger)),
		sessions:   cfg.Sessions,
		users:      cfg.Users,
		resources:  cfg.Resources,
		notifier:   cfg.Notifier,
		logger:     cfg.Logger.With("component", "scheduler"),
		purgeSpec:  cfg.PurgeSpec,
		digestSpec: cfg.DigestSpec,
	}
}

// Start registers the jobs and starts the scheduler. The session purge also
// runs once immediately so a long-stopped instance catches up without
// waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.purgeSpec, func() { s.runPurge(ctx) }); err != nil {
		return fmt.Errorf("registering session purge: %w", err)
	}
	if _, err := s.cron.AddFunc(s.digestSpec, func() { s.runDigest(ctx) }); err != nil {
		return fmt.Errorf("registering weekly digest: %w", err)
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "purge", s.purgeSpec, "digest", s.digestSpec)

	go s.runPurge(ctx)

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info("scheduler stopped")
}

// runPurge deletes expired sessions.
func (s *Scheduler) runPurge(ctx context.Context) {
	count, err := s.sessions.DeleteExpired(ctx)
	if err != nil {
		s.logger.Error("session purge failed", "err", err)
		return
	}
	if count > 0 {
		s.logger.Info("purged expired sessions", "count", count)
	}
}

// runDigest sends every active user a summary of the resources added since
// the last digest window. A quiet week sends nothing.
func (s *Scheduler) runDigest(ctx context.Context) {
	fresh, err := s.freshResources(ctx)
	if err != nil {
		s.logger.Error("digest resource load failed", "err", err)
		return
	}
	if len(fresh) == 0 {
		s.logger.Info("no fresh resources, skipping digest")
		return
	}

	users, err := s.users.List(ctx)
	if err != nil {
		s.logger.Error("digest user load failed", "err", err)
		return
	}

	sent := 0
	for _, user := range users {
		if !user.Active {
			continue
		}
		if err := s.notifier.WeeklyDigest(ctx, user, fresh); err != nil {
			s.logger.Warn("digest delivery failed", "user_id", user.ID, "err", err)
			continue
		}
		sent++
	}
	s.logger.Info("weekly digest complete", "resources", len(fresh), "sent", sent)
}

func (s *Scheduler) freshResources(ctx context.Context) ([]*domain.Resource, error) {
	all, err := s.resources.List(ctx, false)
	if err != nil {
		return nil, err
	}
	cutoff := time.Now().Add(-digestWindow)
	var fresh []*domain.Resource
	for _, r := range all {
		if r.CreatedAt.After(cutoff) {
			fresh = append(fresh, r)
		}
	}
	return fresh, nil
}

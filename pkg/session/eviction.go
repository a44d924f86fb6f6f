package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// EvictionConfig configures the idle-conversation sweeper.
type EvictionConfig struct {
	// Schedule is a cron expression controlling sweep frequency
	// (e.g., "*/10 * * * *" for every ten minutes). Empty disables
	// eviction entirely.
	Schedule string

	// MaxIdle is how long a conversation may go without a turn before it
	// is eligible for eviction.
	MaxIdle time.Duration
}

// Evictor prunes idle conversations from the store on a cron schedule.
// Conversations are otherwise never deleted, so a long-running process
// accumulates them without bound; the evictor is the TTL policy at the
// store boundary.
type Evictor struct {
	store   *Store
	config  EvictionConfig
	cron    *cron.Cron
	logger  *slog.Logger
	metrics Metrics

	mu      sync.Mutex
	running bool
}

// NewEvictor creates an evictor for the given store. The metrics sink may
// be nil.
func NewEvictor(store *Store, config EvictionConfig, metrics Metrics) *Evictor {
	return &Evictor{
		store:   store,
		config:  config,
		cron:    cron.New(),
		logger:  slog.Default().With("component", "session.evictor"),
		metrics: metrics,
	}
}

// Start begins scheduled sweeps. If no schedule is configured the evictor
// does nothing. The evictor stops when the context is cancelled or Stop is
// called.
func (e *Evictor) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.config.Schedule == "" {
		e.logger.Info("eviction schedule not configured, conversations are kept for the process lifetime")
		return nil
	}

	if e.config.MaxIdle <= 0 {
		return fmt.Errorf("eviction max idle must be positive, got %s", e.config.MaxIdle)
	}

	if _, err := cron.ParseStandard(e.config.Schedule); err != nil {
		return fmt.Errorf("invalid eviction schedule %q: %w", e.config.Schedule, err)
	}

	if _, err := e.cron.AddFunc(e.config.Schedule, e.sweep); err != nil {
		return fmt.Errorf("failed to schedule eviction: %w", err)
	}

	e.cron.Start()
	e.running = true

	e.logger.Info("eviction scheduler started",
		"schedule", e.config.Schedule,
		"max_idle", e.config.MaxIdle.String(),
	)

	go func() {
		<-ctx.Done()
		e.Stop()
	}()

	return nil
}

// sweep executes one eviction cycle.
func (e *Evictor) sweep() {
	pruned := e.store.PruneIdle(e.config.MaxIdle)

	if e.metrics != nil {
		if pruned > 0 {
			e.metrics.ConversationsEvicted(pruned)
		}
		e.metrics.SetActiveConversations(e.store.Len())
	}

	if pruned > 0 {
		e.logger.Info("idle conversations evicted",
			"evicted", pruned,
			"remaining", e.store.Len(),
		)
	} else {
		e.logger.Debug("eviction sweep completed, nothing to evict")
	}
}

// Stop stops the scheduler and waits for a running sweep to finish.
func (e *Evictor) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cron != nil && e.running {
		ctx := e.cron.Stop()
		<-ctx.Done() // Wait for running jobs to finish
		e.running = false
		e.logger.Info("eviction scheduler stopped")
	}
}

// IsRunning returns true if the scheduler is running.
func (e *Evictor) IsRunning() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// NextSweep returns the next scheduled sweep time, or nil when eviction is
// disabled.
func (e *Evictor) NextSweep() *time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()

	entries := e.cron.Entries()
	if len(entries) == 0 {
		return nil
	}

	next := entries[0].Next
	return &next
}

package session

import (
	"context"
	"testing"
	"time"
)

// fakeMetrics records observations for assertions.
type fakeMetrics struct {
	turns   int
	evicted int
	active  int
}

func (f *fakeMetrics) RecordTurn(status string, duration time.Duration) { f.turns++ }
func (f *fakeMetrics) RecordTokens(promptTokens, completionTokens int)  {}
func (f *fakeMetrics) ConversationCreated()                             {}
func (f *fakeMetrics) ConversationsEvicted(n int)                       { f.evicted += n }
func (f *fakeMetrics) SetActiveConversations(n int)                     { f.active = n }

func TestEvictor_DisabledWithoutSchedule(t *testing.T) {
	store := NewStore()
	evictor := NewEvictor(store, EvictionConfig{}, nil)

	if err := evictor.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if evictor.IsRunning() {
		t.Error("expected evictor to stay idle without a schedule")
	}
	if evictor.NextSweep() != nil {
		t.Error("expected no scheduled sweep")
	}
}

func TestEvictor_RejectsInvalidSchedule(t *testing.T) {
	store := NewStore()
	evictor := NewEvictor(store, EvictionConfig{
		Schedule: "not a cron expression",
		MaxIdle:  time.Hour,
	}, nil)

	if err := evictor.Start(context.Background()); err == nil {
		t.Error("expected an error for an invalid cron expression")
	}
}

func TestEvictor_RejectsNonPositiveMaxIdle(t *testing.T) {
	store := NewStore()
	evictor := NewEvictor(store, EvictionConfig{
		Schedule: "* * * * *",
	}, nil)

	if err := evictor.Start(context.Background()); err == nil {
		t.Error("expected an error for zero max idle")
	}
}

func TestEvictor_StartAndStop(t *testing.T) {
	store := NewStore()
	evictor := NewEvictor(store, EvictionConfig{
		Schedule: "* * * * *",
		MaxIdle:  time.Hour,
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := evictor.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !evictor.IsRunning() {
		t.Error("expected evictor to be running")
	}
	if evictor.NextSweep() == nil {
		t.Error("expected a scheduled sweep time")
	}

	evictor.Stop()
	if evictor.IsRunning() {
		t.Error("expected evictor to be stopped")
	}
}

func TestEvictor_SweepPrunesIdleConversations(t *testing.T) {
	store := NewStore()

	stale, err := store.Create("stale", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	stale.mu.Lock()
	stale.lastActive = time.Now().Add(-2 * time.Hour)
	stale.mu.Unlock()

	if _, err := store.Create("fresh", ""); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	metrics := &fakeMetrics{}
	evictor := NewEvictor(store, EvictionConfig{
		Schedule: "* * * * *",
		MaxIdle:  time.Hour,
	}, metrics)

	evictor.sweep()

	if store.Exists("stale") {
		t.Error("expected stale conversation to be evicted")
	}
	if !store.Exists("fresh") {
		t.Error("expected fresh conversation to survive")
	}
	if metrics.evicted != 1 {
		t.Errorf("expected 1 evicted conversation reported, got %d", metrics.evicted)
	}
	if metrics.active != 1 {
		t.Errorf("expected active gauge of 1, got %d", metrics.active)
	}
}

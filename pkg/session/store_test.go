package session

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestStore_CreateAndGet(t *testing.T) {
	store := NewStore()

	conv, err := store.Create("conv-1", "persona")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if conv.ID() != "conv-1" {
		t.Errorf("expected ID 'conv-1', got %q", conv.ID())
	}
	if conv.Persona() != "persona" {
		t.Errorf("expected persona 'persona', got %q", conv.Persona())
	}

	got, ok := store.Get("conv-1")
	if !ok {
		t.Fatal("expected conversation to be retrievable")
	}
	if got != conv {
		t.Error("Get returned a different conversation instance")
	}
}

func TestStore_GetUnknown(t *testing.T) {
	store := NewStore()

	if _, ok := store.Get("missing"); ok {
		t.Error("expected Get to report unknown identifier")
	}
	if store.Exists("missing") {
		t.Error("expected Exists to report unknown identifier")
	}
}

func TestStore_CreateDuplicate(t *testing.T) {
	store := NewStore()

	if _, err := store.Create("conv-1", ""); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	_, err := store.Create("conv-1", "")
	if err == nil {
		t.Fatal("expected duplicate error, got nil")
	}
	var dupErr *DuplicateIDError
	if !errors.As(err, &dupErr) {
		t.Fatalf("expected *DuplicateIDError, got %T", err)
	}
	if dupErr.ID != "conv-1" {
		t.Errorf("expected conflicting ID 'conv-1', got %q", dupErr.ID)
	}
}

func TestStore_CreateDefaultsPersona(t *testing.T) {
	store := NewStore()

	conv, err := store.Create("conv-1", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if conv.Persona() != DefaultPersona {
		t.Errorf("expected default persona, got %q", conv.Persona())
	}
}

func TestStore_CreateWithUniqueID_RetriesOnCollision(t *testing.T) {
	store := NewStore()

	// A generator that collides once before producing a fresh identifier.
	calls := 0
	gen := func(pseudo string) string {
		calls++
		if calls == 1 {
			return "taken-" + pseudo
		}
		return fmt.Sprintf("fresh-%d-%s", calls, pseudo)
	}

	if _, err := store.Create("taken-alice", ""); err != nil {
		t.Fatalf("seed Create failed: %v", err)
	}

	conv := store.CreateWithUniqueID(gen, "alice", "persona")
	if conv.ID() == "taken-alice" {
		t.Error("expected a regenerated identifier after collision")
	}
	if !store.Exists(conv.ID()) {
		t.Error("expected new conversation to be inserted")
	}
	if calls < 2 {
		t.Errorf("expected at least 2 generator calls, got %d", calls)
	}
}

func TestStore_CreateWithUniqueID_ConcurrentUniqueness(t *testing.T) {
	store := NewStore()

	const workers = 50
	ids := make(chan string, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			conv := store.CreateWithUniqueID(NewConversationID, "alice", "")
			ids <- conv.ID()
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate conversation identifier %q", id)
		}
		seen[id] = true
	}

	if store.Len() != workers {
		t.Errorf("expected %d conversations, got %d", workers, store.Len())
	}
}

func TestStore_PruneIdle(t *testing.T) {
	store := NewStore()

	stale, err := store.Create("stale", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Create("fresh", ""); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Age the stale conversation past the cutoff.
	stale.mu.Lock()
	stale.lastActive = time.Now().Add(-2 * time.Hour)
	stale.mu.Unlock()

	pruned := store.PruneIdle(time.Hour)
	if pruned != 1 {
		t.Errorf("expected 1 pruned conversation, got %d", pruned)
	}
	if store.Exists("stale") {
		t.Error("expected stale conversation to be removed")
	}
	if !store.Exists("fresh") {
		t.Error("expected fresh conversation to survive")
	}
}

func TestStore_PruneIdle_SkipsConversationWithTurnInFlight(t *testing.T) {
	store := NewStore()

	conv, err := store.Create("busy", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	conv.lastActive = time.Now().Add(-2 * time.Hour)

	// Simulate a turn in flight.
	conv.mu.Lock()
	pruned := store.PruneIdle(time.Hour)
	conv.mu.Unlock()

	if pruned != 0 {
		t.Errorf("expected busy conversation to be skipped, pruned %d", pruned)
	}
	if !store.Exists("busy") {
		t.Error("expected busy conversation to survive the sweep")
	}

	// A later sweep picks it up once the turn is done.
	if pruned := store.PruneIdle(time.Hour); pruned != 1 {
		t.Errorf("expected follow-up sweep to prune, got %d", pruned)
	}
}

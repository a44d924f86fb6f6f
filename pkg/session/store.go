package session

import (
	"sync"
	"time"
)

// Store is the process-wide in-memory mapping from conversation identifier
// to Conversation. Its lifecycle is the process lifetime; there is no
// durable persistence.
//
// The store's lock covers only map access. Turn-level mutation (persona
// overwrite, turn recording) is serialized by the per-conversation mutex,
// so the store lock is never held across a provider call.
type Store struct {
	mu            sync.RWMutex
	conversations map[string]*Conversation
}

// NewStore creates an empty conversation store.
func NewStore() *Store {
	return &Store{
		conversations: make(map[string]*Conversation),
	}
}

// Get returns the conversation for the given identifier, or false if the
// identifier is unknown.
func (s *Store) Get(id string) (*Conversation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conv, ok := s.conversations[id]
	return conv, ok
}

// Exists reports whether a conversation exists for the given identifier.
func (s *Store) Exists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.conversations[id]
	return ok
}

// Create inserts a new conversation under the given identifier.
// It fails with DuplicateIDError if the identifier is already present.
func (s *Store) Create(id, persona string) (*Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conversations[id]; ok {
		return nil, &DuplicateIDError{ID: id}
	}

	conv := newConversation(id, persona)
	s.conversations[id] = conv
	return conv, nil
}

// CreateWithUniqueID generates an identifier, verifies it is unused, and
// inserts the new conversation, all under a single lock acquisition. The
// generate/check/insert sequence being atomic closes the race where two
// concurrent requests both observe an identifier as absent and both insert.
func (s *Store) CreateWithUniqueID(gen IDGenerator, pseudo, persona string) *Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := gen(pseudo)
	for {
		if _, ok := s.conversations[id]; !ok {
			break
		}
		id = gen(pseudo)
	}

	conv := newConversation(id, persona)
	s.conversations[id] = conv
	return conv
}

// Len returns the number of live conversations.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conversations)
}

// PruneIdle removes conversations whose last activity is older than maxIdle
// and returns the number removed. Conversations with a turn in flight are
// skipped and picked up by a later sweep.
func (s *Store) PruneIdle(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	s.mu.Lock()
	defer s.mu.Unlock()

	pruned := 0
	for id, conv := range s.conversations {
		if !conv.mu.TryLock() {
			continue
		}
		idle := conv.lastActive.Before(cutoff)
		conv.mu.Unlock()

		if idle {
			delete(s.conversations, id)
			pruned++
		}
	}

	return pruned
}

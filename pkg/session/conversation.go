package session

import (
	"sync"
	"time"
)

// DefaultPersona is the compositor instruction applied when a conversation
// is created without an explicit persona.
const DefaultPersona = "You are a thoughtful compositor. Weave each reply " +
	"into the ongoing conversation: stay consistent with what has been said, " +
	"keep the established tone, and answer in a single short sentence."

// Turn is one prompt/response pair recorded in a conversation's history.
type Turn struct {
	// Prompt is the user prompt text as sent to the provider,
	// including the trailing response cue
	Prompt string

	// Response is the provider's generated text
	Response string
}

// Conversation represents one ongoing dialogue. Its identifier is assigned
// at creation and immutable; turns are append-only in chronological order;
// the persona instruction may be overwritten on any turn but an empty value
// never clears it.
//
// A Conversation carries its own mutex so that a turn in flight (context
// assembly through turn recording) excludes concurrent turns on the same
// conversation without blocking the store.
type Conversation struct {
	id        string
	persona   string
	turns     []Turn
	createdAt time.Time

	// lastActive is updated on every resolved turn and drives eviction
	lastActive time.Time

	mu sync.Mutex
}

// newConversation constructs a conversation with the given identifier and
// persona. An empty persona falls back to DefaultPersona exactly once, here.
func newConversation(id, persona string) *Conversation {
	if persona == "" {
		persona = DefaultPersona
	}
	now := time.Now()
	return &Conversation{
		id:         id,
		persona:    persona,
		createdAt:  now,
		lastActive: now,
	}
}

// ID returns the conversation's immutable identifier.
func (c *Conversation) ID() string {
	return c.id
}

// Persona returns the current persona instruction.
// Callers that hold the turn lock may read persona directly; this accessor
// takes the lock for use outside a turn.
func (c *Conversation) Persona() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.persona
}

// Turns returns a copy of the recorded turns in chronological order.
func (c *Conversation) Turns() []Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	turns := make([]Turn, len(c.turns))
	copy(turns, c.turns)
	return turns
}

// Len returns the number of recorded turns.
func (c *Conversation) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.turns)
}

// CreatedAt returns the conversation's creation time.
func (c *Conversation) CreatedAt() time.Time {
	return c.createdAt
}

// LastActive returns the time of the most recent resolved turn.
func (c *Conversation) LastActive() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastActive
}

// setPersona overwrites the persona instruction. Empty values are ignored
// so a defaulted persona is never cleared. Caller must hold c.mu.
func (c *Conversation) setPersona(persona string) {
	if persona == "" {
		return
	}
	c.persona = persona
}

// recordTurn appends a completed prompt/response pair. Caller must hold c.mu.
func (c *Conversation) recordTurn(prompt, response string) {
	c.turns = append(c.turns, Turn{Prompt: prompt, Response: response})
	c.lastActive = time.Now()
}

// touch marks the conversation active. Caller must hold c.mu.
func (c *Conversation) touch() {
	c.lastActive = time.Now()
}

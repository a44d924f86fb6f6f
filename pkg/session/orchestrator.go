package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"parley-hq/parley/pkg/providers"
)

// Provider-call policy: the output is capped at a fixed number of tokens
// and generation stops at the first newline.
const (
	maxOutputTokens = 20
	stopMarker      = "\n"
)

// CompletionClient is the slice of the provider interface the orchestrator
// needs. The full providers.Provider satisfies it.
type CompletionClient interface {
	SendCompletion(ctx context.Context, req *providers.CompletionRequest) (*providers.CompletionResponse, error)
}

// Metrics receives turn-level observations from the orchestrator.
// Implementations must be safe for concurrent use. A nil Metrics disables
// recording.
type Metrics interface {
	// RecordTurn records a completed or failed turn with its provider latency.
	RecordTurn(status string, duration time.Duration)

	// RecordTokens records prompt and completion token counts.
	RecordTokens(promptTokens, completionTokens int)

	// ConversationCreated records a new conversation.
	ConversationCreated()

	// ConversationsEvicted records conversations removed by an eviction sweep.
	ConversationsEvicted(n int)

	// SetActiveConversations reports the current number of live conversations.
	SetActiveConversations(n int)
}

// Turn status labels reported to Metrics.
const (
	TurnStatusSuccess = "success"
	TurnStatusError   = "error"
)

// Orchestrator composes the validator, store, assembler, and provider
// client into the end-to-end turn-handling flow:
//
//	Validate -> ResolveConversation -> AssembleContext -> InvokeProvider ->
//	RecordTurn -> Respond
//
// Any step's failure short-circuits the flow. The orchestrator holds no
// per-request state beyond what it reads from the store.
type Orchestrator struct {
	store  *Store
	client CompletionClient
	model  string
	idGen  IDGenerator

	// defaultPersona seeds conversations created without an explicit
	// persona; hot-reloadable via SetDefaultPersona
	personaMu      sync.RWMutex
	defaultPersona string

	metrics Metrics
}

// TurnResult is the successful outcome of a handled turn.
type TurnResult struct {
	// Response is the provider-generated text
	Response string `json:"response"`

	// ConversationID identifies the conversation the turn was recorded in
	ConversationID string `json:"conversationId"`
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithIDGenerator overrides the conversation identifier generator.
func WithIDGenerator(gen IDGenerator) Option {
	return func(o *Orchestrator) {
		o.idGen = gen
	}
}

// WithDefaultPersona overrides the persona used to seed conversations
// created without an explicit aiPersonality.
func WithDefaultPersona(persona string) Option {
	return func(o *Orchestrator) {
		o.defaultPersona = persona
	}
}

// WithMetrics attaches a metrics sink.
func WithMetrics(m Metrics) Option {
	return func(o *Orchestrator) {
		o.metrics = m
	}
}

// NewOrchestrator creates a session orchestrator backed by the given store
// and completion client. The model identifier is fixed for all completions.
func NewOrchestrator(store *Store, client CompletionClient, model string, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		store:          store,
		client:         client,
		model:          model,
		idGen:          NewConversationID,
		defaultPersona: DefaultPersona,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Store returns the orchestrator's conversation store.
func (o *Orchestrator) Store() *Store {
	return o.store
}

// DefaultPersona returns the persona used to seed new conversations.
func (o *Orchestrator) DefaultPersona() string {
	o.personaMu.RLock()
	defer o.personaMu.RUnlock()
	return o.defaultPersona
}

// SetDefaultPersona replaces the seed persona for future conversations.
// Existing conversations keep the persona they were created with.
func (o *Orchestrator) SetDefaultPersona(persona string) {
	if persona == "" {
		persona = DefaultPersona
	}
	o.personaMu.Lock()
	o.defaultPersona = persona
	o.personaMu.Unlock()
}

// HandleTurn processes one turn request end to end. On success the turn is
// recorded in the conversation's history and the generated text is
// returned together with the conversation identifier. On failure nothing
// is recorded and the typed error describes the failing step.
func (o *Orchestrator) HandleTurn(ctx context.Context, raw map[string]any) (*TurnResult, error) {
	req, err := ParseRequest(raw)
	if err != nil {
		return nil, err
	}

	conv, created, err := o.resolveConversation(req)
	if err != nil {
		return nil, err
	}

	// The per-conversation lock is held from here through turn recording
	// so a concurrent second request for the same conversation cannot
	// interleave turns or observe a half-recorded exchange. The store
	// itself stays unlocked, keeping other conversations usable while the
	// provider call is in flight.
	conv.mu.Lock()
	defer conv.mu.Unlock()

	if !created {
		conv.setPersona(req.Persona)
		conv.touch()
	}

	messages := assembleContext(conv, req.PromptText, req.Pseudo)

	completionReq := &providers.CompletionRequest{
		Model:            o.model,
		Messages:         messages,
		MaxTokens:        maxOutputTokens,
		TopP:             req.Randomness,
		FrequencyPenalty: req.Richness,
		Stop:             []string{stopMarker},
	}

	start := time.Now()
	resp, err := o.client.SendCompletion(ctx, completionReq)
	duration := time.Since(start)

	if err != nil {
		o.recordTurnMetric(TurnStatusError, duration)
		slog.ErrorContext(ctx, "provider call failed",
			"conversation_id", conv.ID(),
			"model", o.model,
			"error", err,
			"provider_latency_ms", duration.Milliseconds(),
		)
		return nil, err
	}

	conv.recordTurn(req.PromptText, resp.Content)

	o.recordTurnMetric(TurnStatusSuccess, duration)
	if o.metrics != nil {
		o.metrics.RecordTokens(resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
		o.metrics.SetActiveConversations(o.store.Len())
	}

	slog.InfoContext(ctx, "turn completed",
		"conversation_id", conv.ID(),
		"new_conversation", created,
		"turns", len(conv.turns),
		"finish_reason", resp.FinishReason,
		"provider_latency_ms", duration.Milliseconds(),
	)

	return &TurnResult{
		Response:       resp.Content,
		ConversationID: conv.ID(),
	}, nil
}

// resolveConversation finds or creates the conversation for a validated
// request. A new conversation is created when the caller asks for one or
// supplies no identifier. An unknown identifier without an explicit
// new-conversation request is an error, never a silent create.
func (o *Orchestrator) resolveConversation(req *TurnRequest) (conv *Conversation, created bool, err error) {
	if req.NewConversation || req.ConversationID == "" {
		persona := req.Persona
		if persona == "" {
			persona = o.DefaultPersona()
		}
		conv = o.store.CreateWithUniqueID(o.idGen, req.Pseudo, persona)

		if o.metrics != nil {
			o.metrics.ConversationCreated()
			o.metrics.SetActiveConversations(o.store.Len())
		}
		slog.Debug("conversation created",
			"conversation_id", conv.ID(),
			"pseudo", req.Pseudo,
		)
		return conv, true, nil
	}

	conv, ok := o.store.Get(req.ConversationID)
	if !ok {
		return nil, false, &ConversationNotFoundError{ID: req.ConversationID}
	}
	return conv, false, nil
}

// recordTurnMetric is nil-safe turn recording.
func (o *Orchestrator) recordTurnMetric(status string, duration time.Duration) {
	if o.metrics != nil {
		o.metrics.RecordTurn(status, duration)
	}
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"parley-hq/parley/pkg/config"
)

// SessionMetrics tracks metrics for turn processing and the conversation
// store. It implements session.Metrics.
//
// Metrics:
//   - parley_session_turns_total: turn count by status
//   - parley_session_provider_request_duration_seconds: provider latency histogram
//   - parley_session_tokens_total: tokens processed by type
//   - parley_session_conversations_created_total: conversations created
//   - parley_session_conversations_active: live conversations gauge
type SessionMetrics struct {
	// Turn count by status (success, error)
	turnsTotal *prometheus.CounterVec

	// Provider request duration histogram
	providerDuration prometheus.Histogram

	// Token counts (prompt and completion)
	tokensTotal *prometheus.CounterVec

	// Conversations created since process start
	conversationsCreated prometheus.Counter

	// Conversations removed by eviction sweeps
	conversationsEvicted prometheus.Counter

	// Live conversations in the store
	conversationsActive prometheus.Gauge
}

// NewSessionMetrics creates and registers session metrics with the provided
// registry.
func NewSessionMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *SessionMetrics {
	sm := &SessionMetrics{
		turnsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "turns_total",
				Help:      "Total number of conversation turns processed",
			},
			[]string{"status"},
		),

		providerDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "provider_request_duration_seconds",
				Help:      "Duration of completion provider requests in seconds",
				Buckets:   cfg.RequestDurationBuckets,
			},
		),

		tokensTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "tokens_total",
				Help:      "Total number of tokens processed",
			},
			[]string{"type"},
		),

		conversationsCreated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "conversations_created_total",
				Help:      "Total number of conversations created",
			},
		),

		conversationsEvicted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "conversations_evicted_total",
				Help:      "Total number of conversations removed by eviction sweeps",
			},
		),

		conversationsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "conversations_active",
				Help:      "Number of live conversations in the store",
			},
		),
	}

	registry.MustRegister(
		sm.turnsTotal,
		sm.providerDuration,
		sm.tokensTotal,
		sm.conversationsCreated,
		sm.conversationsEvicted,
		sm.conversationsActive,
	)

	return sm
}

// RecordTurn records a completed or failed turn with its provider latency.
func (sm *SessionMetrics) RecordTurn(status string, duration time.Duration) {
	sm.turnsTotal.WithLabelValues(status).Inc()
	sm.providerDuration.Observe(duration.Seconds())
}

// RecordTokens records token counts for prompt and completion.
func (sm *SessionMetrics) RecordTokens(promptTokens, completionTokens int) {
	if promptTokens > 0 {
		sm.tokensTotal.WithLabelValues("prompt").Add(float64(promptTokens))
	}
	if completionTokens > 0 {
		sm.tokensTotal.WithLabelValues("completion").Add(float64(completionTokens))
	}
}

// ConversationCreated records a new conversation.
func (sm *SessionMetrics) ConversationCreated() {
	sm.conversationsCreated.Inc()
}

// ConversationsEvicted records conversations removed by an eviction sweep.
func (sm *SessionMetrics) ConversationsEvicted(n int) {
	sm.conversationsEvicted.Add(float64(n))
}

// SetActiveConversations reports the current number of live conversations.
func (sm *SessionMetrics) SetActiveConversations(n int) {
	sm.conversationsActive.Set(float64(n))
}

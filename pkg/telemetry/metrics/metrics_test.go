package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"parley-hq/parley/pkg/config"
)

func newTestMetrics(t *testing.T) (*SessionMetrics, *prometheus.Registry) {
	t.Helper()

	registry := prometheus.NewRegistry()
	cfg := &config.MetricsConfig{
		Enabled:                true,
		Namespace:              "parley",
		Subsystem:              "session",
		RequestDurationBuckets: []float64{0.1, 1, 10},
	}
	return NewSessionMetrics(cfg, registry), registry
}

func TestSessionMetrics_RecordTurn(t *testing.T) {
	sm, _ := newTestMetrics(t)

	sm.RecordTurn("success", 50*time.Millisecond)
	sm.RecordTurn("success", 70*time.Millisecond)
	sm.RecordTurn("error", time.Second)

	if got := testutil.ToFloat64(sm.turnsTotal.WithLabelValues("success")); got != 2 {
		t.Errorf("expected 2 successful turns, got %v", got)
	}
	if got := testutil.ToFloat64(sm.turnsTotal.WithLabelValues("error")); got != 1 {
		t.Errorf("expected 1 failed turn, got %v", got)
	}
}

func TestSessionMetrics_RecordTokens(t *testing.T) {
	sm, _ := newTestMetrics(t)

	sm.RecordTokens(10, 5)
	sm.RecordTokens(20, 0)

	if got := testutil.ToFloat64(sm.tokensTotal.WithLabelValues("prompt")); got != 30 {
		t.Errorf("expected 30 prompt tokens, got %v", got)
	}
	if got := testutil.ToFloat64(sm.tokensTotal.WithLabelValues("completion")); got != 5 {
		t.Errorf("expected 5 completion tokens, got %v", got)
	}
}

func TestSessionMetrics_ConversationLifecycle(t *testing.T) {
	sm, _ := newTestMetrics(t)

	sm.ConversationCreated()
	sm.ConversationCreated()
	sm.ConversationsEvicted(3)
	sm.SetActiveConversations(7)

	if got := testutil.ToFloat64(sm.conversationsCreated); got != 2 {
		t.Errorf("expected 2 created conversations, got %v", got)
	}
	if got := testutil.ToFloat64(sm.conversationsEvicted); got != 3 {
		t.Errorf("expected 3 evicted conversations, got %v", got)
	}
	if got := testutil.ToFloat64(sm.conversationsActive); got != 7 {
		t.Errorf("expected 7 active conversations, got %v", got)
	}
}

func TestHandler_ExposesMetrics(t *testing.T) {
	sm, registry := newTestMetrics(t)
	sm.RecordTurn("success", 100*time.Millisecond)

	handler := Handler(registry)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "parley_session_turns_total") {
		t.Error("expected turn counter in metrics exposition")
	}
}

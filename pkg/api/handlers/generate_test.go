package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"parley-hq/parley/pkg/session"
)

// fakeService is a scriptable TurnService.
type fakeService struct {
	result *session.TurnResult
	err    error
	calls  int
}

func (f *fakeService) HandleTurn(ctx context.Context, raw map[string]any) (*session.TurnResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func TestGenerateHandler_Success(t *testing.T) {
	service := &fakeService{
		result: &session.TurnResult{
			Response:       "Hello!",
			ConversationID: "conv-1",
		},
	}
	handler := NewGenerateHandler(service, nil)

	req := httptest.NewRequest(http.MethodPost, "/generate",
		strings.NewReader(`{"pseudo":"alice","prompt":"Hi"}`))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body GenerateResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Response != "Hello!" {
		t.Errorf("expected response 'Hello!', got %q", body.Response)
	}
	if body.ConversationID != "conv-1" {
		t.Errorf("expected conversation ID 'conv-1', got %q", body.ConversationID)
	}
}

func TestGenerateHandler_MethodNotAllowed(t *testing.T) {
	service := &fakeService{}
	handler := NewGenerateHandler(service, nil)

	req := httptest.NewRequest(http.MethodGet, "/generate", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
	if service.calls != 0 {
		t.Errorf("service must not be invoked, got %d calls", service.calls)
	}
}

func TestGenerateHandler_InvalidJSON(t *testing.T) {
	service := &fakeService{}
	handler := NewGenerateHandler(service, nil)

	req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	if service.calls != 0 {
		t.Errorf("service must not be invoked, got %d calls", service.calls)
	}
}

func TestGenerateHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantDetail bool
	}{
		{
			name: "validation error",
			err: &session.ValidationError{
				Field:   "pseudo",
				Reason:  session.ReasonMissingField,
				Message: "pseudo is required",
			},
			wantStatus: http.StatusBadRequest,
			wantDetail: true,
		},
		{
			name:       "unknown conversation",
			err:        &session.ConversationNotFoundError{ID: "conv-x"},
			wantStatus: http.StatusNotFound,
			wantDetail: true,
		},
		{
			name:       "provider failure",
			err:        errors.New("provider exploded: secret detail"),
			wantStatus: http.StatusInternalServerError,
			wantDetail: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewGenerateHandler(&fakeService{err: tt.err}, nil)

			req := httptest.NewRequest(http.MethodPost, "/generate",
				strings.NewReader(`{"pseudo":"alice"}`))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}

			var body ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode error response: %v", err)
			}

			if tt.wantDetail {
				if body.Message == "" || body.Message == "Internal server error" {
					t.Errorf("expected a descriptive message, got %q", body.Message)
				}
			} else {
				if body.Message != "Internal server error" {
					t.Errorf("internal detail must not leak, got %q", body.Message)
				}
				if strings.Contains(body.Message, "secret") {
					t.Errorf("error detail leaked to client: %q", body.Message)
				}
			}
		})
	}
}

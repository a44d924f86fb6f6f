package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"parley-hq/parley/pkg/api/middleware"
	"parley-hq/parley/pkg/session"
)

// TurnService handles one conversation turn end to end. Implemented by
// session.Orchestrator.
type TurnService interface {
	HandleTurn(ctx context.Context, raw map[string]any) (*session.TurnResult, error)
}

// GenerateHandler serves POST /generate, the single turn-taking endpoint.
type GenerateHandler struct {
	service TurnService
	logger  *slog.Logger
}

// NewGenerateHandler creates the turn-taking handler.
func NewGenerateHandler(service TurnService, logger *slog.Logger) *GenerateHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GenerateHandler{
		service: service,
		logger:  logger,
	}
}

// ServeHTTP decodes the request body, delegates to the turn service, and
// maps typed errors to status codes:
//
//	validation failure        -> 400
//	unknown conversation ID   -> 404
//	anything else             -> 500, with the detail logged not returned
func (h *GenerateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	result, err := h.service.HandleTurn(r.Context(), raw)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, &GenerateResponse{
		Response:       result.Response,
		ConversationID: result.ConversationID,
	})
}

// writeServiceError maps a turn-service error to an HTTP response.
func (h *GenerateHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *session.ValidationError
	if errors.As(err, &validationErr) {
		writeError(w, http.StatusBadRequest, validationErr.Message)
		return
	}

	var notFoundErr *session.ConversationNotFoundError
	if errors.As(err, &notFoundErr) {
		writeError(w, http.StatusNotFound, notFoundErr.Error())
		return
	}

	h.logger.LogAttrs(r.Context(), slog.LevelError, "turn handling failed",
		slog.String("request_id", middleware.GetRequestID(r.Context())),
		slog.Any("error", err),
	)
	writeError(w, http.StatusInternalServerError, "Internal server error")
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, &ErrorResponse{Message: message})
}

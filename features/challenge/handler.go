package challenge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"docent/internal/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// maxQuestionCount bounds a caller-supplied batch size.
const maxQuestionCount = 10

// Start generates a fresh question batch. The body may carry an optional
// count; an empty body uses the configured default. Any previously issued
// batch is simply abandoned by the client; no server-side quiz state exists.
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		h.writeError(r.Context(), w, "VALIDATION_ERROR", err.Error(), http.StatusBadRequest)
		return
	}
	if req.Count < 0 || req.Count > maxQuestionCount {
		h.writeError(r.Context(), w, "VALIDATION_ERROR", fmt.Sprintf("count must be between 1 and %d", maxQuestionCount), http.StatusBadRequest)
		return
	}

	questions, err := h.service.Generate(r.Context(), req.Count)
	if err != nil {
		if errors.Is(err, ErrNoContext) {
			h.writeError(r.Context(), w, "NO_CONTENT", "No documents have been ingested yet", http.StatusUnprocessableEntity)
			return
		}
		slog.Error("challenge generation failed", "error", err)
		h.writeError(r.Context(), w, "INTERNAL_ERROR", "Failed to generate challenge questions", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]interface{}{"questions": questions}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question   string `json:"question"`
		UserAnswer string `json:"user_answer"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(r.Context(), w, "VALIDATION_ERROR", err.Error(), http.StatusBadRequest)
		return
	}
	if req.Question == "" {
		h.writeError(r.Context(), w, "VALIDATION_ERROR", "Question is required", http.StatusBadRequest)
		return
	}

	result := h.service.Grade(r.Context(), req.Question, req.UserAnswer)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, code, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
		"correlationId": middleware.GetCorrelationID(ctx),
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

package stats

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"docent/internal/middleware"
)

type IngestionRepo interface {
	Count(ctx context.Context) (int, error)
}

type VectorStore interface {
	Count(ctx context.Context, namespace string) (int, error)
}

type Handler struct {
	ingestionRepo IngestionRepo
	vectorStore   VectorStore
	namespace     string
}

func NewHandler(repo IngestionRepo, store VectorStore, namespace string) *Handler {
	return &Handler{ingestionRepo: repo, vectorStore: store, namespace: namespace}
}

type StatsResponse struct {
	Ingestions    int `json:"ingestions"`
	IndexedChunks int `json:"indexed_chunks"`
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	correlationID := middleware.GetCorrelationID(ctx)

	slog.InfoContext(ctx, "getting stats", "correlationId", correlationID)

	iCount, err := h.ingestionRepo.Count(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to count ingestions", "error", err, "correlationId", correlationID)
		h.writeError(ctx, w, "INTERNAL_ERROR", "failed to count ingestions", http.StatusInternalServerError)
		return
	}

	cCount, err := h.vectorStore.Count(ctx, h.namespace)
	if err != nil {
		slog.ErrorContext(ctx, "failed to count indexed chunks", "error", err, "correlationId", correlationID)
		h.writeError(ctx, w, "INTERNAL_ERROR", "failed to count indexed chunks", http.StatusInternalServerError)
		return
	}

	resp := StatsResponse{
		Ingestions:    iCount,
		IndexedChunks: cCount,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]interface{}{"data": resp}); err != nil {
		slog.ErrorContext(ctx, "failed to encode response", "error", err)
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

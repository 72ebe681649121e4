package ingest

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"

	"docent/internal/middleware"
)

type Handler struct {
	service       *Service
	maxUploadSize int64
}

func NewHandler(service *Service, maxUploadSizeMB int) *Handler {
	return &Handler{
		service:       service,
		maxUploadSize: int64(maxUploadSizeMB) << 20,
	}
}

// Upload accepts multipart form data under the "files" field and runs the
// ingestion pipeline on all of them as one batch.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		h.writeError(r.Context(), w, "BAD_REQUEST", "File too large or malformed form", http.StatusBadRequest)
		return
	}

	if r.MultipartForm == nil || len(r.MultipartForm.File["files"]) == 0 {
		h.writeError(r.Context(), w, "VALIDATION_ERROR", "At least one file is required", http.StatusBadRequest)
		return
	}

	validExts := map[string]bool{
		".pdf": true, ".docx": true, ".md": true, ".txt": true,
	}

	var files []File
	for _, header := range r.MultipartForm.File["files"] {
		if !validExts[filepath.Ext(header.Filename)] {
			h.writeError(r.Context(), w, "BAD_REQUEST", "Unsupported file type: "+filepath.Base(header.Filename), http.StatusBadRequest)
			return
		}

		f, err := header.Open()
		if err != nil {
			h.writeError(r.Context(), w, "BAD_REQUEST", "Unable to read file: "+filepath.Base(header.Filename), http.StatusBadRequest)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			h.writeError(r.Context(), w, "INTERNAL_ERROR", "Failed to read uploaded file", http.StatusInternalServerError)
			return
		}

		files = append(files, File{Name: filepath.Base(header.Filename), Data: data})
	}

	result := h.service.Ingest(r.Context(), files)

	w.Header().Set("Content-Type", "application/json")
	if !result.Success {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}
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

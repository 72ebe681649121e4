// Package ingest implements the ingestion entry point: uploaded files are
// loaded, chunked, embedded and written to the vector index in one
// synchronous pipeline per batch.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"docent/internal/docload"
	"docent/internal/text"
	"docent/internal/vector"
)

const summaryPrompt = `You are a helpful assistant. Summarize the following document in no more than 150 words. Only use the provided content. Do not add any information or make up facts.
Document:
%s
Summary (<= 150 words):`

// Result reports one ingestion batch. All counters are always present;
// Message names the failed stage when Success is false.
type Result struct {
	Success            bool     `json:"success"`
	Message            string   `json:"message"`
	DocumentsProcessed int      `json:"documents_processed"`
	ChunksCreated      int      `json:"chunks_created"`
	VectorsStored      int      `json:"vectors_stored"`
	EmbeddingsFailed   int      `json:"embeddings_failed"`
	FilesProcessed     []string `json:"files_processed,omitempty"`
	Summary            string   `json:"summary,omitempty"`
}

// File is one uploaded file, still raw bytes.
type File struct {
	Name string
	Data []byte
}

// Record is the durable trace of one ingestion batch.
type Record struct {
	ID                 string    `json:"id"`
	Success            bool      `json:"success"`
	Message            string    `json:"message"`
	DocumentsProcessed int       `json:"documents_processed"`
	ChunksCreated      int       `json:"chunks_created"`
	VectorsStored      int       `json:"vectors_stored"`
	Files              []string  `json:"files"`
	CreatedAt          time.Time `json:"created_at"`
}

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type VectorStore interface {
	Upsert(ctx context.Context, items []vector.Item, namespace string) (int, error)
}

type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Repository interface {
	Save(ctx context.Context, rec *Record) error
	Count(ctx context.Context) (int, error)
}

type Config struct {
	Namespace    string
	ChunkSize    int
	ChunkOverlap int
	Concurrency  int
}

type Service struct {
	repo     Repository
	embedder Embedder
	store    VectorStore
	gen      Generator
	cfg      Config

	// load is docload.Load in production; tests substitute it.
	load func(filename string, data []byte) (docload.Document, error)
}

func NewService(repo Repository, e Embedder, s VectorStore, g Generator, cfg Config) *Service {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return &Service{
		repo:     repo,
		embedder: e,
		store:    s,
		gen:      g,
		cfg:      cfg,
		load:     docload.Load,
	}
}

// Ingest runs the full pipeline for one upload batch. Per-file and per-chunk
// failures are excluded and counted; only an empty stage output is a terminal
// failure, reported with a stage-specific message.
func (s *Service) Ingest(ctx context.Context, files []File) Result {
	batchID := uuid.New().String()

	// Stage 1: load documents.
	var (
		documents []docload.Document
		loaded    []string
	)
	for _, f := range files {
		doc, err := s.load(f.Name, f.Data)
		if err != nil {
			slog.WarnContext(ctx, "skipping file", "file", f.Name, "error", err)
			continue
		}
		documents = append(documents, doc)
		loaded = append(loaded, f.Name)
	}
	if len(documents) == 0 {
		return s.finish(ctx, batchID, Result{
			Message: "No valid documents found in uploaded files",
		})
	}

	// Stage 2: split into chunks.
	var chunks []text.Chunk
	for _, doc := range documents {
		docChunks := text.SplitDocument(doc.SourceID, doc.Text, s.cfg.ChunkSize, s.cfg.ChunkOverlap)
		if len(docChunks) == 0 {
			slog.WarnContext(ctx, "document produced no chunks", "source_id", doc.SourceID)
			continue
		}
		chunks = append(chunks, docChunks...)
	}
	if len(chunks) == 0 {
		return s.finish(ctx, batchID, Result{
			Message:            "Failed to create chunks from documents",
			DocumentsProcessed: len(documents),
			FilesProcessed:     loaded,
		})
	}

	// Stage 3: embed chunks in parallel. A failed chunk is dropped and
	// counted; it never aborts the batch.
	items := make([]vector.Item, len(chunks))
	var failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for i, chunk := range chunks {
		g.Go(func() error {
			vec, err := s.embedder.Embed(gctx, chunk.Text)
			if err != nil {
				slog.WarnContext(ctx, "embedding failed, excluding chunk",
					"source_id", chunk.SourceID, "chunk", i, "error", err)
				failed.Add(1)
				return nil
			}
			items[i] = vector.Item{
				ID:       fmt.Sprintf("%s/doc_%d", batchID, i),
				Vector:   vec,
				Text:     chunk.Text,
				SourceID: chunk.SourceID,
			}
			return nil
		})
	}
	_ = g.Wait()

	embedded := items[:0:0]
	for _, item := range items {
		if item.ID != "" {
			embedded = append(embedded, item)
		}
	}
	if len(embedded) == 0 {
		return s.finish(ctx, batchID, Result{
			Message:            "Failed to create embeddings from chunks",
			DocumentsProcessed: len(documents),
			ChunksCreated:      len(chunks),
			EmbeddingsFailed:   int(failed.Load()),
			FilesProcessed:     loaded,
		})
	}

	// Stage 4: single upsert once the whole batch has settled.
	stored, err := s.store.Upsert(ctx, embedded, s.cfg.Namespace)
	if err != nil {
		slog.ErrorContext(ctx, "vector store upsert failed", "error", err)
		return s.finish(ctx, batchID, Result{
			Message:            "Failed to store vectors in vector database",
			DocumentsProcessed: len(documents),
			ChunksCreated:      len(chunks),
			EmbeddingsFailed:   int(failed.Load()),
			FilesProcessed:     loaded,
		})
	}

	res := Result{
		Success:            true,
		Message:            "Documents successfully processed and stored in vector database",
		DocumentsProcessed: len(documents),
		ChunksCreated:      len(chunks),
		VectorsStored:      stored,
		EmbeddingsFailed:   int(failed.Load()),
		FilesProcessed:     loaded,
		Summary:            s.summarize(ctx, chunks),
	}
	return s.finish(ctx, batchID, res)
}

// summarize produces the post-upload document summary from the leading
// chunks. Summary failure never fails the batch.
func (s *Service) summarize(ctx context.Context, chunks []text.Chunk) string {
	if s.gen == nil {
		return ""
	}

	const maxSummaryChunks = 8
	n := len(chunks)
	if n > maxSummaryChunks {
		n = maxSummaryChunks
	}
	parts := make([]string, 0, n)
	for _, c := range chunks[:n] {
		parts = append(parts, c.Text)
	}

	summary, err := s.gen.Generate(ctx, fmt.Sprintf(summaryPrompt, strings.Join(parts, "\n")))
	if err != nil {
		slog.WarnContext(ctx, "summary generation failed", "error", err)
		return ""
	}
	return summary
}

// finish persists the batch record and returns the result. Record storage is
// bookkeeping; its failure is logged, not surfaced.
func (s *Service) finish(ctx context.Context, batchID string, res Result) Result {
	if s.repo != nil {
		rec := &Record{
			ID:                 batchID,
			Success:            res.Success,
			Message:            res.Message,
			DocumentsProcessed: res.DocumentsProcessed,
			ChunksCreated:      res.ChunksCreated,
			VectorsStored:      res.VectorsStored,
			Files:              res.FilesProcessed,
		}
		if err := s.repo.Save(ctx, rec); err != nil {
			slog.WarnContext(ctx, "failed to save ingestion record", "error", err, "batch_id", batchID)
		}
	}
	return res
}

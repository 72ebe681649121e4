// Package app wires features to their dependencies and owns the HTTP surface.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"docent/features/challenge"
	"docent/features/ingest"
	"docent/features/qa"
	"docent/features/stats"
	"docent/internal/config"
	"docent/internal/middleware"
	"docent/internal/retrieval"
	"docent/internal/vector"
)

// Database is satisfied by *sql.DB; the interface keeps New testable with
// sqlmock.
type Database interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type VectorStore interface {
	Upsert(ctx context.Context, items []vector.Item, namespace string) (int, error)
	Query(ctx context.Context, vec []float32, topK int, namespace string) ([]vector.Match, error)
	Count(ctx context.Context, namespace string) (int, error)
}

// AI is the combined generation and embedding capability. A single instance
// serves both the indexing and query paths so the embedding model can never
// diverge between them.
type AI interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Generate(ctx context.Context, prompt string) (string, error)
}

type App struct {
	Handler http.Handler
	cfg     *config.Config
}

func New(cfg *config.Config, db Database, vecStore VectorStore, ai AI) (*App, error) {
	// Cast db to *sql.DB for repositories that require it. The interface in
	// the signature keeps construction mockable with sqlmock.
	sqlDB := db.(*sql.DB)

	// Feature: Ingest
	ingestRepo := ingest.NewPostgresRepo(sqlDB)
	ingestService := ingest.NewService(ingestRepo, ai, vecStore, ai, ingest.Config{
		Namespace:    cfg.Namespace,
		ChunkSize:    cfg.ChunkSize,
		ChunkOverlap: cfg.ChunkOverlap,
		Concurrency:  cfg.IngestionConcurrency,
	})
	ingestHandler := ingest.NewHandler(ingestService, int(cfg.MaxUploadSizeMB))

	// Retrieval
	queryLogger, err := retrieval.NewFileQueryLogger(cfg.QueryLogPath)
	if err != nil {
		slog.Warn("failed to create query logger, falling back to stdout", "error", err)
		queryLogger = retrieval.NewQueryLogger(os.Stdout)
	}
	retrievalService := retrieval.NewService(ai, vecStore, cfg.Namespace, queryLogger)

	// Feature: QA
	qaService := qa.NewService(retrievalService, ai, cfg.TopKAsk)
	qaHandler := qa.NewHandler(qaService)

	// Feature: Challenge
	challengeService := challenge.NewService(retrievalService, ai, qaService, cfg.TopKChallenge, cfg.TopKAsk, cfg.ChallengeCount)
	challengeHandler := challenge.NewHandler(challengeService)

	// Feature: Stats
	statsHandler := stats.NewHandler(ingestRepo, vecStore, cfg.Namespace)

	// Middleware: CORS
	enableCORS := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
			next(w, r)
		}
	}

	// Routes
	mux := http.NewServeMux()

	mux.Handle("POST /ingest", middleware.CorrelationID(enableCORS(ingestHandler.Upload)))
	mux.Handle("POST /ask", middleware.CorrelationID(enableCORS(qaHandler.Ask)))
	mux.Handle("POST /challenge/start", middleware.CorrelationID(enableCORS(challengeHandler.Start)))
	mux.Handle("POST /challenge/submit", middleware.CorrelationID(enableCORS(challengeHandler.Submit)))
	mux.Handle("GET /stats", middleware.CorrelationID(enableCORS(statsHandler.GetStats)))

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	return &App{
		Handler: mux,
		cfg:     cfg,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", a.cfg.ServerPort),
		Handler: a.Handler,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutting down server...")
		if err := srv.Shutdown(context.Background()); err != nil {
			slog.Error("server shutdown failed", "error", err)
		}
	}()

	slog.Info("server starting", "port", a.cfg.ServerPort)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

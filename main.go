package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"docent/internal/adapter/gemini"
	"docent/internal/app"
	"docent/internal/config"
	"docent/internal/logger"
)

func main() {
	log := slog.New(logger.NewContextHandler(slog.NewJSONHandler(os.Stdout, nil)))
	slog.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := app.Bootstrap(ctx, cfg)
	if err != nil {
		slog.Error("failed to bootstrap dependencies", "error", err)
		os.Exit(1)
	}
	defer deps.DB.Close()

	// One Gemini client serves both embedding and generation so the index and
	// query paths can never disagree on the embedding model.
	ai, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.EmbedModel, cfg.GenModel)
	if err != nil {
		slog.Error("failed to create gemini client", "error", err)
		os.Exit(1)
	}
	defer ai.Close()

	a, err := app.New(cfg, deps.DB, deps.VectorStore, ai)
	if err != nil {
		slog.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}

	if err := a.Run(ctx); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dealhive/dealhive-backend/internal/ai"
	"github.com/dealhive/dealhive-backend/internal/config"
	"github.com/dealhive/dealhive-backend/internal/dedupe"
	"github.com/dealhive/dealhive-backend/internal/notifier"
	"github.com/dealhive/dealhive-backend/internal/preview"
	"github.com/dealhive/dealhive-backend/internal/server"
	"github.com/dealhive/dealhive-backend/internal/storage"
	"github.com/dealhive/dealhive-backend/internal/submission"
)

func main() {
	slog.Info("Starting DealHive submission service...")

	// A missing .env is fine in deployed environments.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Critical error loading configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	store, err := storage.New(ctx, cfg.Firestore.ProjectID)
	if err != nil {
		slog.Error("Critical error initializing Firestore client", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	evaluator, err := ai.NewClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		slog.Error("Critical error initializing Gemini client", "error", err)
		os.Exit(1)
	}
	if evaluator == nil {
		slog.Warn("No Gemini API key configured; all submissions will route to manual review")
	}

	var previewer submission.PreviewFetcher
	if cfg.Preview.Enabled {
		previewer = preview.New(cfg.Preview.Timeout)
	}

	svc := submission.New(
		store,
		store,
		dedupe.New(store),
		evaluator,
		notifier.New(cfg.Moderation.WebhookURL),
		previewer,
		submission.Options{AITimeout: cfg.Gemini.Timeout},
	)

	httpServer := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      server.NewRouter(svc, cfg.Docs.SpecDir),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGTERM/SIGINT
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
		sig := <-sigCh
		slog.Info("Received signal, shutting down gracefully...", "signal", sig)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("HTTP server shutdown error", "error", err)
		}
	}()

	slog.Info("Listening on port", "port", cfg.App.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("Failed to listen and serve", "error", err)
		os.Exit(1)
	}
	slog.Info("Server stopped.")
}

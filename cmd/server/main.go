/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the kitchen engine server: configuration from the
  environment (.env supported), SQLite storage, HTTP router, graceful
  shutdown on SIGINT/SIGTERM.

ENVIRONMENT:
  KITCHEN_ADDR          listen address (default :8080)
  KITCHEN_DB_PATH       SQLite path, ":memory:" for in-memory (default kitchen.db)
  KITCHEN_CORS_ORIGINS  comma-separated allowed origins
  KITCHEN_RATE_LIMIT    requests/minute per IP, 0 disables (default 120)
  KITCHEN_LOG_FORMAT    "text" or "json" (default text)

GRACEFUL SHUTDOWN:
  On signal: stop accepting connections, wait for in-flight requests up to
  KITCHEN_SHUTDOWN_TIMEOUT, close the database, exit.
*/
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/midday/kitchen-engine/api"
	"github.com/midday/kitchen-engine/config"
	"github.com/midday/kitchen-engine/ledger"
	"github.com/midday/kitchen-engine/store/sqlite"
)

func main() {
	// A missing .env is fine; the environment still applies.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		logger.Error("failed to initialize database", slog.Any("error", err))
		os.Exit(1)
	}
	defer store.Close()

	handler := api.NewHandler(ledger.New(store), store, logger)
	router := api.NewRouter(handler, cfg)

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go func() {
		logger.Info("server starting", slog.String("addr", cfg.Addr), slog.String("db", cfg.DBPath))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped")
}

func newLogger(cfg *config.Config) *slog.Logger {
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

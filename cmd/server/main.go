package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/vardaan97-dotcom/learnovastudent/internal/catalog"
	"github.com/vardaan97-dotcom/learnovastudent/internal/platform/config"
	"github.com/vardaan97-dotcom/learnovastudent/internal/qubits"
	"github.com/vardaan97-dotcom/learnovastudent/internal/session"
)

func main() {
	// Best effort: a missing .env just means plain env vars.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	setupLogger(cfg.Log)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		slog.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}

	sink := session.NewMemorySink()
	sess, err := session.New(session.Config{Catalog: cat, Sink: sink})
	if err != nil {
		slog.Error("failed to create session", "error", err)
		os.Exit(1)
	}
	selector := qubits.NewSelector(cat.Qubits())

	app := &app{
		catalog:  cat,
		session:  sess,
		selector: selector,
		sink:     sink,
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      app.newMux(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGTERM/SIGINT.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// One ticker drives the quiz countdown; the session ignores ticks when
	// no timed attempt is open, and shutdown stops the goroutine before it
	// can outlive the server.
	go runQuizTimer(ctx, sess)

	go func() {
		slog.Info("server starting", "addr", srv.Addr, "course", cat.Course().Code)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// runQuizTimer ticks the session once per second until ctx is cancelled.
func runQuizTimer(ctx context.Context, sess *session.Session) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sess.Tick()
		}
	}
}

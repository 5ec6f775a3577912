package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/p-n-ai/competency-compass/internal/competency"
	"github.com/p-n-ai/competency-compass/internal/platform/cache"
	"github.com/p-n-ai/competency-compass/internal/platform/config"
	"github.com/p-n-ai/competency-compass/internal/snapshot"
	"github.com/p-n-ai/competency-compass/internal/web"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	logger, err := newLogger(os.Stdout, cfg.Log)
	if err != nil {
		slog.Error("invalid log settings", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)

	// Graceful shutdown on SIGTERM/SIGINT.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	store, closeStore, err := newSnapshotStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to open snapshot store", "backend", cfg.Snapshot.Backend, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	handler, err := newHandler(cfg, store)
	if err != nil {
		slog.Error("failed to build handler", "error", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", srv.Addr, "snapshots", cfg.Snapshot.Backend)
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

// newLogger builds the process logger from the log settings.
func newLogger(w io.Writer, lc config.LogConfig) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(lc.Level)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", lc.Level, err)
	}
	opts := &slog.HandlerOptions{Level: level}
	if lc.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts)), nil
	}
	return slog.New(slog.NewJSONHandler(w, opts)), nil
}

// newSnapshotStore opens the configured snapshot backend. The returned
// func releases it.
func newSnapshotStore(ctx context.Context, cfg *config.Config) (snapshot.Store, func(), error) {
	switch cfg.Snapshot.Backend {
	case "redis":
		c, err := cache.New(ctx, cache.Options{URL: cfg.Cache.URL, Prefix: cfg.Cache.KeyPrefix})
		if err != nil {
			return nil, nil, err
		}
		store, err := snapshot.NewRedisStore(c, cfg.Snapshot.TTL)
		if err != nil {
			c.Close()
			return nil, nil, err
		}
		return store, func() { c.Close() }, nil
	default:
		return snapshot.NewMemoryStore(cfg.Snapshot.TTL), func() {}, nil
	}
}

// newHandler loads the reference table and builds the web handler. A table
// that exists but cannot be read is reported on the form page; a missing
// file is a configuration error.
func newHandler(cfg *config.Config, store snapshot.Store) (http.Handler, error) {
	table, err := competency.Load(cfg.ReferencePath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reference table: %w", err)
	}
	if err != nil {
		slog.Error("reference table rejected", "path", cfg.ReferencePath, "error", err)
	}

	srv, err := web.New(web.Options{
		Table:          table,
		LoadErr:        err,
		Snapshots:      store,
		MaxUploadBytes: cfg.Server.UploadMaxBytes,
		LivePreview:    cfg.Server.LivePreview,
	})
	if err != nil {
		return nil, err
	}
	return srv.Handler(), nil
}

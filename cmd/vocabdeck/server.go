package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/snonux/vocabdeck/internal/cli"
	"codeberg.org/snonux/vocabdeck/internal/processor"
	"codeberg.org/snonux/vocabdeck/internal/web"
	"codeberg.org/snonux/vocabdeck/internal/workspace"
)

const shutdownTimeout = 10 * time.Second

// serve runs the web UI until SIGINT/SIGTERM, then shuts down gracefully
func serve(ctx context.Context, cfg *cli.Config, proc *processor.Processor, ws *workspace.Workspace, logger *slog.Logger) error {
	srv, err := web.NewServer(proc, ws, logger)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.Server.Listen,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverCtx, cancelServer := context.WithCancel(ctx)
	defer cancelServer()

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(shutdownCh)

	if cfg.Output.Retention > 0 {
		go pruneLoop(serverCtx, ws, cfg.Output.Retention, logger)
	}

	return runServer(serverCtx, server, shutdownCh, logger)
}

// runServer serves until stop fires or ctx ends. A listener that fails to
// start is returned as an error instead of being treated as a shutdown.
func runServer(ctx context.Context, server *http.Server, stop <-chan os.Signal, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting web UI", "listen", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-stop:
		logger.Info("shutting down server")
	case <-ctx.Done():
		logger.Info("server context canceled, shutting down")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	logger.Info("server shutdown completed")
	return nil
}

// pruneLoop removes expired runs every retention/4, clamped to [1m, 1h]
func pruneLoop(ctx context.Context, ws *workspace.Workspace, retention time.Duration, logger *slog.Logger) {
	interval := min(retention/4, time.Hour)
	interval = max(interval, time.Minute)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := ws.Prune(retention); err != nil {
				logger.Warn("failed to prune old runs", "error", err)
			} else if n > 0 {
				logger.Debug("pruned old runs", "count", n)
			}
		}
	}
}

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

	"github.com/bcnelson/passwd-service/internal/api"
	"github.com/bcnelson/passwd-service/internal/config"
	"github.com/bcnelson/passwd-service/internal/journal"
	jmemory "github.com/bcnelson/passwd-service/internal/journal/memory"
	jsql "github.com/bcnelson/passwd-service/internal/journal/sql"
	"github.com/bcnelson/passwd-service/internal/logging"
	"github.com/bcnelson/passwd-service/internal/service"
	"github.com/bcnelson/passwd-service/internal/storage/memory"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "passwd-service: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	// Initialize journal
	var j journal.Journal
	if cfg.UseMemoryJournal() {
		j = jmemory.New(cfg.Journal.MemorySize)
	} else {
		j, err = jsql.New(cfg.Journal.Driver, cfg.Journal.DSN)
		if err != nil {
			return fmt.Errorf("initializing journal: %w", err)
		}
	}
	defer j.Close()

	store := memory.New()

	svc, err := service.NewSnapshotService(store, j, cfg.Files, service.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("initializing snapshot service: %w", err)
	}
	defer svc.Close()

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      api.NewRouter(store, svc, j, logger),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return svc.Run(gctx)
	})
	g.Go(func() error {
		logger.Info("starting passwd service", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}

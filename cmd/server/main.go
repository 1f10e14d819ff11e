package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/docsite/internal/api"
	"github.com/dgallion1/docsite/internal/config"
	"github.com/dgallion1/docsite/internal/contentstore"
	"github.com/dgallion1/docsite/internal/pipeline"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize pipeline and build the first snapshot before serving.
	orch := pipeline.NewOrchestrator(cfg, log)
	if _, err := orch.BuildNow(ctx, "startup"); err != nil {
		log.Error("initial build failed", "error", err)
		os.Exit(1)
	}
	orch.Start(ctx)

	// Rebuild on content changes.
	var watcher *contentstore.Watcher
	if cfg.WatchContent {
		w, err := contentstore.NewWatcher(cfg.WatchPaths(), cfg.WatchDebounce, log)
		if err != nil {
			log.Error("content watcher failed", "error", err)
			os.Exit(1)
		}
		watcher = w
		go watcher.Run(ctx, func() {
			if _, err := orch.Rebuild("watch"); err != nil {
				log.Warn("rebuild not queued", "error", err)
			}
		})
	}

	// Initialize HTTP server.
	srv := api.NewServer(orch, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		cancel()
		if watcher != nil {
			watcher.Close()
		}
		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting docsite", "port", cfg.Port, "watch", cfg.WatchContent)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

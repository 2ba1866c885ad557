package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/docchat/internal/api"
	"github.com/dgallion1/docchat/internal/cache"
	"github.com/dgallion1/docchat/internal/config"
	"github.com/dgallion1/docchat/internal/fetch"
	"github.com/dgallion1/docchat/internal/normalize"
	"github.com/dgallion1/docchat/internal/pipeline"
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

	rules, err := normalize.LoadRules(cfg.RulesPath)
	if err != nil {
		log.Error("invalid normalizer rules", "path", cfg.RulesPath, "error", err)
		os.Exit(1)
	}
	norm, err := normalize.New(rules)
	if err != nil {
		log.Error("invalid normalizer rules", "path", cfg.RulesPath, "error", err)
		os.Exit(1)
	}

	docCache, err := cache.New(cfg.CacheDir, log)
	if err != nil {
		log.Error("cache init failed", "dir", cfg.CacheDir, "error", err)
		os.Exit(1)
	}

	fetcher := fetch.NewClient(cfg.FetchTimeout, cfg.MaxFetchBytes)
	builder := pipeline.NewBuilder(docCache, fetcher, norm, cfg.DocDir, log)

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, builder, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(builder, orch, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		fetcher.Close()
	}()

	log.Info("starting docchat", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

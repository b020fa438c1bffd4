// Package main is the entry point for the engagement stream ingest worker.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/louper-app/louper/internal/catalog"
	"github.com/louper-app/louper/internal/config"
	"github.com/louper-app/louper/internal/ingest"
	"github.com/louper-app/louper/internal/middleware"
	"github.com/louper-app/louper/internal/stats"
)

// statsInterval is how often the worker logs an apply/drop summary.
const statsInterval = time.Minute

func main() {
	help := flag.Bool("help", false, "display help message")
	configPath := flag.String("config", "", "path to optional YAML config file")
	metricsPort := flag.Int("metrics-port", 9091, "port for the metrics and health endpoint")
	flag.Parse()

	if *help {
		fmt.Println("Louper Engagement Ingest Worker")
		fmt.Println()
		fmt.Println("Usage: ingest [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	cfg, errs := config.Load(*configPath)
	if len(errs) > 0 {
		for _, err := range errs {
			fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		}
		os.Exit(1)
	}
	if cfg.StreamURL == "" {
		fmt.Fprintln(os.Stderr, "config error: STREAM_URL is required for the ingest worker")
		os.Exit(1)
	}

	logger := middleware.NewLogger(cfg.Env)
	slog.SetDefault(logger)
	cfg.LogSummary()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	repo := catalog.NewPostgresRepository(db)
	applyStats := stats.NewApplyStats()

	registry := prometheus.NewRegistry()
	metrics := ingest.NewMetrics()
	if err := metrics.Register(registry); err != nil {
		logger.Error("failed to register metrics", "error", err)
		os.Exit(1)
	}

	handler := ingest.NewHandler(repo, applyStats, logger)
	handler.SetMetrics(metrics)

	client, err := ingest.NewClient(ingest.DefaultConfig(cfg.StreamURL), handler.HandleMessage, logger)
	if err != nil {
		logger.Error("failed to create stream client", "error", err)
		os.Exit(1)
	}

	// Metrics and liveness endpoint for the worker
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"healthy"}`)); err != nil {
			slog.Error("failed to write health response", "error", err)
		}
	})
	metricsServer := &http.Server{
		Addr:        fmt.Sprintf(":%d", *metricsPort),
		Handler:     mux,
		ReadTimeout: 15 * time.Second,
	}
	go func() {
		logger.Info("starting metrics server", "port", *metricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Periodic apply/drop summary
	go func() {
		ticker := time.NewTicker(statsInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				applyStats.LogSummary(logger)
			}
		}
	}()

	clientErr := make(chan error, 1)
	go func() {
		logger.Info("starting stream client", "url", cfg.StreamURL)
		clientErr <- client.Run(ctx)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("shutting down ingest worker...")
		cancel()
		<-clientErr
	case err := <-clientErr:
		if err != nil && err != context.Canceled {
			logger.Error("stream client exited", "error", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server forced to shutdown", "error", err)
	}

	applyStats.LogSummary(logger)
	logger.Info("ingest worker stopped")
}

// Package main is the entry point for the Louper API server.
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
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/louper-app/louper/internal/api"
	"github.com/louper-app/louper/internal/auth"
	"github.com/louper-app/louper/internal/catalog"
	"github.com/louper-app/louper/internal/config"
	"github.com/louper-app/louper/internal/feed"
	"github.com/louper-app/louper/internal/health"
	"github.com/louper-app/louper/internal/middleware"
	"github.com/louper-app/louper/internal/profile"
	"github.com/louper-app/louper/internal/recommend"
	"github.com/louper-app/louper/internal/tracing"
)

func main() {
	help := flag.Bool("help", false, "display help message")
	configPath := flag.String("config", "", "path to optional YAML config file")
	flag.Parse()

	if *help {
		fmt.Println("Louper API Server")
		fmt.Println()
		fmt.Println("Usage: api [options]")
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

	logger := middleware.NewLogger(cfg.Env)
	slog.SetDefault(logger)
	cfg.LogSummary()

	// Postgres-backed stores
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	repo := catalog.NewPostgresRepository(db)
	profiles := profile.NewPostgresStore(db)

	// Redis feed cache, optional
	var redisClient *redis.Client
	var feedCache *feed.Cache
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer redisClient.Close()
		feedCache = feed.NewCache(redisClient, cfg.FeedCacheTTL)
	} else {
		logger.Warn("REDIS_ADDR not set, feed caching disabled")
	}

	// Tracing
	tracingProvider, err := tracing.NewProvider(tracing.Config{
		ServiceName:  "louper-api",
		Enabled:      cfg.TracingEnabled,
		Environment:  cfg.Env,
		OTLPEndpoint: cfg.TracingEndpoint,
		SamplingRate: 1.0,
		InsecureMode: !cfg.IsProduction(),
	})
	if err != nil {
		logger.Error("failed to initialize tracing", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracingProvider.Shutdown(shutdownCtx); err != nil {
			logger.Error("tracing shutdown failed", "error", err)
		}
	}()

	// Scoring weights, with optional calibration file overrides
	weights, err := recommend.LoadCalibration(cfg.CalibrationPath)
	if err != nil {
		logger.Warn("calibration load failed, using defaults", "error", err)
	}
	recommender := recommend.NewRecommender(weights)

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	httpMetrics := middleware.NewMetrics()
	recMetrics := recommend.NewMetrics()
	feedMetrics := feed.NewMetrics()
	if err := httpMetrics.Register(registry); err != nil {
		logger.Error("failed to register http metrics", "error", err)
		os.Exit(1)
	}
	if err := recMetrics.Register(registry); err != nil {
		logger.Error("failed to register recommendation metrics", "error", err)
		os.Exit(1)
	}
	if err := feedMetrics.Register(registry); err != nil {
		logger.Error("failed to register feed metrics", "error", err)
		os.Exit(1)
	}
	recommender.SetMetrics(recMetrics)

	feedService := feed.NewService(repo, profiles, recommender, feedCache, logger)
	feedService.SetMetrics(feedMetrics)

	jwtService := auth.NewJWTService(cfg.JWTSecret)

	// Rate limit counters live in Redis when available so limits hold
	// across replicas
	var rateLimitStore middleware.RateLimitStore
	if redisClient != nil {
		redisStore := middleware.NewRedisRateLimitStore(redisClient)
		redisStore.SetMetrics(httpMetrics)
		rateLimitStore = redisStore
	} else {
		rateLimitStore = middleware.NewInMemoryRateLimitStore()
	}

	healthConfig := api.HealthHandlersConfig{DBChecker: health.NewDBChecker(db)}
	if redisClient != nil {
		healthConfig.RedisChecker = health.NewRedisChecker(redisClient)
	}

	handler := api.NewRouter(api.RouterConfig{
		Feed:           api.NewFeedHandlers(feedService, cfg.ShuffleEnabled, logger),
		Profile:        api.NewProfileHandlers(profiles, feedCache, logger),
		Health:         api.NewHealthHandlers(healthConfig),
		JWTService:     jwtService,
		Logger:         logger,
		RateLimitStore: rateLimitStore,
		HTTPMetrics:    httpMetrics,
		Registry:       registry,
		ServiceName:    "louper-api",
		TracingEnabled: cfg.TracingEnabled,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

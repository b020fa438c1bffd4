package api

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/louper-app/louper/internal/auth"
	"github.com/louper-app/louper/internal/middleware"
)

// RouterConfig carries the handlers and cross-cutting services the router
// composes into the HTTP surface.
type RouterConfig struct {
	Feed    *FeedHandlers
	Profile *ProfileHandlers
	Health  *HealthHandlers

	JWTService *auth.JWTService
	Logger     *slog.Logger

	// RateLimitStore backs the fixed-window counters. Defaults to the
	// in-memory store when nil.
	RateLimitStore middleware.RateLimitStore

	// HTTPMetrics instruments every request when set.
	HTTPMetrics *middleware.Metrics

	// Registry exposes /metrics. When nil the endpoint is not mounted.
	Registry *prometheus.Registry

	// ServiceName names the tracing spans.
	ServiceName string

	// TracingEnabled mounts the otelhttp handler in the chain.
	TracingEnabled bool
}

// NewRouter assembles the full request pipeline:
//
//	RequestID -> Tracing -> Logging -> HTTPMetrics -> rate limit -> auth -> handler
//
// Probe endpoints bypass rate limiting and auth so Kubernetes can always
// reach them.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	store := cfg.RateLimitStore
	if store == nil {
		store = middleware.NewInMemoryRateLimitStore()
	}

	requireAuth := middleware.Authenticate(cfg.JWTService)
	optionalAuth := middleware.OptionalAuthenticate(cfg.JWTService)
	feedLimit := middleware.RateLimiter(store, middleware.DefaultFeedLimit(), middleware.AccountKeyFunc())
	globalLimit := middleware.RateLimiter(store, middleware.DefaultGlobalLimit(), middleware.IPKeyFunc())

	mux := http.NewServeMux()

	if cfg.Health != nil {
		mux.HandleFunc("/health", cfg.Health.Health)
		mux.HandleFunc("/ready", cfg.Health.Ready)
	}
	if cfg.Registry != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{}))
	}

	if cfg.Feed != nil {
		mux.Handle("/v1/feed", requireAuth(feedLimit(http.HandlerFunc(cfg.Feed.GetFeed))))
		mux.Handle("/v1/recommendations", optionalAuth(feedLimit(http.HandlerFunc(cfg.Feed.GetRecommendations))))
	}
	if cfg.Profile != nil {
		mux.Handle("/v1/profile", requireAuth(globalLimit(profileMethodMux(cfg.Profile))))
		mux.Handle("/v1/follow/", requireAuth(globalLimit(followMethodMux(cfg.Profile))))
	}

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			WriteError(w, r.Context(), http.StatusNotFound, ErrCodeNotFound, "The requested resource was not found")
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{
			"service": "louper-api",
			"version": "0.0.1",
		})
	})

	var handler http.Handler = mux
	if cfg.HTTPMetrics != nil {
		handler = middleware.HTTPMetrics(cfg.HTTPMetrics)(handler)
	}
	handler = middleware.Logging(logger)(handler)
	if cfg.TracingEnabled {
		handler = middleware.Tracing(cfg.ServiceName)(handler)
	}
	return middleware.RequestID(handler)
}

func profileMethodMux(h *ProfileHandlers) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.GetProfile(w, r)
		case http.MethodPut:
			h.PutProfile(w, r)
		default:
			WriteError(w, r.Context(), http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
		}
	})
}

func followMethodMux(h *ProfileHandlers) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			h.Follow(w, r)
		case http.MethodDelete:
			h.Unfollow(w, r)
		default:
			WriteError(w, r.Context(), http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
		}
	})
}

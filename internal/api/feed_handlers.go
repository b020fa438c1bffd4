package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/louper-app/louper/internal/feed"
	"github.com/louper-app/louper/internal/middleware"
	"github.com/louper-app/louper/internal/profile"
)

// maxPageLimit bounds the limit query parameter.
const maxPageLimit = 100

// FeedHandlers serves the home feed and discovery recommendation endpoints.
type FeedHandlers struct {
	service        *feed.Service
	shuffleEnabled bool
	logger         *slog.Logger
}

// NewFeedHandlers creates feed endpoint handlers.
func NewFeedHandlers(service *feed.Service, shuffleEnabled bool, logger *slog.Logger) *FeedHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &FeedHandlers{
		service:        service,
		shuffleEnabled: shuffleEnabled,
		logger:         logger,
	}
}

// parseOptions reads limit, categories and shuffle from the query string.
func (h *FeedHandlers) parseOptions(r *http.Request) (feed.Options, error) {
	opts := feed.Options{Shuffle: h.shuffleEnabled}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > maxPageLimit {
			return opts, errors.New("limit must be an integer between 1 and 100")
		}
		opts.Limit = limit
	}

	if raw := r.URL.Query().Get("categories"); raw != "" {
		for _, c := range strings.Split(raw, ",") {
			c = strings.TrimSpace(c)
			if c != "" {
				opts.Categories = append(opts.Categories, c)
			}
		}
	}

	if raw := r.URL.Query().Get("shuffle"); raw != "" {
		opts.Shuffle = raw == "true" || raw == "1"
	}

	return opts, nil
}

// GetFeed handles GET /v1/feed.
// Returns the authenticated account's home feed: followed accounts'
// items interleaved 2:1 with scored recommendations.
func (h *FeedHandlers) GetFeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, r.Context(), http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
		return
	}

	accountID := middleware.GetAccountID(r.Context())
	if accountID == "" {
		WriteError(w, r.Context(), http.StatusUnauthorized, ErrCodeAuthFailed, "Authentication required")
		return
	}

	opts, err := h.parseOptions(r)
	if err != nil {
		WriteError(w, r.Context(), http.StatusBadRequest, ErrCodeValidation, err.Error())
		return
	}

	page, err := h.service.Feed(r.Context(), accountID, opts)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "feed assembly failed",
			slog.String("account_id", accountID),
			slog.String("error", err.Error()))
		WriteError(w, r.Context(), http.StatusInternalServerError, ErrCodeInternal, "Failed to assemble feed")
		return
	}

	WriteJSON(w, http.StatusOK, page)
}

// GetRecommendations handles GET /v1/recommendations.
// Returns the pure discovery page. Works for anonymous callers too;
// they get the cold-start ranking.
func (h *FeedHandlers) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, r.Context(), http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
		return
	}

	accountID := middleware.GetAccountID(r.Context())
	if accountID == "" {
		// Anonymous discovery still gets ranked results
		accountID = "anonymous"
	}

	opts, err := h.parseOptions(r)
	if err != nil {
		WriteError(w, r.Context(), http.StatusBadRequest, ErrCodeValidation, err.Error())
		return
	}

	page, err := h.service.Recommendations(r.Context(), accountID, opts)
	if err != nil {
		if errors.Is(err, profile.ErrEmptyAccountID) {
			WriteError(w, r.Context(), http.StatusBadRequest, ErrCodeValidation, "Account ID is required")
			return
		}
		h.logger.ErrorContext(r.Context(), "recommendation scoring failed",
			slog.String("account_id", accountID),
			slog.String("error", err.Error()))
		WriteError(w, r.Context(), http.StatusInternalServerError, ErrCodeInternal, "Failed to score recommendations")
		return
	}

	WriteJSON(w, http.StatusOK, page)
}

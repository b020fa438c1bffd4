package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/louper-app/louper/internal/feed"
	"github.com/louper-app/louper/internal/middleware"
	"github.com/louper-app/louper/internal/profile"
	"github.com/louper-app/louper/internal/validate"
)

// ProfileHandlers serves profile read/write and follow graph endpoints.
type ProfileHandlers struct {
	store  profile.Store
	cache  *feed.Cache
	logger *slog.Logger
}

// NewProfileHandlers creates profile endpoint handlers.
// The cache is optional; when present, profile writes invalidate the
// account's cached feed pages.
func NewProfileHandlers(store profile.Store, cache *feed.Cache, logger *slog.Logger) *ProfileHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfileHandlers{store: store, cache: cache, logger: logger}
}

// profilePayload is the request/response body for profile endpoints.
type profilePayload struct {
	InterestCategories []string            `json:"interest_categories,omitempty"`
	FavoriteHashtags   []string            `json:"favorite_hashtags,omitempty"`
	PriceRange         *profile.PriceRange `json:"price_range,omitempty"`
	ActivityLevel      int                 `json:"activity_level,omitempty"`
}

// GetProfile handles GET /v1/profile.
func (h *ProfileHandlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, r.Context(), http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
		return
	}

	accountID := middleware.GetAccountID(r.Context())
	if accountID == "" {
		WriteError(w, r.Context(), http.StatusUnauthorized, ErrCodeAuthFailed, "Authentication required")
		return
	}

	p, err := h.store.GetProfile(r.Context(), accountID)
	if errors.Is(err, profile.ErrProfileNotFound) {
		WriteError(w, r.Context(), http.StatusNotFound, ErrCodeProfileNotFound, "Profile not found")
		return
	}
	if err != nil {
		WriteError(w, r.Context(), http.StatusInternalServerError, ErrCodeInternal, "Failed to load profile")
		return
	}

	WriteJSON(w, http.StatusOK, p)
}

// PutProfile handles PUT /v1/profile.
// Creates or replaces the account's taste profile.
func (h *ProfileHandlers) PutProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		WriteError(w, r.Context(), http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
		return
	}

	accountID := middleware.GetAccountID(r.Context())
	if accountID == "" {
		WriteError(w, r.Context(), http.StatusUnauthorized, ErrCodeAuthFailed, "Authentication required")
		return
	}

	var payload profilePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, r.Context(), http.StatusBadRequest, ErrCodeValidation, "Invalid JSON body")
		return
	}

	if payload.PriceRange != nil && payload.PriceRange.Min > payload.PriceRange.Max {
		WriteError(w, r.Context(), http.StatusBadRequest, ErrCodeValidation, "Price range min must not exceed max")
		return
	}
	if payload.ActivityLevel < 0 || payload.ActivityLevel > 10 {
		WriteError(w, r.Context(), http.StatusBadRequest, ErrCodeValidation, "Activity level must be between 0 and 10")
		return
	}

	categories, err := validate.Categories(payload.InterestCategories)
	if err != nil {
		WriteError(w, r.Context(), http.StatusBadRequest, ErrCodeValidation, "Invalid interest categories: "+err.Error())
		return
	}
	hashtags, err := validate.Hashtags(payload.FavoriteHashtags)
	if err != nil {
		WriteError(w, r.Context(), http.StatusBadRequest, ErrCodeValidation, "Invalid hashtags: "+err.Error())
		return
	}

	// Preserve the existing follow graph on profile replacement
	var followingIDs []string
	if existing, err := h.store.GetProfile(r.Context(), accountID); err == nil {
		followingIDs = existing.FollowingIDs
	}

	p := &profile.Profile{
		AccountID:          accountID,
		InterestCategories: categories,
		FavoriteHashtags:   hashtags,
		FollowingIDs:       followingIDs,
		PriceRange:         payload.PriceRange,
		ActivityLevel:      payload.ActivityLevel,
	}
	if err := h.store.PutProfile(r.Context(), p); err != nil {
		WriteError(w, r.Context(), http.StatusInternalServerError, ErrCodeInternal, "Failed to save profile")
		return
	}

	h.invalidateFeed(r, accountID)
	WriteJSON(w, http.StatusOK, p)
}

// Follow handles POST /v1/follow/{accountID}.
func (h *ProfileHandlers) Follow(w http.ResponseWriter, r *http.Request) {
	h.updateFollow(w, r, true)
}

// Unfollow handles DELETE /v1/follow/{accountID}.
func (h *ProfileHandlers) Unfollow(w http.ResponseWriter, r *http.Request) {
	h.updateFollow(w, r, false)
}

func (h *ProfileHandlers) updateFollow(w http.ResponseWriter, r *http.Request, follow bool) {
	wantMethod := http.MethodPost
	if !follow {
		wantMethod = http.MethodDelete
	}
	if r.Method != wantMethod {
		WriteError(w, r.Context(), http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
		return
	}

	accountID := middleware.GetAccountID(r.Context())
	if accountID == "" {
		WriteError(w, r.Context(), http.StatusUnauthorized, ErrCodeAuthFailed, "Authentication required")
		return
	}

	target := strings.TrimPrefix(r.URL.Path, "/v1/follow/")
	if target == "" || strings.Contains(target, "/") {
		WriteError(w, r.Context(), http.StatusBadRequest, ErrCodeValidation, "Target account ID is required")
		return
	}
	if target == accountID {
		WriteError(w, r.Context(), http.StatusBadRequest, ErrCodeValidation, "Cannot follow yourself")
		return
	}

	var err error
	if follow {
		err = h.store.Follow(r.Context(), accountID, target)
	} else {
		err = h.store.Unfollow(r.Context(), accountID, target)
	}
	if errors.Is(err, profile.ErrProfileNotFound) {
		WriteError(w, r.Context(), http.StatusNotFound, ErrCodeProfileNotFound, "Profile not found")
		return
	}
	if err != nil {
		WriteError(w, r.Context(), http.StatusInternalServerError, ErrCodeInternal, "Failed to update follow graph")
		return
	}

	h.invalidateFeed(r, accountID)
	w.WriteHeader(http.StatusNoContent)
}

// invalidateFeed drops the account's cached feed pages. Best effort.
func (h *ProfileHandlers) invalidateFeed(r *http.Request, accountID string) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Invalidate(r.Context(), accountID); err != nil {
		h.logger.WarnContext(r.Context(), "feed cache invalidation failed",
			slog.String("account_id", accountID),
			slog.String("error", err.Error()))
	}
}

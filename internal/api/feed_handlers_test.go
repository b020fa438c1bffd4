package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/louper-app/louper/internal/feed"
	"github.com/louper-app/louper/internal/profile"
)

func TestGetFeed_RequiresAuthentication(t *testing.T) {
	f := newTestFixture(t)
	h := NewFeedHandlers(f.service, false, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/feed", nil)
	rec := httptest.NewRecorder()
	h.GetFeed(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Error.Code != ErrCodeAuthFailed {
		t.Errorf("expected code %s, got %s", ErrCodeAuthFailed, resp.Error.Code)
	}
}

func TestGetFeed_ReturnsMixedPage(t *testing.T) {
	f := newTestFixture(t)
	f.seedPost(t, "followed-1", "friend", "fashion", 10)
	f.seedPost(t, "other-1", "stranger", "beauty", 500)
	f.seedProfile(t, &profile.Profile{
		AccountID:    "alice",
		FollowingIDs: []string{"friend"},
	})
	h := NewFeedHandlers(f.service, false, nil)

	rec := httptest.NewRecorder()
	h.GetFeed(rec, authedRequest(http.MethodGet, "/v1/feed", "alice"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var page feed.Page
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	if page.AccountID != "alice" {
		t.Errorf("expected account alice, got %s", page.AccountID)
	}
	if len(page.Entries) == 0 {
		t.Fatal("expected at least one feed entry")
	}
	if page.Entries[0].Source != "following" {
		t.Errorf("expected first entry from following, got %s", page.Entries[0].Source)
	}
}

func TestGetFeed_InvalidLimit(t *testing.T) {
	f := newTestFixture(t)
	h := NewFeedHandlers(f.service, false, nil)

	tests := []string{"0", "-5", "101", "abc"}
	for _, limit := range tests {
		t.Run(limit, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.GetFeed(rec, authedRequest(http.MethodGet, "/v1/feed?limit="+limit, "alice"))

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			if resp := decodeError(t, rec); resp.Error.Code != ErrCodeValidation {
				t.Errorf("expected code %s, got %s", ErrCodeValidation, resp.Error.Code)
			}
		})
	}
}

func TestGetFeed_MethodNotAllowed(t *testing.T) {
	f := newTestFixture(t)
	h := NewFeedHandlers(f.service, false, nil)

	rec := httptest.NewRecorder()
	h.GetFeed(rec, authedRequest(http.MethodPost, "/v1/feed", "alice"))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestGetRecommendations_AnonymousColdStart(t *testing.T) {
	f := newTestFixture(t)
	f.seedPost(t, "hot-1", "seller", "fashion", 1000)
	f.seedPost(t, "cold-1", "seller", "fashion", 1)
	h := NewFeedHandlers(f.service, false, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/recommendations", nil)
	rec := httptest.NewRecorder()
	h.GetRecommendations(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var page feed.Page
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	if len(page.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(page.Entries))
	}
	if page.Entries[0].ItemID != "hot-1" {
		t.Errorf("expected hot-1 ranked first, got %s", page.Entries[0].ItemID)
	}
}

func TestGetRecommendations_CategoryFilter(t *testing.T) {
	f := newTestFixture(t)
	f.seedPost(t, "fashion-1", "seller", "fashion", 10)
	f.seedPost(t, "beauty-1", "seller", "beauty", 10)
	h := NewFeedHandlers(f.service, false, nil)

	rec := httptest.NewRecorder()
	h.GetRecommendations(rec, authedRequest(http.MethodGet, "/v1/recommendations?categories=beauty", "alice"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var page feed.Page
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	if len(page.Entries) != 1 || page.Entries[0].ItemID != "beauty-1" {
		t.Fatalf("expected only beauty-1, got %+v", page.Entries)
	}
}

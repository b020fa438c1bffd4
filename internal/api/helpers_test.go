package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/louper-app/louper/internal/catalog"
	"github.com/louper-app/louper/internal/feed"
	"github.com/louper-app/louper/internal/middleware"
	"github.com/louper-app/louper/internal/profile"
	"github.com/louper-app/louper/internal/recommend"
)

// testFixture bundles the in-memory stores behind a feed service so
// handler tests can seed state directly.
type testFixture struct {
	repo     *catalog.InMemoryRepository
	profiles *profile.InMemoryStore
	service  *feed.Service
}

func newTestFixture(t *testing.T) *testFixture {
	t.Helper()
	repo := catalog.NewInMemoryRepository()
	profiles := profile.NewInMemoryStore()
	rec := recommend.NewRecommender(recommend.DefaultWeights())
	svc := feed.NewService(repo, profiles, rec, nil, slog.Default())
	return &testFixture{repo: repo, profiles: profiles, service: svc}
}

func (f *testFixture) seedPost(t *testing.T, id, owner, category string, likes int64) {
	t.Helper()
	err := f.repo.Upsert(context.Background(), &catalog.Item{
		ID:        id,
		Kind:      catalog.KindPost,
		OwnerID:   owner,
		Category:  category,
		CreatedAt: time.Now().Add(-time.Hour),
		Post:      &catalog.PostStats{LikeCount: likes},
	})
	if err != nil {
		t.Fatalf("seed item %s: %v", id, err)
	}
}

func (f *testFixture) seedProfile(t *testing.T, p *profile.Profile) {
	t.Helper()
	if err := f.profiles.PutProfile(context.Background(), p); err != nil {
		t.Fatalf("seed profile %s: %v", p.AccountID, err)
	}
}

// authedRequest builds a request whose context carries an account ID, as
// the auth middleware would set it.
func authedRequest(method, target, accountID string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	return req.WithContext(middleware.SetAccountID(req.Context(), accountID))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error response: %v (body: %s)", err, rec.Body.String())
	}
	return resp
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/louper-app/louper/internal/auth"
)

const testJWTSecret = "test-secret-32-characters-long!!"

func accessToken(t *testing.T, svc *auth.JWTService, accountID string) string {
	t.Helper()
	token, err := svc.GenerateAccessToken(accountID, "@handle")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return token
}

func TestAuthenticate_ValidToken(t *testing.T) {
	svc := auth.NewJWTService(testJWTSecret)

	var captured string
	handler := Authenticate(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GetAccountID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/feed", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken(t, svc, "acct-123"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if captured != "acct-123" {
		t.Errorf("account ID = %q, want acct-123", captured)
	}
}

func TestAuthenticate_MissingToken(t *testing.T) {
	svc := auth.NewJWTService(testJWTSecret)
	handler := Authenticate(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/feed", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	svc := auth.NewJWTService(testJWTSecret)
	handler := Authenticate(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/feed", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAuthenticate_RejectsRefreshToken(t *testing.T) {
	svc := auth.NewJWTService(testJWTSecret)
	refresh, err := svc.GenerateRefreshToken("acct-123")
	if err != nil {
		t.Fatalf("failed to generate refresh token: %v", err)
	}

	handler := Authenticate(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/feed", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestOptionalAuthenticate_AnonymousAllowed(t *testing.T) {
	svc := auth.NewJWTService(testJWTSecret)

	var captured string
	handler := OptionalAuthenticate(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GetAccountID(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/feed", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if captured != "" {
		t.Errorf("account ID = %q, want empty for anonymous", captured)
	}
}

func TestOptionalAuthenticate_WithToken(t *testing.T) {
	svc := auth.NewJWTService(testJWTSecret)

	var captured string
	handler := OptionalAuthenticate(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GetAccountID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/feed", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken(t, svc, "acct-456"))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if captured != "acct-456" {
		t.Errorf("account ID = %q, want acct-456", captured)
	}
}

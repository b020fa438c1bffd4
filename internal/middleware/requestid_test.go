package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestRequestID_GeneratesWhenMissing(t *testing.T) {
	var captured string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/feed", nil))

	if captured == "" {
		t.Fatal("request ID was not set in context")
	}
	if _, err := uuid.Parse(captured); err != nil {
		t.Errorf("request ID %q is not a valid UUID", captured)
	}
	if rec.Header().Get(RequestIDHeader) != captured {
		t.Errorf("response header = %q, want %q", rec.Header().Get(RequestIDHeader), captured)
	}
}

func TestRequestID_PreservesIncomingUUID(t *testing.T) {
	var captured string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GetRequestID(r.Context())
	}))

	incoming := uuid.New().String()
	req := httptest.NewRequest(http.MethodGet, "/feed", nil)
	req.Header.Set(RequestIDHeader, incoming)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if captured != incoming {
		t.Errorf("request ID = %q, want %q", captured, incoming)
	}
}

func TestRequestID_ReplacesMalformedIncoming(t *testing.T) {
	var captured string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/feed", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if captured == "not-a-uuid" {
		t.Error("malformed request ID was not replaced")
	}
	if _, err := uuid.Parse(captured); err != nil {
		t.Errorf("replacement request ID %q is not a valid UUID", captured)
	}
}

func TestGetRequestID_MissingFromContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/feed", nil)
	if id := GetRequestID(req.Context()); id != "" {
		t.Errorf("GetRequestID() = %q, want empty", id)
	}
}

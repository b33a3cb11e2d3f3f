// Package router tests verify the routing configuration and the health
// endpoint.
package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"indiadaily/internal/handlers"
	"indiadaily/internal/seed"
	"indiadaily/internal/store/memory"
	"indiadaily/internal/views"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	st := memory.New()
	if err := seed.Apply(context.Background(), st); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return New(
		handlers.NewArticles(st, views.Noop{}),
		handlers.NewCategories(st),
		handlers.NewUpload(nil),
	)
}

func TestHealthHandler(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/health", nil)

	healthHandler(w, r)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}

	ct := resp.Header.Get("Content-Type")
	if ct != "application/json" {
		t.Errorf("content-type: got %q, want %q", ct, "application/json")
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field: got %q, want %q", body["status"], "ok")
	}
}

func TestRoutes(t *testing.T) {
	h := newTestRouter(t)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{"GET", "/health", http.StatusOK},
		{"GET", "/api/articles", http.StatusOK},
		{"GET", "/api/articles/featured", http.StatusOK},
		{"GET", "/api/articles/stats", http.StatusOK},
		{"GET", "/api/categories", http.StatusOK},
		{"GET", "/api/search?q=test", http.StatusOK},
		{"GET", "/api/articles/no-such-slug", http.StatusNotFound},
		{"GET", "/api/categories/no-such-slug", http.StatusNotFound},
		{"DELETE", "/api/articles/no-such-id", http.StatusNoContent},
		{"POST", "/api/upload", http.StatusServiceUnavailable},
		{"GET", "/nowhere", http.StatusNotFound},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(tt.method, tt.path, nil)
		h.ServeHTTP(w, r)
		if w.Code != tt.want {
			t.Errorf("%s %s: got %d, want %d", tt.method, tt.path, w.Code, tt.want)
		}
	}
}

func TestFeaturedRouteNotShadowedBySlug(t *testing.T) {
	// /api/articles/featured must hit the featured handler, not resolve as
	// a slug lookup for an article named "featured".
	h := newTestRouter(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/api/articles/featured", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("featured: got %d, want 200", w.Code)
	}

	var body struct {
		Slug string `json:"slug"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Slug == "" {
		t.Error("featured article has empty slug")
	}
}

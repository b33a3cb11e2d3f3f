// Package router wires the HTTP routes and middleware chain for the news
// backend JSON API.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"indiadaily/internal/handlers"
	"indiadaily/internal/middleware"
)

// New creates the configured chi router with all middleware and routes
// wired up.
func New(articles *handlers.Articles, categories *handlers.Categories, upload *handlers.Upload) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Route("/articles", func(r chi.Router) {
			r.Get("/", articles.List)
			r.Post("/", articles.Create)
			// Fixed paths must register before the slug catch-all.
			r.Get("/featured", articles.Featured)
			r.Get("/stats", articles.Stats)
			r.Get("/{slug}", articles.GetBySlug)
			r.Put("/{id}", articles.Update)
			r.Delete("/{id}", articles.Delete)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", categories.List)
			r.Post("/", categories.Create)
			r.Get("/{slug}", categories.GetBySlug)
		})

		r.Get("/search", articles.Search)
		r.Post("/upload", upload.Image)
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

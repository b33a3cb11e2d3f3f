package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"indiadaily/internal/slug"
	"indiadaily/internal/store"
)

// Categories groups the category API handlers.
type Categories struct {
	store store.Store
}

// NewCategories creates the category handler group.
func NewCategories(st store.Store) *Categories {
	return &Categories{store: st}
}

// List handles GET /api/categories.
func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.store.Categories(r.Context())
	if err != nil {
		slog.Error("list categories failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch categories")
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

// GetBySlug handles GET /api/categories/{slug}.
func (h *Categories) GetBySlug(w http.ResponseWriter, r *http.Request) {
	s := chi.URLParam(r, "slug")

	category, err := h.store.CategoryBySlug(r.Context(), s)
	if err != nil {
		slog.Error("get category failed", "slug", s, "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch category")
		return
	}
	if category == nil {
		respondError(w, http.StatusNotFound, "Category not found")
		return
	}
	respondJSON(w, http.StatusOK, category)
}

// Create handles POST /api/categories. The slug is derived from the name.
func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid category data")
		return
	}
	if msg := validateCategoryName(req.Name); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	derived := slug.Generate(req.Name)
	if derived == "" {
		respondError(w, http.StatusBadRequest, "Name must contain at least one letter or digit.")
		return
	}

	category, err := h.store.CreateCategory(r.Context(), req.Name, derived)
	if errors.Is(err, store.ErrDuplicateSlug) {
		respondError(w, http.StatusConflict, "A category with this slug already exists")
		return
	}
	if err != nil {
		slog.Error("create category failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to create category")
		return
	}
	respondJSON(w, http.StatusCreated, category)
}

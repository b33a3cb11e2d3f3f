package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"indiadaily/internal/models"
	"indiadaily/internal/readtime"
	"indiadaily/internal/slug"
	"indiadaily/internal/store"
	"indiadaily/internal/views"
)

// Articles groups the article API handlers and their dependencies.
type Articles struct {
	store store.Store
	views views.Counter
}

// NewArticles creates the article handler group.
func NewArticles(st store.Store, counter views.Counter) *Articles {
	return &Articles{store: st, views: counter}
}

// List handles GET /api/articles. Query parameters: published (true, false,
// or all), categoryId, language, search, limit, offset.
func (h *Articles) List(w http.ResponseWriter, r *http.Request) {
	filter, errMsg := parseArticleFilter(r)
	if errMsg != "" {
		respondError(w, http.StatusBadRequest, errMsg)
		return
	}

	articles, err := h.store.Articles(r.Context(), filter)
	if err != nil {
		slog.Error("list articles failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch articles")
		return
	}
	respondJSON(w, http.StatusOK, articles)
}

// Featured handles GET /api/articles/featured.
func (h *Articles) Featured(w http.ResponseWriter, r *http.Request) {
	article, err := h.store.FeaturedArticle(r.Context())
	if err != nil {
		slog.Error("featured article failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch featured article")
		return
	}
	if article == nil {
		respondError(w, http.StatusNotFound, "No featured article found")
		return
	}
	respondJSON(w, http.StatusOK, article)
}

// Stats handles GET /api/articles/stats. The published-article count comes
// from the store; today's views from the view counter.
func (h *Articles) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.ArticleStats(r.Context())
	if err != nil {
		slog.Error("article stats failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch stats")
		return
	}

	today, err := h.views.Today(r.Context())
	if err != nil {
		// Views are auxiliary — serve the stats anyway.
		slog.Warn("view counter read failed", "error", err)
	}
	stats.TodaysViews = today

	respondJSON(w, http.StatusOK, stats)
}

// GetBySlug handles GET /api/articles/{slug}. Reading a published article
// counts as a view.
func (h *Articles) GetBySlug(w http.ResponseWriter, r *http.Request) {
	s := chi.URLParam(r, "slug")

	article, err := h.store.ArticleBySlug(r.Context(), s)
	if err != nil {
		slog.Error("get article failed", "slug", s, "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch article")
		return
	}
	if article == nil {
		respondError(w, http.StatusNotFound, "Article not found")
		return
	}

	if article.Published {
		h.views.Hit(r.Context())
	}
	respondJSON(w, http.StatusOK, article)
}

// articleRequest is the create payload. Slug, excerpt and read time are
// derived server-side.
type articleRequest struct {
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	Excerpt       string   `json:"excerpt"`
	FeaturedImage *string  `json:"featuredImage"`
	CategoryID    string   `json:"categoryId"`
	Author        string   `json:"author"`
	AuthorAvatar  *string  `json:"authorAvatar"`
	Language      string   `json:"language"`
	Tags          []string `json:"tags"`
	Published     bool     `json:"published"`
}

// Create handles POST /api/articles.
func (h *Articles) Create(w http.ResponseWriter, r *http.Request) {
	var req articleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid article data")
		return
	}

	if msg := validateArticle(req.Title, req.Content, req.CategoryID, req.Author); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	derived := slug.Generate(req.Title)
	if derived == "" {
		respondError(w, http.StatusBadRequest, "Title must contain at least one letter or digit.")
		return
	}
	if req.Language == "" {
		req.Language = "en"
	}
	if req.Excerpt == "" {
		req.Excerpt = models.DeriveExcerpt(req.Content)
	}

	article, err := h.store.CreateArticle(r.Context(), models.ArticleDraft{
		Title:         req.Title,
		Slug:          derived,
		Content:       req.Content,
		Excerpt:       req.Excerpt,
		FeaturedImage: req.FeaturedImage,
		CategoryID:    req.CategoryID,
		Author:        req.Author,
		AuthorAvatar:  req.AuthorAvatar,
		Language:      req.Language,
		Tags:          req.Tags,
		ReadTime:      readtime.Estimate(req.Content),
		Published:     req.Published,
	})
	if errors.Is(err, store.ErrDuplicateSlug) {
		respondError(w, http.StatusConflict, "An article with this slug already exists")
		return
	}
	if err != nil {
		slog.Error("create article failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to create article")
		return
	}
	respondJSON(w, http.StatusCreated, article)
}

// articleUpdateRequest is the partial update payload: absent fields are left
// unchanged.
type articleUpdateRequest struct {
	Title         *string  `json:"title"`
	Content       *string  `json:"content"`
	Excerpt       *string  `json:"excerpt"`
	FeaturedImage *string  `json:"featuredImage"`
	CategoryID    *string  `json:"categoryId"`
	Author        *string  `json:"author"`
	AuthorAvatar  *string  `json:"authorAvatar"`
	Language      *string  `json:"language"`
	Tags          []string `json:"tags"`
	Published     *bool    `json:"published"`
}

// Update handles PUT /api/articles/{id}. A changed title re-derives the
// slug; changed content re-derives the read time.
func (h *Articles) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req articleUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid article data")
		return
	}
	upd, errMsg := buildUpdate(req)
	if errMsg != "" {
		respondError(w, http.StatusBadRequest, errMsg)
		return
	}

	article, err := h.store.UpdateArticle(r.Context(), id, upd)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Article not found")
		return
	}
	if errors.Is(err, store.ErrDuplicateSlug) {
		respondError(w, http.StatusConflict, "An article with this slug already exists")
		return
	}
	if err != nil {
		slog.Error("update article failed", "id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to update article")
		return
	}
	respondJSON(w, http.StatusOK, article)
}

// buildUpdate validates the request and translates it into a store update,
// deriving slug and read time where needed.
func buildUpdate(req articleUpdateRequest) (models.ArticleUpdate, string) {
	upd := models.ArticleUpdate{
		Title:         req.Title,
		Content:       req.Content,
		Excerpt:       req.Excerpt,
		FeaturedImage: req.FeaturedImage,
		CategoryID:    req.CategoryID,
		Author:        req.Author,
		AuthorAvatar:  req.AuthorAvatar,
		Language:      req.Language,
		Tags:          req.Tags,
		Published:     req.Published,
	}

	if req.Title != nil {
		if utf8.RuneCountInString(*req.Title) > maxTitleLen {
			return upd, "Title is too long (max 300 characters)."
		}
		derived := slug.Generate(*req.Title)
		if derived == "" {
			return upd, "Title must contain at least one letter or digit."
		}
		upd.Slug = &derived
	}
	if req.Content != nil {
		if strings.TrimSpace(*req.Content) == "" {
			return upd, "Content cannot be empty."
		}
		if utf8.RuneCountInString(*req.Content) > maxContentLen {
			return upd, "Content is too long (max 100,000 characters)."
		}
		rt := readtime.Estimate(*req.Content)
		upd.ReadTime = &rt
	}
	if req.Excerpt != nil && utf8.RuneCountInString(*req.Excerpt) > maxExcerptLen {
		return upd, "Excerpt is too long (max 1,000 characters)."
	}
	if req.CategoryID != nil && strings.TrimSpace(*req.CategoryID) == "" {
		return upd, "Category cannot be empty."
	}
	if req.Author != nil && strings.TrimSpace(*req.Author) == "" {
		return upd, "Author cannot be empty."
	}
	return upd, ""
}

// Delete handles DELETE /api/articles/{id}. Deleting a nonexistent article
// still answers 204 — delete is idempotent by contract.
func (h *Articles) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.DeleteArticle(r.Context(), id); err != nil {
		slog.Error("delete article failed", "id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to delete article")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Search handles GET /api/search?q=...&language=... with a fixed result cap.
func (h *Articles) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		respondError(w, http.StatusBadRequest, "Search query is required")
		return
	}

	articles, err := h.store.Articles(r.Context(), store.ArticleFilter{
		Publish:  store.FilterPublished,
		Language: r.URL.Query().Get("language"),
		Search:   q,
		Limit:    10,
	})
	if err != nil {
		slog.Error("search failed", "q", q, "error", err)
		respondError(w, http.StatusInternalServerError, "Search failed")
		return
	}
	respondJSON(w, http.StatusOK, articles)
}

// parseArticleFilter translates list query parameters into a store filter.
// The second return value is a user-facing error message, or "".
func parseArticleFilter(r *http.Request) (store.ArticleFilter, string) {
	q := r.URL.Query()
	filter := store.ArticleFilter{
		CategoryID: q.Get("categoryId"),
		Language:   q.Get("language"),
		Search:     q.Get("search"),
	}

	// published=false asks for drafts; published=all for both states.
	// These are different requests and stay distinct here.
	switch q.Get("published") {
	case "", "true":
		filter.Publish = store.FilterPublished
	case "false":
		filter.Publish = store.FilterDrafts
	case "all":
		filter.Publish = store.FilterAny
	default:
		return filter, "Invalid published value (expected true, false, or all)"
	}

	var err error
	if v := q.Get("limit"); v != "" {
		filter.Limit, err = strconv.Atoi(v)
		if err != nil || filter.Limit < 0 {
			return filter, "Invalid limit"
		}
	}
	if v := q.Get("offset"); v != "" {
		filter.Offset, err = strconv.Atoi(v)
		if err != nil || filter.Offset < 0 {
			return filter, "Invalid offset"
		}
	}
	return filter, ""
}

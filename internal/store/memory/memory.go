// Package memory implements the content store over in-process slices.
// It is the reference backend: volatile, dependency-free, and the one the
// server falls back to when the configured substrate is unreachable.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"indiadaily/internal/models"
	"indiadaily/internal/store"
)

// Store keeps all records in memory. A single RWMutex serializes writers,
// which makes the slug-uniqueness check and the following insert atomic as
// observed by concurrent callers. Readers share the read lock.
type Store struct {
	mu         sync.RWMutex
	categories []models.Category
	articles   []models.Article
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{}
}

// Categories returns all categories ordered by name ascending. Ordering uses
// a Unicode collator so names in any script sort sensibly.
func (s *Store) Categories(_ context.Context) ([]models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Category, len(s.categories))
	copy(out, s.categories)

	// Collators carry an internal buffer and are not safe for concurrent
	// use, so build one per call.
	c := collate.New(language.Und)
	sort.SliceStable(out, func(i, j int) bool {
		return c.CompareString(out[i].Name, out[j].Name) < 0
	})
	return out, nil
}

func (s *Store) CategoryBySlug(_ context.Context, slug string) (*models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.categories {
		if c.Slug == slug {
			out := c
			return &out, nil
		}
	}
	return nil, nil
}

func (s *Store) CreateCategory(_ context.Context, name, slug string) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.categories {
		if c.Slug == slug {
			return nil, store.ErrDuplicateSlug
		}
	}

	cat := models.Category{
		ID:        uuid.NewString(),
		Name:      name,
		Slug:      slug,
		CreatedAt: time.Now(),
	}
	s.categories = append(s.categories, cat)

	out := cat
	return &out, nil
}

// Articles filters, sorts newest-first, and paginates.
func (s *Store) Articles(_ context.Context, filter store.ArticleFilter) ([]models.ArticleWithCategory, error) {
	filter = filter.Normalize()

	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []models.Article
	for _, a := range s.articles {
		if !articleMatches(a, filter) {
			continue
		}
		matched = append(matched, a)
	}

	sortNewestFirst(matched)

	// Pagination window after filtering and sorting.
	if filter.Offset >= len(matched) {
		return []models.ArticleWithCategory{}, nil
	}
	end := filter.Offset + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	matched = matched[filter.Offset:end]

	out := make([]models.ArticleWithCategory, 0, len(matched))
	for _, a := range matched {
		out = append(out, s.withCategory(a))
	}
	return out, nil
}

func (s *Store) ArticleBySlug(_ context.Context, slug string) (*models.ArticleWithCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.articles {
		if a.Slug == slug {
			out := s.withCategory(a)
			return &out, nil
		}
	}
	return nil, nil
}

func (s *Store) ArticleByID(_ context.Context, id string) (*models.ArticleWithCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.articles {
		if a.ID == id {
			out := s.withCategory(a)
			return &out, nil
		}
	}
	return nil, nil
}

func (s *Store) CreateArticle(_ context.Context, draft models.ArticleDraft) (*models.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.articles {
		if a.Slug == draft.Slug {
			return nil, store.ErrDuplicateSlug
		}
	}

	now := time.Now()
	art := models.Article{
		ID:            uuid.NewString(),
		Title:         draft.Title,
		Slug:          draft.Slug,
		Content:       draft.Content,
		Excerpt:       draft.Excerpt,
		FeaturedImage: draft.FeaturedImage,
		CategoryID:    draft.CategoryID,
		Author:        draft.Author,
		AuthorAvatar:  draft.AuthorAvatar,
		Language:      draft.Language,
		Tags:          append([]string(nil), draft.Tags...),
		ReadTime:      draft.ReadTime,
		Published:     draft.Published,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.articles = append(s.articles, art)

	out := cloneArticle(art)
	return &out, nil
}

func (s *Store) UpdateArticle(_ context.Context, id string, upd models.ArticleUpdate) (*models.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, a := range s.articles {
		if a.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, store.ErrNotFound
	}

	// A re-derived slug must not collide with a different article.
	if upd.Slug != nil {
		for _, a := range s.articles {
			if a.ID != id && a.Slug == *upd.Slug {
				return nil, store.ErrDuplicateSlug
			}
		}
	}

	upd.Apply(&s.articles[idx])
	s.articles[idx].UpdatedAt = time.Now()

	out := cloneArticle(s.articles[idx])
	return &out, nil
}

// DeleteArticle removes an article if present. A nonexistent id is a no-op.
func (s *Store) DeleteArticle(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, a := range s.articles {
		if a.ID == id {
			s.articles = append(s.articles[:i], s.articles[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *Store) FeaturedArticle(ctx context.Context) (*models.ArticleWithCategory, error) {
	results, err := s.Articles(ctx, store.ArticleFilter{Publish: store.FilterPublished, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return &results[0], nil
}

func (s *Store) ArticleStats(_ context.Context) (models.ArticleStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int
	for _, a := range s.articles {
		if a.Published {
			total++
		}
	}
	return models.ArticleStats{TotalArticles: total}, nil
}

func (s *Store) Ping(_ context.Context) error { return nil }

func (s *Store) Close(_ context.Context) error { return nil }

// withCategory materializes the read model from the live category record.
// Caller must hold at least the read lock.
func (s *Store) withCategory(a models.Article) models.ArticleWithCategory {
	out := models.ArticleWithCategory{Article: cloneArticle(a)}
	for _, c := range s.categories {
		if c.ID == a.CategoryID {
			out.Category = c
			break
		}
	}
	return out
}

// cloneArticle returns a copy whose Tags slice is detached from the stored
// record.
func cloneArticle(a models.Article) models.Article {
	if a.Tags != nil {
		a.Tags = append([]string(nil), a.Tags...)
	}
	return a
}

func articleMatches(a models.Article, f store.ArticleFilter) bool {
	if !f.Publish.Matches(a.Published) {
		return false
	}
	if f.CategoryID != "" && a.CategoryID != f.CategoryID {
		return false
	}
	if f.Language != "" && a.Language != f.Language {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(a.Title), strings.ToLower(f.Search)) {
		return false
	}
	return true
}

// sortNewestFirst orders by creation time descending, breaking ties by id
// descending so repeated queries are stable.
func sortNewestFirst(articles []models.Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		if !articles[i].CreatedAt.Equal(articles[j].CreatedAt) {
			return articles[i].CreatedAt.After(articles[j].CreatedAt)
		}
		return articles[i].ID > articles[j].ID
	})
}

// Package store defines the content repository contract: the single set of
// operations every storage backend implements with identical observable
// behavior. The HTTP layer depends only on this interface; the concrete
// backend (memory, postgres, mongo) is chosen once at process start.
package store

import (
	"context"
	"errors"

	"indiadaily/internal/models"
)

var (
	// ErrNotFound is returned when an operation targets an id that does
	// not exist. Point lookups (ArticleBySlug, CategoryBySlug, ...) do not
	// use it — they return (nil, nil) for an absent record.
	ErrNotFound = errors.New("store: not found")

	// ErrDuplicateSlug is returned when a create or update would violate
	// slug uniqueness.
	ErrDuplicateSlug = errors.New("store: duplicate slug")
)

// PublishFilter selects articles by publish state. The zero value restricts
// results to published articles, matching the public default. Drafts-only and
// everything are distinct requests — an admin listing asks for FilterAny, not
// for FilterDrafts.
type PublishFilter int

const (
	FilterPublished PublishFilter = iota
	FilterDrafts
	FilterAny
)

// Default pagination applied when the filter leaves Limit/Offset unset.
const (
	DefaultLimit = 20
)

// ArticleFilter configures an Articles query. Empty string fields mean
// "no restriction".
type ArticleFilter struct {
	Publish    PublishFilter
	CategoryID string
	Language   string
	// Search is a case-insensitive substring match against the title only.
	Search string
	Limit  int // <= 0 means DefaultLimit
	Offset int // < 0 means 0
}

// Normalize returns a copy of the filter with pagination defaults applied.
// Backends call it first so they all paginate identically.
func (f ArticleFilter) Normalize() ArticleFilter {
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

// Matches reports whether the publish filter admits an article in the given
// state.
func (p PublishFilter) Matches(published bool) bool {
	switch p {
	case FilterPublished:
		return published
	case FilterDrafts:
		return !published
	default:
		return true
	}
}

// Store is the content repository contract.
//
// Semantics shared by every backend:
//   - Articles results are sorted by creation time descending, ties broken
//     by id descending, then paginated. This ordering is load-bearing:
//     FeaturedArticle must equal the first element of a published query.
//   - Every returned ArticleWithCategory resolves the category at read time.
//   - Slug uniqueness checks and the subsequent write are atomic with
//     respect to concurrent callers.
type Store interface {
	// Categories returns all categories ordered by name ascending using a
	// locale-aware comparison. An empty site yields an empty slice.
	Categories(ctx context.Context) ([]models.Category, error)

	// CategoryBySlug returns the category with the given slug, or (nil, nil)
	// if no category matches.
	CategoryBySlug(ctx context.Context, slug string) (*models.Category, error)

	// CreateCategory inserts a category with the given name and
	// caller-derived slug. Fails with ErrDuplicateSlug on collision.
	CreateCategory(ctx context.Context, name, slug string) (*models.Category, error)

	// Articles runs the filter/sort/paginate query.
	Articles(ctx context.Context, filter ArticleFilter) ([]models.ArticleWithCategory, error)

	// ArticleBySlug returns the article with the given slug regardless of
	// publish state, or (nil, nil) if absent.
	ArticleBySlug(ctx context.Context, slug string) (*models.ArticleWithCategory, error)

	// ArticleByID returns the article with the given id, or (nil, nil).
	ArticleByID(ctx context.Context, id string) (*models.ArticleWithCategory, error)

	// CreateArticle inserts a new article, assigning id and timestamps.
	// The draft's slug, excerpt and read time are already derived by the
	// caller. Fails with ErrDuplicateSlug on slug collision.
	CreateArticle(ctx context.Context, draft models.ArticleDraft) (*models.Article, error)

	// UpdateArticle merges the non-nil fields of upd onto the stored
	// article and refreshes UpdatedAt. Fails with ErrNotFound for an
	// unknown id and ErrDuplicateSlug when a re-derived slug collides with
	// a different article.
	UpdateArticle(ctx context.Context, id string, upd models.ArticleUpdate) (*models.Article, error)

	// DeleteArticle removes an article. Deleting a nonexistent id is not
	// an error.
	DeleteArticle(ctx context.Context, id string) error

	// FeaturedArticle returns the most recently created published article,
	// or (nil, nil) when nothing is published.
	FeaturedArticle(ctx context.Context) (*models.ArticleWithCategory, error)

	// ArticleStats reports the published article count. TodaysViews is
	// always zero at this layer; the view counter fills it in.
	ArticleStats(ctx context.Context) (models.ArticleStats, error)

	// Ping verifies the storage substrate is reachable.
	Ping(ctx context.Context) error

	// Close releases the backend's resources.
	Close(ctx context.Context) error
}

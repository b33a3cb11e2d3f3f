package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"indiadaily/internal/models"
	"indiadaily/internal/store"
)

const articleJoinColumns = `
	a.id, a.title, a.slug, a.content, a.excerpt, a.featured_image,
	a.category_id, a.author, a.author_avatar, a.language, a.tags,
	a.read_time, a.published, a.created_at, a.updated_at,
	c.id, c.name, c.slug, c.created_at`

const articleJoin = `
	FROM articles a
	JOIN categories c ON c.id = a.category_id`

// scanJoined reads one article row with its category columns.
func scanJoined(scanner interface{ Scan(...any) error }) (*models.ArticleWithCategory, error) {
	var (
		a       models.ArticleWithCategory
		tagsRaw []byte
	)
	err := scanner.Scan(
		&a.ID, &a.Title, &a.Slug, &a.Content, &a.Excerpt, &a.FeaturedImage,
		&a.CategoryID, &a.Author, &a.AuthorAvatar, &a.Language, &tagsRaw,
		&a.ReadTime, &a.Published, &a.CreatedAt, &a.UpdatedAt,
		&a.Category.ID, &a.Category.Name, &a.Category.Slug, &a.Category.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := unmarshalTags(tagsRaw, &a.Tags); err != nil {
		return nil, err
	}
	return &a, nil
}

// Articles builds the filter query dynamically. Results are ordered by
// creation time descending with id as the tie-break, then paginated.
func (s *Store) Articles(ctx context.Context, filter store.ArticleFilter) ([]models.ArticleWithCategory, error) {
	filter = filter.Normalize()

	where := ""
	args := []any{}
	and := func(cond string, vals ...any) {
		if where == "" {
			where = " WHERE " + cond
		} else {
			where += " AND " + cond
		}
		args = append(args, vals...)
	}

	switch filter.Publish {
	case store.FilterPublished:
		and("a.published")
	case store.FilterDrafts:
		and("NOT a.published")
	}
	if filter.CategoryID != "" {
		if _, err := uuid.Parse(filter.CategoryID); err != nil {
			return []models.ArticleWithCategory{}, nil
		}
		and(fmt.Sprintf("a.category_id = $%d", len(args)+1), filter.CategoryID)
	}
	if filter.Language != "" {
		and(fmt.Sprintf("a.language = $%d", len(args)+1), filter.Language)
	}
	if filter.Search != "" {
		and(fmt.Sprintf("a.title ILIKE $%d", len(args)+1), "%"+escapeLike(filter.Search)+"%")
	}

	query := `SELECT` + articleJoinColumns + articleJoin + where +
		fmt.Sprintf(" ORDER BY a.created_at DESC, a.id DESC LIMIT $%d OFFSET $%d",
			len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrap("list articles", err)
	}
	defer rows.Close()

	items := []models.ArticleWithCategory{}
	for rows.Next() {
		a, err := scanJoined(rows)
		if err != nil {
			return nil, wrap("scan article", err)
		}
		items = append(items, *a)
	}
	return items, rows.Err()
}

func (s *Store) ArticleBySlug(ctx context.Context, slug string) (*models.ArticleWithCategory, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT`+articleJoinColumns+articleJoin+` WHERE a.slug = $1`, slug)
	a, err := scanJoined(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("find article by slug", err)
	}
	return a, nil
}

func (s *Store) ArticleByID(ctx context.Context, id string) (*models.ArticleWithCategory, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT`+articleJoinColumns+articleJoin+` WHERE a.id = $1`, id)
	a, err := scanJoined(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("find article by id", err)
	}
	return a, nil
}

func (s *Store) CreateArticle(ctx context.Context, draft models.ArticleDraft) (*models.Article, error) {
	tags, err := marshalTags(draft.Tags)
	if err != nil {
		return nil, wrap("encode tags", err)
	}

	a := models.Article{}
	var tagsRaw []byte
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO articles (title, slug, content, excerpt, featured_image,
		                      category_id, author, author_avatar, language,
		                      tags, read_time, published)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, title, slug, content, excerpt, featured_image,
		          category_id, author, author_avatar, language, tags,
		          read_time, published, created_at, updated_at`,
		draft.Title, draft.Slug, draft.Content, draft.Excerpt, draft.FeaturedImage,
		draft.CategoryID, draft.Author, draft.AuthorAvatar, draft.Language,
		tags, draft.ReadTime, draft.Published,
	).Scan(
		&a.ID, &a.Title, &a.Slug, &a.Content, &a.Excerpt, &a.FeaturedImage,
		&a.CategoryID, &a.Author, &a.AuthorAvatar, &a.Language, &tagsRaw,
		&a.ReadTime, &a.Published, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrDuplicateSlug
		}
		return nil, wrap("create article", err)
	}
	if err := unmarshalTags(tagsRaw, &a.Tags); err != nil {
		return nil, wrap("decode tags", err)
	}
	return &a, nil
}

// UpdateArticle reads the row under a row lock, merges the partial update in
// Go, and writes the result back. The transaction keeps concurrent updates
// from interleaving between read and write.
func (s *Store) UpdateArticle(ctx context.Context, id string, upd models.ArticleUpdate) (*models.Article, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, store.ErrNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, wrap("begin update", err)
	}
	defer tx.Rollback()

	var (
		a       models.Article
		tagsRaw []byte
	)
	err = tx.QueryRowContext(ctx, `
		SELECT id, title, slug, content, excerpt, featured_image,
		       category_id, author, author_avatar, language, tags,
		       read_time, published, created_at, updated_at
		FROM articles WHERE id = $1
		FOR UPDATE`, id,
	).Scan(
		&a.ID, &a.Title, &a.Slug, &a.Content, &a.Excerpt, &a.FeaturedImage,
		&a.CategoryID, &a.Author, &a.AuthorAvatar, &a.Language, &tagsRaw,
		&a.ReadTime, &a.Published, &a.CreatedAt, &a.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, wrap("load article for update", err)
	}
	if err := unmarshalTags(tagsRaw, &a.Tags); err != nil {
		return nil, wrap("decode tags", err)
	}

	upd.Apply(&a)
	a.UpdatedAt = time.Now()

	tags, err := marshalTags(a.Tags)
	if err != nil {
		return nil, wrap("encode tags", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE articles SET
			title = $1, slug = $2, content = $3, excerpt = $4,
			featured_image = $5, category_id = $6, author = $7,
			author_avatar = $8, language = $9, tags = $10,
			read_time = $11, published = $12, updated_at = $13
		WHERE id = $14`,
		a.Title, a.Slug, a.Content, a.Excerpt,
		a.FeaturedImage, a.CategoryID, a.Author,
		a.AuthorAvatar, a.Language, tags,
		a.ReadTime, a.Published, a.UpdatedAt, a.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrDuplicateSlug
		}
		return nil, wrap("update article", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, wrap("commit update", err)
	}
	return &a, nil
}

// DeleteArticle removes the article. Unknown and malformed ids are no-ops.
func (s *Store) DeleteArticle(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return nil
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM articles WHERE id = $1`, id); err != nil {
		return wrap("delete article", err)
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

// Tags are stored as a jsonb array; NULL round-trips to a nil slice.

func marshalTags(tags []string) ([]byte, error) {
	if tags == nil {
		return nil, nil
	}
	return json.Marshal(tags)
}

func unmarshalTags(raw []byte, dst *[]string) error {
	if len(raw) == 0 {
		*dst = nil
		return nil
	}
	return json.Unmarshal(raw, dst)
}

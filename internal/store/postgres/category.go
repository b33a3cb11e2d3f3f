package postgres

import (
	"context"
	"database/sql"

	"indiadaily/internal/models"
	"indiadaily/internal/store"
)

const categoryColumns = `id, name, slug, created_at`

// Categories returns all categories ordered by name ascending. Ordering is
// delegated to the database collation, which is locale-aware for ICU/UTF-8
// databases.
func (s *Store) Categories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM categories ORDER BY name`,
	)
	if err != nil {
		return nil, wrap("list categories", err)
	}
	defer rows.Close()

	items := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt); err != nil {
			return nil, wrap("scan category", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

func (s *Store) CategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var c models.Category
	err := s.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE slug = $1`, slug,
	).Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("find category by slug", err)
	}
	return &c, nil
}

func (s *Store) CreateCategory(ctx context.Context, name, slug string) (*models.Category, error) {
	var c models.Category
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO categories (name, slug)
		VALUES ($1, $2)
		RETURNING `+categoryColumns,
		name, slug,
	).Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrDuplicateSlug
		}
		return nil, wrap("create category", err)
	}
	return &c, nil
}

// Package postgres implements the content store over PostgreSQL using
// database/sql with the pgx stdlib driver. Slug uniqueness is enforced by
// unique indexes, so the check-and-insert is atomic at the database.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"indiadaily/internal/models"
)

// Store runs the repository contract against a PostgreSQL pool.
type Store struct {
	db *sql.DB
}

// New creates a Store on top of an open connection pool. The caller owns
// running migrations first (database.Migrate).
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) ArticleStats(ctx context.Context) (models.ArticleStats, error) {
	var total int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM articles WHERE published`,
	).Scan(&total)
	if err != nil {
		return models.ArticleStats{}, wrap("count published articles", err)
	}
	return models.ArticleStats{TotalArticles: total}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close(_ context.Context) error {
	return s.db.Close()
}

// isUniqueViolation reports whether err is a PostgreSQL unique-constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// escapeLike escapes LIKE metacharacters so a search term matches as a
// literal substring.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

func wrap(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

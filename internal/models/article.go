// Package models defines the data types shared by all storage backends and
// the HTTP layer. IDs are opaque strings — each backend mints its own format
// and callers never parse them.
package models

import "time"

// Article is a single piece of content on the site. Draft articles
// (Published = false) are excluded from public listings by default.
type Article struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	Content       string    `json:"content"`
	Excerpt       string    `json:"excerpt"`
	FeaturedImage *string   `json:"featuredImage"`
	CategoryID    string    `json:"categoryId"`
	Author        string    `json:"author"`
	AuthorAvatar  *string   `json:"authorAvatar"`
	Language      string    `json:"language"`
	Tags          []string  `json:"tags"`
	ReadTime      int       `json:"readTime"`
	Published     bool      `json:"published"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ArticleWithCategory is the read model returned by article queries: the
// article with its category embedded by value. It is materialized at query
// time from the live category record, never stored, so category renames are
// visible immediately.
type ArticleWithCategory struct {
	Article
	Category Category `json:"category"`
}

// ArticleDraft carries the caller-settable fields for article creation.
// Slug, Excerpt and ReadTime are expected to be filled in by the caller
// (the HTTP layer derives them) before the draft reaches a backend.
type ArticleDraft struct {
	Title         string   `json:"title"`
	Slug          string   `json:"slug"`
	Content       string   `json:"content"`
	Excerpt       string   `json:"excerpt"`
	FeaturedImage *string  `json:"featuredImage"`
	CategoryID    string   `json:"categoryId"`
	Author        string   `json:"author"`
	AuthorAvatar  *string  `json:"authorAvatar"`
	Language      string   `json:"language"`
	Tags          []string `json:"tags"`
	ReadTime      int      `json:"readTime"`
	Published     bool     `json:"published"`
}

// ArticleUpdate is a partial update: nil fields are left unchanged.
// Tags follows the same rule — a nil slice means "keep existing tags",
// an empty non-nil slice clears them.
type ArticleUpdate struct {
	Title         *string  `json:"title"`
	Slug          *string  `json:"-"`
	Content       *string  `json:"content"`
	Excerpt       *string  `json:"excerpt"`
	FeaturedImage *string  `json:"featuredImage"`
	CategoryID    *string  `json:"categoryId"`
	Author        *string  `json:"author"`
	AuthorAvatar  *string  `json:"authorAvatar"`
	Language      *string  `json:"language"`
	Tags          []string `json:"tags"`
	ReadTime      *int     `json:"-"`
	Published     *bool    `json:"published"`
}

// ArticleStats summarizes site activity for the admin dashboard.
// TotalArticles counts published articles. TodaysViews is filled in by the
// view-counter collaborator, not by storage backends.
type ArticleStats struct {
	TotalArticles int `json:"totalArticles"`
	TodaysViews   int `json:"todaysViews"`
}

// excerptLength is the number of runes kept when deriving an excerpt
// from article content.
const excerptLength = 150

// DeriveExcerpt builds a short summary from article content when the author
// did not supply one: the first 150 runes followed by an ellipsis marker.
// Content at or under the limit is returned unchanged.
func DeriveExcerpt(content string) string {
	runes := []rune(content)
	if len(runes) <= excerptLength {
		return content
	}
	return string(runes[:excerptLength]) + "..."
}

// Apply merges the update onto an article in place. ID and CreatedAt are
// never touched; the caller is responsible for refreshing UpdatedAt.
func (u ArticleUpdate) Apply(a *Article) {
	if u.Title != nil {
		a.Title = *u.Title
	}
	if u.Slug != nil {
		a.Slug = *u.Slug
	}
	if u.Content != nil {
		a.Content = *u.Content
	}
	if u.Excerpt != nil {
		a.Excerpt = *u.Excerpt
	}
	if u.FeaturedImage != nil {
		a.FeaturedImage = u.FeaturedImage
	}
	if u.CategoryID != nil {
		a.CategoryID = *u.CategoryID
	}
	if u.Author != nil {
		a.Author = *u.Author
	}
	if u.AuthorAvatar != nil {
		a.AuthorAvatar = u.AuthorAvatar
	}
	if u.Language != nil {
		a.Language = *u.Language
	}
	if u.Tags != nil {
		a.Tags = u.Tags
	}
	if u.ReadTime != nil {
		a.ReadTime = *u.ReadTime
	}
	if u.Published != nil {
		a.Published = *u.Published
	}
}

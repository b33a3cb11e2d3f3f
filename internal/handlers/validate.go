package handlers

import (
	"strings"
	"unicode/utf8"
)

// Validation limits for article and category fields.
const (
	maxTitleLen   = 300
	maxContentLen = 100_000
	maxExcerptLen = 1_000
	maxNameLen    = 200
	maxAuthorLen  = 200
)

// validateArticle checks create-time article inputs and returns the first
// error found, or "" when the input is valid.
func validateArticle(title, content, categoryID, author string) string {
	if strings.TrimSpace(title) == "" {
		return "Title is required."
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "Title is too long (max 300 characters)."
	}
	if strings.TrimSpace(content) == "" {
		return "Content is required."
	}
	if utf8.RuneCountInString(content) > maxContentLen {
		return "Content is too long (max 100,000 characters)."
	}
	if strings.TrimSpace(categoryID) == "" {
		return "Category is required."
	}
	if strings.TrimSpace(author) == "" {
		return "Author is required."
	}
	if utf8.RuneCountInString(author) > maxAuthorLen {
		return "Author is too long (max 200 characters)."
	}
	return ""
}

// validateCategoryName checks a new category's name.
func validateCategoryName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "Name is required."
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return "Name is too long (max 200 characters)."
	}
	return ""
}

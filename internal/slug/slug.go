// Package slug provides URL-friendly slug generation from article titles
// and category names.
package slug

import (
	"regexp"
	"strings"
)

var (
	// invalidChars matches anything outside word characters, whitespace,
	// and hyphens.
	invalidChars = regexp.MustCompile(`[^\w\s-]`)
	// separators matches runs of whitespace, underscores, and hyphens.
	separators = regexp.MustCompile(`[\s_-]+`)
)

// Generate creates a URL-friendly slug from the given string.
// Example: "Hello, World! 2024" → "hello-world-2024"
//
// Uniqueness is not this package's concern — the store enforces it and
// reports collisions as duplicate-slug errors.
func Generate(s string) string {
	result := strings.ToLower(s)
	result = invalidChars.ReplaceAllString(result, "")
	result = separators.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

package models

import "time"

// Category groups articles by topic. The slug is derived from the name at
// creation time and is unique across all categories. Categories are created
// once and never updated or deleted.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"createdAt"`
}

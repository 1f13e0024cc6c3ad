package model

import "time"

// Category represents a row in the `categories` table. Posts reference a
// category through posts.category_id.
type Category struct {
	ID          uint64    // categories.id
	Name        string    // categories.name
	Description string    // categories.description
	CreatedAt   time.Time // categories.created_at
	UpdatedAt   time.Time // categories.updated_at
}

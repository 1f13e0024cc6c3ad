package model

import "time"

// Post represents a row in the `posts` table. Title is unique so two
// posts cannot share a headline.
type Post struct {
	ID          uint64    // posts.id
	Title       string    // posts.title
	Description string    // posts.description
	Content     string    // posts.content
	CategoryID  uint64    // posts.category_id (references categories.id)
	CreatedAt   time.Time // posts.created_at
	UpdatedAt   time.Time // posts.updated_at
}

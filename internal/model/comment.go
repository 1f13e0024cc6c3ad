package model

import "time"

// Comment represents a row in the `comments` table. Each comment belongs
// to exactly one post via comments.post_id.
type Comment struct {
	ID        uint64    // comments.id
	PostID    uint64    // comments.post_id (references posts.id)
	Name      string    // comments.name
	Email     string    // comments.email
	Body      string    // comments.body
	CreatedAt time.Time // comments.created_at
	UpdatedAt time.Time // comments.updated_at
}

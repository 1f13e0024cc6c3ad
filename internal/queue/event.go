// Package queue defines message payloads exchanged over the message broker.
package queue

// CommentCreatedEvent is published when a comment is stored on a post. It
// carries enough information for downstream consumers to log or notify
// without querying the primary database.
type CommentCreatedEvent struct {
	CommentID uint64 `json:"comment_id"`
	PostID    uint64 `json:"post_id"`
	PostTitle string `json:"post_title"`
	Author    string `json:"author"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

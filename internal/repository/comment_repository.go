package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/blog-rest-api/internal/model"
)

// CommentRepo provides CRUD over the 'comments' table.
type CommentRepo struct{ DB *sql.DB }

func NewCommentRepo(db *sql.DB) *CommentRepo { return &CommentRepo{DB: db} }

const commentColumns = "id,post_id,name,email,body,created_at,updated_at"

// Create inserts a comment and fills in its generated ID.
func (r *CommentRepo) Create(ctx context.Context, cm *model.Comment) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO comments (post_id, name, email, body) VALUES (?,?,?,?)",
		cm.PostID, cm.Name, cm.Email, cm.Body)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	cm.ID = uint64(id)
	return nil
}

// GetByID fetches a comment by id.
func (r *CommentRepo) GetByID(ctx context.Context, id uint64) (model.Comment, error) {
	var cm model.Comment
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+commentColumns+" FROM comments WHERE id=? LIMIT 1", id).
		Scan(&cm.ID, &cm.PostID, &cm.Name, &cm.Email, &cm.Body, &cm.CreatedAt, &cm.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Comment{}, ErrNotFound
	}
	return cm, err
}

// ListByPost returns all comments on a post ordered by id.
func (r *CommentRepo) ListByPost(ctx context.Context, postID uint64) ([]model.Comment, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+commentColumns+" FROM comments WHERE post_id=? ORDER BY id", postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Comment
	for rows.Next() {
		var cm model.Comment
		if err := rows.Scan(&cm.ID, &cm.PostID, &cm.Name, &cm.Email, &cm.Body, &cm.CreatedAt, &cm.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, cm)
	}
	return out, rows.Err()
}

// Update rewrites the mutable columns of an existing comment.
func (r *CommentRepo) Update(ctx context.Context, cm model.Comment) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE comments SET name=?, email=?, body=? WHERE id=?",
		cm.Name, cm.Email, cm.Body, cm.ID)
	return err
}

// Delete removes a comment by id.
func (r *CommentRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM comments WHERE id=?", id)
	if err != nil {
		return err
	}
	return mustAffect(res)
}

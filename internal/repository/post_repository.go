package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/iliyamo/blog-rest-api/internal/model"
)

// PostRepo provides CRUD and paginated listing over the 'posts' table.
type PostRepo struct{ DB *sql.DB }

func NewPostRepo(db *sql.DB) *PostRepo { return &PostRepo{DB: db} }

const postColumns = "id,title,description,content,category_id,created_at,updated_at"

// sortColumns whitelists the ORDER BY targets a client may request. The
// sort column is interpolated into the query string, so it must never come
// from the request unchecked.
var sortColumns = map[string]string{
	"id":         "id",
	"title":      "title",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

// Page describes one page of posts plus the totals the response carries.
type Page struct {
	Posts         []model.Post
	PageNo        int
	PageSize      int
	TotalElements int64
	TotalPages    int
	Last          bool
}

// Create inserts a post and fills in its generated ID.
func (r *PostRepo) Create(ctx context.Context, p *model.Post) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO posts (title, description, content, category_id) VALUES (?,?,?,?)",
		p.Title, p.Description, p.Content, p.CategoryID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// GetByID fetches a post by id.
func (r *PostRepo) GetByID(ctx context.Context, id uint64) (model.Post, error) {
	var p model.Post
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+postColumns+" FROM posts WHERE id=? LIMIT 1", id).
		Scan(&p.ID, &p.Title, &p.Description, &p.Content, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Post{}, ErrNotFound
	}
	return p, err
}

// List returns one page of posts. pageNo is zero-based; sortBy falls back
// to id when the requested column is not whitelisted, and any direction
// other than "asc" sorts descending.
func (r *PostRepo) List(ctx context.Context, pageNo, pageSize int, sortBy, sortDir string) (Page, error) {
	col, ok := sortColumns[strings.ToLower(sortBy)]
	if !ok {
		col = "id"
	}
	dir := "DESC"
	if strings.EqualFold(sortDir, "asc") {
		dir = "ASC"
	}

	var total int64
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts").Scan(&total); err != nil {
		return Page{}, err
	}

	query := fmt.Sprintf("SELECT %s FROM posts ORDER BY %s %s LIMIT ? OFFSET ?", postColumns, col, dir)
	rows, err := r.DB.QueryContext(ctx, query, pageSize, pageNo*pageSize)
	if err != nil {
		return Page{}, err
	}
	defer rows.Close()

	var posts []model.Post
	for rows.Next() {
		var p model.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.Content, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return Page{}, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return Page{}, err
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return Page{
		Posts:         posts,
		PageNo:        pageNo,
		PageSize:      pageSize,
		TotalElements: total,
		TotalPages:    totalPages,
		Last:          pageNo >= totalPages-1,
	}, nil
}

// ListByCategory returns all posts under a category ordered by id.
func (r *PostRepo) ListByCategory(ctx context.Context, categoryID uint64) ([]model.Post, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+postColumns+" FROM posts WHERE category_id=? ORDER BY id", categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Post
	for rows.Next() {
		var p model.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.Content, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Update rewrites the mutable columns of an existing post.
func (r *PostRepo) Update(ctx context.Context, p model.Post) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE posts SET title=?, description=?, content=?, category_id=? WHERE id=?",
		p.Title, p.Description, p.Content, p.CategoryID, p.ID)
	if isDuplicateKey(err) {
		return ErrDuplicate
	}
	return err
}

// Delete removes a post by id; its comments go with it via the FK cascade.
func (r *PostRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM posts WHERE id=?", id)
	if err != nil {
		return err
	}
	return mustAffect(res)
}

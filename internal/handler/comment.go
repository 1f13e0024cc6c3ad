package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/blog-rest-api/internal/model"
	"github.com/iliyamo/blog-rest-api/internal/queue"
	"github.com/iliyamo/blog-rest-api/internal/repository"
	"github.com/iliyamo/blog-rest-api/internal/service"
)

// CommentHandler exposes CRUD endpoints for comments nested under posts.
// Mutations require any authenticated principal; the gate is applied at
// route registration.
type CommentHandler struct {
	Comments *repository.CommentRepo
	Posts    *repository.PostRepo
}

func NewCommentHandler(comments *repository.CommentRepo, posts *repository.PostRepo) *CommentHandler {
	return &CommentHandler{Comments: comments, Posts: posts}
}

type commentDto struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Body  string `json:"body"`
}

func toCommentDto(cm model.Comment) commentDto {
	return commentDto{ID: cm.ID, Name: cm.Name, Email: cm.Email, Body: cm.Body}
}

func bindComment(c echo.Context) (commentDto, error) {
	var dto commentDto
	if err := c.Bind(&dto); err != nil {
		return commentDto{}, validationErr("invalid request body")
	}
	dto.Name = strings.TrimSpace(dto.Name)
	dto.Email = strings.TrimSpace(dto.Email)
	if dto.Name == "" {
		return commentDto{}, validationErr("Name should not be empty")
	}
	if dto.Email == "" || !strings.Contains(dto.Email, "@") {
		return commentDto{}, validationErr("Email should be valid")
	}
	if len(strings.TrimSpace(dto.Body)) < 10 {
		return commentDto{}, validationErr("The body should have at least 10 characters")
	}
	return dto, nil
}

// Create handles POST /api/posts/:postId/comments.
func (h *CommentHandler) Create(c echo.Context) error {
	postID, err := pathID(c, "postId")
	if err != nil {
		return err
	}
	dto, err := bindComment(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	post, err := h.Posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("Post", postID)
		}
		return err
	}

	cm := model.Comment{PostID: postID, Name: dto.Name, Email: dto.Email, Body: dto.Body}
	if err := h.Comments.Create(ctx, &cm); err != nil {
		return err
	}

	// Fire-and-forget: a broker outage must not fail the request.
	event := queue.CommentCreatedEvent{
		CommentID: cm.ID,
		PostID:    post.ID,
		PostTitle: post.Title,
		Author:    cm.Name,
		Email:     cm.Email,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		pubCtx, pubCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer pubCancel()
		_ = service.PublishCommentCreated(pubCtx, event)
	}()

	return c.JSON(http.StatusCreated, toCommentDto(cm))
}

// ListByPost handles GET /api/posts/:postId/comments.
func (h *CommentHandler) ListByPost(c echo.Context) error {
	postID, err := pathID(c, "postId")
	if err != nil {
		return err
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	if _, err := h.Posts.GetByID(ctx, postID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("Post", postID)
		}
		return err
	}
	comments, err := h.Comments.ListByPost(ctx, postID)
	if err != nil {
		return err
	}
	out := make([]commentDto, 0, len(comments))
	for _, cm := range comments {
		out = append(out, toCommentDto(cm))
	}
	return c.JSON(http.StatusOK, out)
}

// GetByID handles GET /api/posts/:postId/comments/:commentId.
func (h *CommentHandler) GetByID(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	cm, err := h.loadOwnedComment(ctx, c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCommentDto(cm))
}

// Update handles PUT /api/posts/:postId/comments/:commentId.
func (h *CommentHandler) Update(c echo.Context) error {
	dto, err := bindComment(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	cm, err := h.loadOwnedComment(ctx, c)
	if err != nil {
		return err
	}
	cm.Name = dto.Name
	cm.Email = dto.Email
	cm.Body = dto.Body
	if err := h.Comments.Update(ctx, cm); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCommentDto(cm))
}

// Delete handles DELETE /api/posts/:postId/comments/:commentId.
func (h *CommentHandler) Delete(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	cm, err := h.loadOwnedComment(ctx, c)
	if err != nil {
		return err
	}
	if err := h.Comments.Delete(ctx, cm.ID); err != nil {
		return err
	}
	return c.String(http.StatusOK, "Comment deleted successfully")
}

// loadOwnedComment resolves both path ids and enforces that the comment
// belongs to the post; a mismatch is a 400, not a 404, because both
// resources exist.
func (h *CommentHandler) loadOwnedComment(ctx context.Context, c echo.Context) (model.Comment, error) {
	postID, err := pathID(c, "postId")
	if err != nil {
		return model.Comment{}, err
	}
	commentID, err := pathID(c, "commentId")
	if err != nil {
		return model.Comment{}, err
	}

	if _, err := h.Posts.GetByID(ctx, postID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Comment{}, notFound("Post", postID)
		}
		return model.Comment{}, err
	}
	cm, err := h.Comments.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Comment{}, notFound("Comment", commentID)
		}
		return model.Comment{}, err
	}
	if cm.PostID != postID {
		return model.Comment{}, validationErr("Comment does not belong to the post")
	}
	return cm, nil
}

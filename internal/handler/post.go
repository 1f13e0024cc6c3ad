package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/blog-rest-api/internal/model"
	"github.com/iliyamo/blog-rest-api/internal/repository"
)

// Listing defaults applied when the query string omits paging parameters.
const (
	defaultPageNo   = 0
	defaultPageSize = 10
	defaultSortBy   = "id"
	defaultSortDir  = "asc"
	maxPageSize     = 100
)

// PostHandler exposes CRUD and paginated listing endpoints for posts.
// Mutations are gated to ROLE_ADMIN at route registration.
type PostHandler struct {
	Posts      *repository.PostRepo
	Categories *repository.CategoryRepo
}

func NewPostHandler(posts *repository.PostRepo, categories *repository.CategoryRepo) *PostHandler {
	return &PostHandler{Posts: posts, Categories: categories}
}

type postDto struct {
	ID          uint64 `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	CategoryID  uint64 `json:"categoryId"`
}

// postPageResp is the paginated listing envelope.
type postPageResp struct {
	Content       []postDto `json:"content"`
	PageNo        int       `json:"pageNo"`
	PageSize      int       `json:"pageSize"`
	TotalElements int64     `json:"totalElements"`
	TotalPages    int       `json:"totalPages"`
	Last          bool      `json:"last"`
}

func toPostDto(p model.Post) postDto {
	return postDto{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Content:     p.Content,
		CategoryID:  p.CategoryID,
	}
}

func bindPost(c echo.Context) (postDto, error) {
	var dto postDto
	if err := c.Bind(&dto); err != nil {
		return postDto{}, validationErr("invalid request body")
	}
	dto.Title = strings.TrimSpace(dto.Title)
	dto.Description = strings.TrimSpace(dto.Description)
	if len(dto.Title) < 2 {
		return postDto{}, validationErr("The title should have at least 2 characters")
	}
	if len(dto.Description) < 10 {
		return postDto{}, validationErr("The description should have at least 10 characters")
	}
	if strings.TrimSpace(dto.Content) == "" {
		return postDto{}, validationErr("content is required")
	}
	if dto.CategoryID == 0 {
		return postDto{}, validationErr("categoryId is required")
	}
	return dto, nil
}

// Create handles POST /api/post.
func (h *PostHandler) Create(c echo.Context) error {
	dto, err := bindPost(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	if _, err := h.Categories.GetByID(ctx, dto.CategoryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("Category", dto.CategoryID)
		}
		return err
	}

	post := model.Post{
		Title:       dto.Title,
		Description: dto.Description,
		Content:     dto.Content,
		CategoryID:  dto.CategoryID,
	}
	if err := h.Posts.Create(ctx, &post); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toPostDto(post))
}

// List handles GET /api/post with pagination and sorting.
func (h *PostHandler) List(c echo.Context) error {
	pageNo := queryInt(c, "pageNo", defaultPageNo)
	pageSize := queryInt(c, "pageSize", defaultPageSize)
	sortBy := queryStr(c, "sortBy", defaultSortBy)
	sortDir := queryStr(c, "sortDir", defaultSortDir)
	if pageNo < 0 {
		pageNo = defaultPageNo
	}
	if pageSize <= 0 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	page, err := h.Posts.List(ctx, pageNo, pageSize, sortBy, sortDir)
	if err != nil {
		return err
	}

	content := make([]postDto, 0, len(page.Posts))
	for _, p := range page.Posts {
		content = append(content, toPostDto(p))
	}
	return c.JSON(http.StatusOK, postPageResp{
		Content:       content,
		PageNo:        page.PageNo,
		PageSize:      page.PageSize,
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages,
		Last:          page.Last,
	})
}

// GetByID handles GET /api/post/:id.
func (h *PostHandler) GetByID(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	post, err := h.Posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("Post", id)
		}
		return err
	}
	return c.JSON(http.StatusOK, toPostDto(post))
}

// ListByCategory handles GET /api/post/category/:id.
func (h *PostHandler) ListByCategory(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	if _, err := h.Categories.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("Category", id)
		}
		return err
	}
	posts, err := h.Posts.ListByCategory(ctx, id)
	if err != nil {
		return err
	}
	out := make([]postDto, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostDto(p))
	}
	return c.JSON(http.StatusOK, out)
}

// Update handles PUT /api/post/:id.
func (h *PostHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	dto, err := bindPost(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	post, err := h.Posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("Post", id)
		}
		return err
	}
	if _, err := h.Categories.GetByID(ctx, dto.CategoryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("Category", dto.CategoryID)
		}
		return err
	}

	post.Title = dto.Title
	post.Description = dto.Description
	post.Content = dto.Content
	post.CategoryID = dto.CategoryID
	if err := h.Posts.Update(ctx, post); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostDto(post))
}

// Delete handles DELETE /api/post/:id.
func (h *PostHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Posts.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("Post", id)
		}
		return err
	}
	return c.String(http.StatusOK, "Post entity is deleted successfully")
}

func queryInt(c echo.Context, name string, def int) int {
	v := c.QueryParam(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func queryStr(c echo.Context, name, def string) string {
	if v := c.QueryParam(name); v != "" {
		return v
	}
	return def
}

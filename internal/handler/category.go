package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/blog-rest-api/internal/model"
	"github.com/iliyamo/blog-rest-api/internal/repository"
)

// CategoryHandler exposes CRUD endpoints for categories. Mutations are
// gated to ROLE_ADMIN at route registration.
type CategoryHandler struct {
	Categories *repository.CategoryRepo
}

func NewCategoryHandler(categories *repository.CategoryRepo) *CategoryHandler {
	return &CategoryHandler{Categories: categories}
}

type categoryDto struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func toCategoryDto(c model.Category) categoryDto {
	return categoryDto{ID: c.ID, Name: c.Name, Description: c.Description}
}

func bindCategory(c echo.Context) (categoryDto, error) {
	var dto categoryDto
	if err := c.Bind(&dto); err != nil {
		return categoryDto{}, validationErr("invalid request body")
	}
	dto.Name = strings.TrimSpace(dto.Name)
	if dto.Name == "" {
		return categoryDto{}, validationErr("category name is required")
	}
	return dto, nil
}

// Create handles POST /api/categories.
func (h *CategoryHandler) Create(c echo.Context) error {
	dto, err := bindCategory(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	cat := model.Category{Name: dto.Name, Description: dto.Description}
	if err := h.Categories.Create(ctx, &cat); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toCategoryDto(cat))
}

// GetByID handles GET /api/categories/:id.
func (h *CategoryHandler) GetByID(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	cat, err := h.Categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("Category", id)
		}
		return err
	}
	return c.JSON(http.StatusOK, toCategoryDto(cat))
}

// GetAll handles GET /api/categories.
func (h *CategoryHandler) GetAll(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	cats, err := h.Categories.GetAll(ctx)
	if err != nil {
		return err
	}
	out := make([]categoryDto, 0, len(cats))
	for _, cat := range cats {
		out = append(out, toCategoryDto(cat))
	}
	return c.JSON(http.StatusOK, out)
}

// Update handles PUT /api/categories/:id.
func (h *CategoryHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	dto, err := bindCategory(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	cat, err := h.Categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("Category", id)
		}
		return err
	}
	cat.Name = dto.Name
	cat.Description = dto.Description
	if err := h.Categories.Update(ctx, cat); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCategoryDto(cat))
}

// Delete handles DELETE /api/categories/:id.
func (h *CategoryHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Categories.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("Category", id)
		}
		return err
	}
	return c.String(http.StatusOK, "Category deleted successfully")
}

// reqContext bounds a handler's database work to one request-scoped timeout.
func reqContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, validationErr("invalid " + name)
	}
	return id, nil
}

// Package router wires the HTTP routes to their handlers and middleware.
// Access rules live here, next to the paths they protect: all GETs and
// the auth endpoints are open, category and post mutations require
// ROLE_ADMIN, comment mutations require any authenticated user.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/blog-rest-api/internal/auth"
	"github.com/iliyamo/blog-rest-api/internal/config"
	"github.com/iliyamo/blog-rest-api/internal/handler"
	"github.com/iliyamo/blog-rest-api/internal/middleware"
	"github.com/iliyamo/blog-rest-api/internal/model"
)

// Handlers bundles everything route registration needs.
type Handlers struct {
	Auth       *handler.AuthHandler
	Categories *handler.CategoryHandler
	Posts      *handler.PostHandler
	Comments   *handler.CommentHandler
}

// Register configures the Echo instance: the error mapper, the health
// check, and the /api route tree behind the bearer filter.
func Register(e *echo.Echo, h Handlers, codec *auth.Codec, users middleware.UserLoader, cacheCfg config.CacheConfig, rdb *redis.Client) {
	e.HTTPErrorHandler = handler.HTTPErrorHandler

	e.GET("/healthz", handler.Health)

	// The bearer filter runs on every /api request. It only installs the
	// principal; rejection decisions belong to the role middleware below.
	api := e.Group("/api", middleware.BearerAuth(codec, users))

	// Auth endpoints, open. Both spellings of each path are live.
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/signin", h.Auth.Login)
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/signup", h.Auth.Register)

	adminOnly := middleware.RequireRole(model.RoleAdmin)
	authed := middleware.RequireAuthenticated()
	cached := middleware.ResponseCache(cacheCfg, rdb)

	// Categories: reads open, mutations admin-only.
	api.GET("/categories", h.Categories.GetAll, cached)
	api.GET("/categories/:id", h.Categories.GetByID, cached)
	api.POST("/categories", h.Categories.Create, adminOnly)
	api.PUT("/categories/:id", h.Categories.Update, adminOnly)
	api.DELETE("/categories/:id", h.Categories.Delete, adminOnly)

	// Posts: reads open, mutations admin-only.
	api.GET("/post", h.Posts.List, cached)
	api.GET("/post/:id", h.Posts.GetByID, cached)
	api.GET("/post/category/:id", h.Posts.ListByCategory, cached)
	api.POST("/post", h.Posts.Create, adminOnly)
	api.PUT("/post/:id", h.Posts.Update, adminOnly)
	api.DELETE("/post/:id", h.Posts.Delete, adminOnly)

	// Comments: reads open, mutations for any authenticated user.
	api.GET("/posts/:postId/comments", h.Comments.ListByPost, cached)
	api.GET("/posts/:postId/comments/:commentId", h.Comments.GetByID, cached)
	api.POST("/posts/:postId/comments", h.Comments.Create, authed)
	api.PUT("/posts/:postId/comments/:commentId", h.Comments.Update, authed)
	api.DELETE("/posts/:postId/comments/:commentId", h.Comments.Delete, authed)
}

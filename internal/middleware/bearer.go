// Package middleware provides the request processing chain shared by the
// API routes: bearer-token authentication, role enforcement and response
// caching.
package middleware

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/blog-rest-api/internal/auth"
	"github.com/iliyamo/blog-rest-api/internal/model"
	"github.com/iliyamo/blog-rest-api/internal/repository"
)

// bearerPrefix is the literal seven-character scheme prefix, trailing
// space included. Matching is case-sensitive: "bearer x" or "BearerX" are
// treated as no credential at all.
const bearerPrefix = "Bearer "

// UserLoader resolves a token subject to a user with roles attached.
type UserLoader interface {
	GetByUsername(ctx context.Context, username string) (model.User, error)
}

// BearerAuth returns the per-request authentication filter. It never
// rejects a request that carries no credential: anonymous requests pass
// through so public GETs stay public, and the role middleware decides
// whether anonymity is acceptable. A presented credential that fails
// verification is an error even on public routes: the client offered a
// token and is entitled to know it was bad rather than hit a confusing
// 403 later.
func BearerAuth(codec *auth.Codec, users UserLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, bearerPrefix) {
				return next(c) // anonymous
			}
			token := header[len(bearerPrefix):]

			subject, err := codec.Verify(token)
			if err != nil {
				return err // classified by the codec, mapped at the boundary
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()
			u, err := users.GetByUsername(ctx, subject)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					// Valid signature, but the subject no longer exists:
					// deleting a user invalidates their in-flight tokens.
					return auth.ErrUnauthenticated
				}
				return err
			}

			auth.SetPrincipal(c, auth.Principal{
				Subject: u.Username,
				Roles:   u.RoleNames(),
			})
			return next(c)
		}
	}
}

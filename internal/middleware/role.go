package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/blog-rest-api/internal/auth"
)

// RequireRole returns a middleware that aborts the request unless the
// authenticated principal carries the named role. An anonymous request is
// rejected as unauthenticated (401); an authenticated principal lacking
// the role is rejected as forbidden (403). The role check is an exact
// match on the role's name.
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := auth.PrincipalFrom(c)
			if !ok {
				return auth.ErrUnauthenticated
			}
			if !p.HasRole(role) {
				return auth.ErrForbidden
			}
			return next(c)
		}
	}
}

// RequireAuthenticated returns a middleware that admits any principal
// regardless of role and rejects anonymous requests with 401.
func RequireAuthenticated() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := auth.PrincipalFrom(c); !ok {
				return auth.ErrUnauthenticated
			}
			return next(c)
		}
	}
}

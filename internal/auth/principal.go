package auth

import "github.com/labstack/echo/v4"

// principalKey is the context key under which the bearer middleware stores
// the authenticated principal for the lifetime of one request.
const principalKey = "principal"

// Principal is the authenticated identity attached to a request: the token
// subject (a username) plus the role names loaded for that user. It is
// rebuilt from the token on every request and never persisted.
type Principal struct {
	Subject string
	Roles   []string
}

// HasRole reports whether the principal carries the exact role name.
func (p Principal) HasRole(name string) bool {
	for _, r := range p.Roles {
		if r == name {
			return true
		}
	}
	return false
}

// SetPrincipal installs the principal on the Echo context.
func SetPrincipal(c echo.Context, p Principal) {
	c.Set(principalKey, p)
}

// PrincipalFrom returns the request's principal, or ok=false when the
// request is anonymous.
func PrincipalFrom(c echo.Context) (Principal, bool) {
	p, ok := c.Get(principalKey).(Principal)
	return p, ok
}

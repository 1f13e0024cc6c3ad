package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/blog-rest-api/internal/service"
)

// AuthHandler exposes the login and registration endpoints.
type AuthHandler struct {
	Svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{Svc: svc}
}

// ----- DTOs -----

type loginReq struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
	Password        string `json:"password"`
}

type registerReq struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type jwtAuthResp struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
}

// Login verifies credentials and returns a bearer token. The identifier
// may be a username (exact, case-sensitive) or an email address.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return validationErr("invalid request body")
	}
	req.UsernameOrEmail = strings.TrimSpace(req.UsernameOrEmail)
	if req.UsernameOrEmail == "" || req.Password == "" {
		return validationErr("usernameOrEmail and password are required")
	}

	// The timeout leaves room for one bcrypt verify plus store latency.
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	token, err := h.Svc.Login(ctx, req.UsernameOrEmail, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, jwtAuthResp{AccessToken: token, TokenType: "Bearer"})
}

// Register creates a new user with the default role and answers with a
// plain-text confirmation.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return validationErr("invalid request body")
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Username == "" || req.Email == "" || req.Password == "" {
		return validationErr("name, username, email and password are required")
	}
	if !strings.Contains(req.Email, "@") {
		return validationErr("email must be a valid address")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	msg, err := h.Svc.Register(ctx, req.Name, req.Username, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.String(http.StatusOK, msg)
}

package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/blog-rest-api/internal/auth"
	"github.com/iliyamo/blog-rest-api/internal/repository"
)

// ErrorDetails is the JSON body returned for every failed request except
// unauthenticated rejections, which answer in plain text.
type ErrorDetails struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
	Details   string    `json:"details"`
}

// HTTPErrorHandler is the single point where failure kinds raised by the
// auth pipeline, the repositories and the handlers become wire responses.
// It is installed on the Echo instance at startup; no component below it
// ever writes an error response itself.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	// Unauthenticated rejection: 401 with a plain-text reason derived
	// from the underlying error.
	if errors.Is(err, auth.ErrUnauthenticated) {
		_ = c.String(http.StatusUnauthorized, err.Error())
		return
	}

	status := http.StatusInternalServerError
	message := "internal server error"

	var httpErr *echo.HTTPError
	switch {
	case errors.Is(err, auth.ErrBadCredentials),
		errors.Is(err, auth.ErrTokenExpired):
		status = http.StatusUnauthorized
		message = err.Error()
	case errors.Is(err, auth.ErrTokenMalformed),
		errors.Is(err, auth.ErrTokenUnsupported),
		errors.Is(err, auth.ErrTokenEmpty),
		errors.Is(err, repository.ErrDuplicateUsername),
		errors.Is(err, repository.ErrDuplicateEmail),
		errors.Is(err, repository.ErrDuplicate):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, auth.ErrForbidden):
		status = http.StatusForbidden
		message = err.Error()
	case errors.Is(err, repository.ErrNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, auth.ErrMisconfigured):
		status = http.StatusInternalServerError
		message = err.Error()
	case errors.As(err, &httpErr):
		// Echo's own errors: unknown routes, method mismatches, and the
		// validation errors the handlers raise via echo.NewHTTPError.
		status = httpErr.Code
		if s, ok := httpErr.Message.(string); ok {
			message = s
		} else {
			message = http.StatusText(status)
		}
	}

	_ = c.JSON(status, ErrorDetails{
		Timestamp: time.Now().UTC(),
		Message:   message,
		Details:   "uri=" + c.Request().RequestURI,
	})
}

// validationErr builds the 400 error raised when a request payload fails
// a constraint check.
func validationErr(message string) error {
	return echo.NewHTTPError(http.StatusBadRequest, message)
}

// notFoundError reports a missing resource by name and id while still
// matching repository.ErrNotFound under errors.Is, so the mapper keeps a
// single 404 branch.
type notFoundError struct {
	resource string
	id       uint64
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found with id : '%d'", e.resource, e.id)
}

func (e notFoundError) Is(target error) bool { return target == repository.ErrNotFound }

func notFound(resource string, id uint64) error { return notFoundError{resource: resource, id: id} }

// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// services and handlers to distinguish between different failure
// scenarios without parsing driver errors themselves. The duplicate-key
// errors in particular are the authoritative serializer for concurrent
// registrations: the unique constraints in MySQL decide races that the
// check-then-insert in the registrar cannot.
package repository

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a lookup matches no row. Handlers
// translate this into an HTTP 404 response.
var ErrNotFound = errors.New("resource not found")

// ErrDuplicateUsername is returned when an insert violates the unique
// constraint on users.username.
var ErrDuplicateUsername = errors.New("username already exists")

// ErrDuplicateEmail is returned when an insert violates the unique
// constraint on users.email.
var ErrDuplicateEmail = errors.New("email already exists")

// ErrDuplicate is returned for unique violations on resource tables
// (e.g. two categories with the same name).
var ErrDuplicate = errors.New("duplicate entry")

// isDuplicateKey reports whether err is a MySQL 1062 duplicate-key error.
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}

// mapUserDuplicate narrows a 1062 error from the users table to the
// violated column by inspecting the key name in the driver message.
func mapUserDuplicate(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "email"):
		return ErrDuplicateEmail
	case strings.Contains(msg, "username"):
		return ErrDuplicateUsername
	default:
		return ErrDuplicate
	}
}

// Package auth implements the token codec, the request principal and the
// failure kinds shared by the authentication pipeline. These sentinel
// values let the HTTP error handler map each failure to its status code
// without the lower layers ever touching the response.
package auth

import "errors"

// ErrBadCredentials is returned by login when the user is unknown or the
// password does not match. The two cases are intentionally
// indistinguishable to the caller.
var ErrBadCredentials = errors.New("invalid username/email or password")

// ErrUnauthenticated is returned when a protected operation is attempted
// without a principal, or when a verified token's subject no longer
// resolves to a user.
var ErrUnauthenticated = errors.New("full authentication is required to access this resource")

// ErrForbidden is returned when the principal lacks the role required by
// the operation. Maps to HTTP 403.
var ErrForbidden = errors.New("access denied")

// ErrTokenMalformed covers structurally broken tokens and signature
// mismatches. Signature failures are deliberately folded in here, so a
// token signed with a different key answers 400 rather than 401.
var ErrTokenMalformed = errors.New("invalid JWT token")

// ErrTokenExpired is returned when exp <= now. Expiry is a half-open
// interval: a token checked exactly at its expiration instant is expired.
var ErrTokenExpired = errors.New("expired JWT token")

// ErrTokenUnsupported is returned when the token is signed with anything
// other than the HMAC family this service mints.
var ErrTokenUnsupported = errors.New("unsupported JWT token")

// ErrTokenEmpty is returned when the claims string is empty.
var ErrTokenEmpty = errors.New("JWT claims string is empty")

// ErrMisconfigured signals a deployment fault (missing default role, bad
// signing key) and maps to HTTP 500.
var ErrMisconfigured = errors.New("service is misconfigured")

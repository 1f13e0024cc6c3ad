package auth

import (
	"encoding/base64"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinKeyBytes is the smallest decoded key size accepted for HS256 signing.
const MinKeyBytes = 32

// errWrongAlg is returned from the parse keyfunc when the token announces a
// non-HMAC algorithm. jwt.Parse wraps keyfunc errors, so Verify can pick it
// back out with errors.Is and classify the token as unsupported.
var errWrongAlg = errors.New("unexpected signing method")

// Codec mints and verifies HS256 compact tokens. The secret is fixed at
// construction; verification is stateless, so a single Codec is safe for
// concurrent use across requests.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewCodec builds a Codec from a base64-encoded secret and a TTL in
// milliseconds. It fails when the decoded key is shorter than MinKeyBytes
// or the TTL is not positive, so a bad deployment dies at startup instead
// of minting weak tokens.
func NewCodec(secretB64 string, ttlMillis int64) (*Codec, error) {
	key, err := base64.StdEncoding.DecodeString(secretB64)
	if err != nil {
		return nil, ErrMisconfigured
	}
	if len(key) < MinKeyBytes || ttlMillis <= 0 {
		return nil, ErrMisconfigured
	}
	return &Codec{
		secret: key,
		ttl:    time.Duration(ttlMillis) * time.Millisecond,
		now:    time.Now,
	}, nil
}

// WithClock returns a copy of the codec with the wall clock replaced.
// The receiver is left untouched, so a shared codec can never be
// re-clocked behind its users' backs. Tests use this to pin iat/exp and
// to verify the expiry boundary; production code never calls it.
func (c *Codec) WithClock(now func() time.Time) *Codec {
	clone := *c
	clone.now = now
	return &clone
}

// TTL reports the configured token lifetime.
func (c *Codec) TTL() time.Duration { return c.ttl }

// Mint signs a token for the given subject with claims {sub, iat, exp},
// numeric dates in seconds since epoch.
func (c *Codec) Mint(subject string) (string, error) {
	now := c.now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(c.secret)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Verify parses and validates a compact token and returns its subject.
// Failures are classified into exactly four kinds so the error handler can
// answer with the right status: ErrTokenEmpty, ErrTokenExpired,
// ErrTokenUnsupported and ErrTokenMalformed. A wrong-key signature counts
// as malformed.
func (c *Codec) Verify(token string) (string, error) {
	if token == "" {
		return "", ErrTokenEmpty
	}
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errWrongAlg
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return c.now().UTC() }))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", ErrTokenExpired
		case errors.Is(err, errWrongAlg):
			return "", ErrTokenUnsupported
		case c.expiredRegardless(token):
			// A wrong-key signature aborts parsing before the claims are
			// checked, but expiry still wins: an expired token answers
			// expired no matter how it was signed.
			return "", ErrTokenExpired
		default:
			return "", ErrTokenMalformed
		}
	}
	if claims.Subject == "" {
		return "", ErrTokenMalformed
	}
	return claims.Subject, nil
}

// expiredRegardless inspects the exp claim without verifying the
// signature and reports whether the token is past its expiry.
func (c *Codec) expiredRegardless(token string) bool {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	return claims.ExpiresAt != nil && !c.now().UTC().Before(claims.ExpiresAt.Time)
}

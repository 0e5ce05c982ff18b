package domain

import "time"

// TokenVerifier verifies a bearer token and returns the caller's user ID.
// The pipeline treats authentication as a precondition: the verified subject
// is the opaque owning identity stamped on every persisted row.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

// TokenIssuer issues tokens for a user. Used by tooling and tests; the
// service itself only verifies.
type TokenIssuer interface {
	Issue(userID string, expiry time.Duration) (string, error)
}

package services

import "errors"

// Sentinel errors returned by the services. Handlers map them onto
// HTTP statuses with errors.Is; anything else surfaces as an opaque
// internal error.
var (
	// ErrNotFound means the article, user or comment does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized covers bad credentials, invalid or stale tokens,
	// and authenticated-but-not-owner mutations.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrConflict means a registration hit a taken username or email.
	ErrConflict = errors.New("conflict")
)

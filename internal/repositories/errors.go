package repositories

import "errors"

// ErrNotFound is wrapped by every repository lookup that misses, so
// callers can tell a missing row from a storage failure.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is wrapped when a write violates a uniqueness
// constraint, such as a taken username or email.
var ErrDuplicate = errors.New("duplicate record")

package repo

import "errors"

var (
	// ErrNotFound is returned when no user matches the lookup.
	ErrNotFound = errors.New("user not found")
	// ErrConflict is returned when an insert violates a unique constraint
	// (username or email already taken).
	ErrConflict = errors.New("user already exists")
)

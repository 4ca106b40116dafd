package domain

import "errors"

// Store-level errors shared by every repository implementation.
var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
	// ErrStale is returned by conditional writes whose precondition no longer holds.
	ErrStale = errors.New("record changed concurrently")
)

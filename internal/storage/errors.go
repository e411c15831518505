package storage

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates an insert collided with an existing id.
	ErrConflict = errors.New("already exists")
)

package repository

import "errors"

var (
	// ErrNotFound is returned when no row matches the owner-scoped lookup.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique username or email is taken.
	ErrDuplicate = errors.New("duplicate record")
	// ErrUnknownAttribute is returned for analytics over a non-groupable column.
	ErrUnknownAttribute = errors.New("unknown task attribute")
)

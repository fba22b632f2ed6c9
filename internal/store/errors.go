// Package store holds the sentinel errors every storage backend returns.
package store

import "errors"

var (
	// ErrNotFound is returned when no record matches the lookup.
	ErrNotFound = errors.New("store: record not found")
	// ErrInvalidID is returned when an identifier is not in the backend's id format.
	ErrInvalidID = errors.New("store: invalid id")
	// ErrDuplicate is returned when a unique index or constraint rejects a write.
	ErrDuplicate = errors.New("store: duplicate key")
)

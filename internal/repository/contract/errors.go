package contract

import "errors"

var (
	// ErrNotFound is returned by writes whose target row no longer exists.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidPattern is returned when the database rejects a search expression.
	ErrInvalidPattern = errors.New("invalid search pattern")
)

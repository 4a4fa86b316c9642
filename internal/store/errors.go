package store

import "errors"

var (
	ErrNotFound = errors.New("not found")

	// ErrDuplicateFact is returned when an add collides with an existing
	// fact id. Promotion treats this as "already applied"; external callers
	// get a conflict.
	ErrDuplicateFact = errors.New("fact id already exists")

	// ErrSuggestionFinal is returned when a validated or rejected
	// suggestion is validated again.
	ErrSuggestionFinal = errors.New("suggestion already validated or rejected")
)

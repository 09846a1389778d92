package domain

import "errors"

var (
	// ErrNotFound indicates the requested category was not found.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateKey indicates a name or slug collision with an existing category.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrValidation indicates a malformed or missing required field, or an
	// invalid enum value.
	ErrValidation = errors.New("validation failed")
	// ErrCycleDetected indicates an ancestor walk revisited a category. The
	// forest invariant makes this unreachable on healthy data; it surfaces
	// store-level corruption and is never swallowed.
	ErrCycleDetected = errors.New("cycle detected in category ancestry")
	// ErrHasChildren indicates a delete was refused because subcategories
	// still reference the category.
	ErrHasChildren = errors.New("category has children")
)

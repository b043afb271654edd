package domain

import "errors"

// Error kinds every workflow converts collaborator failures into. Handlers
// map them onto HTTP status codes; nothing below this package inspects them.
var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrAuthRequired      = errors.New("authentication required")
	ErrStore             = errors.New("store failure")
	ErrInvariant         = errors.New("invariant violation")
	ErrInvalidTransition = errors.New("invalid status transition")
)

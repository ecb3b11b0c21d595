package patch

import "errors"

// Sentinel errors for patch operations.
var (
	// ErrAmbiguous is returned when more than one location qualifies for an
	// operation. The system always prefers doing nothing to guessing wrong.
	ErrAmbiguous = errors.New("highlight target is ambiguous")

	// ErrNotFound is returned when no location qualifies for an operation.
	ErrNotFound = errors.New("highlight target not found")
)

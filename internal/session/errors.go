package session

import "errors"

// Sentinel errors recorded in Diagnostics. None of these are surfaced to the
// user; they exist so failure counts can be inspected and tested.
var (
	// ErrCrossBlock marks a selection whose anchor and focus resolve to
	// different blocks. Such selections are refused before any patching.
	ErrCrossBlock = errors.New("selection crosses a block boundary")

	// ErrEmptySelection marks a selection that serialized to no meaningful
	// text. Treated as a no-op, recorded for diagnostics only.
	ErrEmptySelection = errors.New("selection has no meaningful text")

	// ErrNoHighlightNode marks a failed post-commit scan: the regenerated
	// highlight node could not be located in the re-rendered tree.
	ErrNoHighlightNode = errors.New("regenerated highlight node not found")
)

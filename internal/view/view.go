// Package view defines the capability surface a host platform provides to
// the highlight pipeline: the rendered tree of one document, the live
// selection, geometry for positioning the floating control, and the signal
// hubs the session controller subscribes to. The core consumes these
// interfaces and never talks to a concrete UI toolkit.
package view

import (
	"golang.org/x/net/html"

	"github.com/simonvlc/obsidian-reader-highlighter/internal/renderer/serialize"
	"github.com/simonvlc/obsidian-reader-highlighter/internal/signal"
	"github.com/simonvlc/obsidian-reader-highlighter/internal/store"
)

// Rect is an axis-aligned rectangle in the view's logical coordinates, with
// the origin at the top-left corner.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// CenterX returns the horizontal center of the rectangle.
func (r Rect) CenterX() float64 {
	return r.X + r.W/2
}

// View is one rendered, read-only document view. The highlight pipeline
// reads the rendered tree and the selection through it and subscribes to its
// signal hubs; it never mutates the tree, only the source text behind it.
type View interface {
	// Handle identifies the document this view renders.
	Handle() store.Handle

	// Container returns the root of the rendered tree.
	Container() *html.Node

	// Selection returns the current selection, or false when there is none.
	Selection() (serialize.Range, bool)

	// ClearSelection collapses the rendered selection. Called right before a
	// highlight is committed so the view never shows a double selection once
	// it re-renders.
	ClearSelection()

	// HighlightRect returns the on-screen bounding box of a rendered node,
	// or false when the node is not displayed.
	HighlightRect(n *html.Node) (Rect, bool)

	// Viewport returns the visible region of the view.
	Viewport() Rect

	// TouchFirst reports whether the platform is touch-first, which gates
	// the adjustment session and touch target sizing.
	TouchFirst() bool

	// SelectionFinalized fires when a selection gesture ends (pointer or
	// keyboard release).
	SelectionFinalized() *signal.Hub[struct{}]

	// DoubleActivated fires on double-click or double-tap, carrying the
	// activated point.
	DoubleActivated() *signal.Hub[serialize.Point]

	// SelectionChanged fires on every platform-level selection mutation.
	SelectionChanged() *signal.Hub[struct{}]
}

// Host announces views entering the read-only rendering mode. The session
// controller attaches to each announced view exactly once.
type Host interface {
	ReaderModeEntered() *signal.Hub[View]
}

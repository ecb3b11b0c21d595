package session

import (
	"golang.org/x/net/html"

	"github.com/google/uuid"

	"github.com/simonvlc/obsidian-reader-highlighter/internal/config"
	"github.com/simonvlc/obsidian-reader-highlighter/internal/view"
)

// Affordance is the single floating removal control, bound to exactly one
// highlight. It is created by the controller after a highlight is created or
// tapped and torn down by activation, outside interaction, an explicit
// cancel, or supersession by a newer highlight.
type Affordance struct {
	id   string
	view view.View
	mark *html.Node
	text string
	rect view.Rect
}

func newAffordance(v view.View, mark *html.Node, text string, rect view.Rect) *Affordance {
	return &Affordance{
		id:   uuid.NewString(),
		view: v,
		mark: mark,
		text: text,
		rect: rect,
	}
}

// ID returns the instance identifier.
func (a *Affordance) ID() string { return a.id }

// Text returns the canonical body text of the bound highlight.
func (a *Affordance) Text() string { return a.text }

// Node returns the bound highlight node.
func (a *Affordance) Node() *html.Node { return a.mark }

// Rect returns the control's computed position.
func (a *Affordance) Rect() view.Rect { return a.rect }

// affordanceRect positions the control horizontally centered beneath the
// target and clamps it inside the viewport. Touch-first platforms get a
// scaled-up hit target.
func affordanceRect(target, viewport view.Rect, cfg config.AffordanceConfig, touch bool) view.Rect {
	w, h := cfg.Width, cfg.Height
	if touch {
		w *= cfg.TouchScale
		h *= cfg.TouchScale
	}

	r := view.Rect{
		X: target.CenterX() - w/2,
		Y: target.Y + target.H + cfg.Margin,
		W: w,
		H: h,
	}

	if r.X+r.W > viewport.X+viewport.W {
		r.X = viewport.X + viewport.W - r.W
	}
	if r.X < viewport.X {
		r.X = viewport.X
	}
	if r.Y+r.H > viewport.Y+viewport.H {
		r.Y = viewport.Y + viewport.H - r.H
	}
	if r.Y < viewport.Y {
		r.Y = viewport.Y
	}
	return r
}

// insideNode reports whether n is target or one of target's ancestors.
func insideNode(target, n *html.Node) bool {
	for ; target != nil; target = target.Parent {
		if target == n {
			return true
		}
	}
	return false
}

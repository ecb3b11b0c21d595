// Package serialize converts a range of a rendered tree back into canonical
// inline Markdown. The output is exactly the text the patch package operates
// on: emphasis, code, strikethrough, and links are re-emitted as markup,
// highlight <mark> wrappers contribute only their children (so re-serializing
// an existing highlight never reproduces the delimiter syntax), and anything
// unrecognized passes its children through unchanged.
package serialize

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Point is a position in a rendered tree: a node plus a rune offset when the
// node is a text node. Offsets on element nodes are ignored.
type Point struct {
	Node   *html.Node
	Offset int
}

// Range is an (anchor, focus) pair of points. Anchor and focus may appear in
// either document order; serialization normalizes them.
type Range struct {
	Anchor Point
	Focus  Point
}

// Collapsed reports whether the range selects nothing.
func (r Range) Collapsed() bool {
	if r.Anchor.Node == nil || r.Focus.Node == nil {
		return true
	}
	return r.Anchor.Node == r.Focus.Node && r.Anchor.Offset == r.Focus.Offset
}

// Compare orders two points by document position: -1 when a precedes b, 1
// when a follows b, 0 when they coincide. Both points must belong to the
// same tree.
func Compare(a, b Point) int {
	if a.Node == b.Node {
		switch {
		case a.Offset < b.Offset:
			return -1
		case a.Offset > b.Offset:
			return 1
		default:
			return 0
		}
	}

	pa, pb := treePath(a.Node), treePath(b.Node)
	for i := 0; i < len(pa) && i < len(pb); i++ {
		if pa[i] != pb[i] {
			if pa[i] < pb[i] {
				return -1
			}
			return 1
		}
	}
	// One node is an ancestor of the other; the ancestor comes first.
	if len(pa) < len(pb) {
		return -1
	}
	if len(pa) > len(pb) {
		return 1
	}
	return 0
}

// Serialize walks the range depth-first and returns its canonical inline
// Markdown, trimmed of leading and trailing whitespace. The result is empty
// exactly when the range contains no meaningful text, which callers must
// treat as a no-op rather than an error.
func Serialize(r Range) string {
	if r.Anchor.Node == nil || r.Focus.Node == nil {
		return ""
	}

	start, end := r.Anchor, r.Focus
	if Compare(start, end) > 0 {
		start, end = end, start
	}

	w := &walker{start: start, end: end}
	return strings.TrimSpace(w.serialize(treeRoot(start.Node)))
}

// BlockRange returns a range spanning the entire text content of blk, for
// whole-block operations such as double-activate. The zero Range is returned
// when the block contains no text.
func BlockRange(blk *html.Node) Range {
	first := firstText(blk)
	if first == nil {
		return Range{}
	}
	last := lastText(blk)
	return Range{
		Anchor: Point{Node: first, Offset: 0},
		Focus:  Point{Node: last, Offset: utf8.RuneCountInString(last.Data)},
	}
}

// NodeText returns the canonical inline Markdown of n's entire content.
// Serializing a <mark> node this way recovers the exact body text that was
// wrapped in the source document, including any inline markup.
func NodeText(n *html.Node) string {
	return Serialize(BlockRange(n))
}

// walker carries the clipping state of a single serialization pass. Text
// outside [start, end] contributes nothing; wrappers around empty content
// vanish with it.
type walker struct {
	start, end Point
	started    bool
	done       bool

	// afterBreak suppresses the HTML-source formatting newline that the
	// renderer emits right after a <br> element, so a break contributes
	// exactly one newline to the canonical text.
	afterBreak bool
}

func (w *walker) serialize(n *html.Node) string {
	if w.done || n == nil {
		return ""
	}

	switch n.Type {
	case html.TextNode:
		return w.text(n)
	case html.ElementNode, html.DocumentNode:
		if n.DataAtom == atom.Br {
			if w.started {
				w.afterBreak = true
				return "\n"
			}
			return ""
		}
		var sb strings.Builder
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			sb.WriteString(w.serialize(c))
			if w.done {
				break
			}
		}
		return wrap(n, sb.String())
	default:
		return ""
	}
}

func (w *walker) text(n *html.Node) string {
	runes := []rune(n.Data)
	lo, hi := 0, len(runes)

	if n == w.start.Node {
		w.started = true
		lo = clamp(w.start.Offset, 0, len(runes))
	}
	if n == w.end.Node {
		hi = clamp(w.end.Offset, 0, len(runes))
		w.done = true
	}

	if !w.started || lo >= hi {
		return ""
	}

	chunk := string(runes[lo:hi])
	if w.afterBreak {
		w.afterBreak = false
		chunk = strings.TrimPrefix(chunk, "\n")
	}
	return chunk
}

// wrap re-emits the markup wrapper for recognized inline elements. The table
// is closed; unrecognized elements pass their serialized children through.
func wrap(n *html.Node, body string) string {
	if body == "" {
		return ""
	}

	switch n.DataAtom {
	case atom.Strong, atom.B:
		return "**" + body + "**"
	case atom.Em, atom.I:
		return "*" + body + "*"
	case atom.Code:
		return "`" + body + "`"
	case atom.Del, atom.S:
		return "~~" + body + "~~"
	case atom.A:
		if href, ok := attrVal(n, "href"); ok && href != "" {
			return "[" + body + "](" + href + ")"
		}
		return body
	default:
		// Includes <mark>: an existing highlight contributes only its
		// children, never its delimiter syntax.
		return body
	}
}

func attrVal(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// treePath returns the child-index path from the tree root to n.
func treePath(n *html.Node) []int {
	var rev []int
	for ; n.Parent != nil; n = n.Parent {
		i := 0
		for s := n.PrevSibling; s != nil; s = s.PrevSibling {
			i++
		}
		rev = append(rev, i)
	}
	path := make([]int, len(rev))
	for i, v := range rev {
		path[len(rev)-1-i] = v
	}
	return path
}

func treeRoot(n *html.Node) *html.Node {
	for n.Parent != nil {
		n = n.Parent
	}
	return n
}

func firstText(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	if n.Type == html.TextNode {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := firstText(c); t != nil {
			return t
		}
	}
	return nil
}

func lastText(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	if n.Type == html.TextNode {
		return n
	}
	for c := n.LastChild; c != nil; c = c.PrevSibling {
		if t := lastText(c); t != nil {
			return t
		}
	}
	return nil
}

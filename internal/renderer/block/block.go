// Package block resolves points in a rendered tree to their nearest enclosing
// block-level unit. A highlight may never cross a block boundary, so the
// session controller uses this package to enforce the single-block invariant
// before any document mutation is attempted.
package block

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// blockAtoms is the closed set of recognized block-level containers: a
// paragraph, a list item, or a heading. A paragraph inside a blockquote
// resolves to the paragraph, which is the minimal unit.
var blockAtoms = map[atom.Atom]bool{
	atom.P:  true,
	atom.Li: true,
	atom.H1: true,
	atom.H2: true,
	atom.H3: true,
	atom.H4: true,
	atom.H5: true,
	atom.H6: true,
}

// Of returns the nearest enclosing block element of n, or nil when n is not
// inside a recognized block. A block element resolves to itself.
func Of(n *html.Node) *html.Node {
	for ; n != nil; n = n.Parent {
		if n.Type == html.ElementNode && blockAtoms[n.DataAtom] {
			return n
		}
	}
	return nil
}

// Same reports whether a and b resolve to the identical block node. Identity
// is deliberate: two syntactically equal paragraphs are never the same block.
// Points outside any block never match anything, including each other.
func Same(a, b *html.Node) bool {
	ba := Of(a)
	if ba == nil {
		return false
	}
	return ba == Of(b)
}

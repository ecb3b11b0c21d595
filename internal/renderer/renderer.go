// Package renderer turns plain Markdown text, including ==text== highlight
// markers, into an HTML node tree. The node tree is the "rendered view" that
// the serializer, block resolver, and session controller read; the source
// text itself is only ever modified through the patch package.
//
// Markdown conversion is done by goldmark with the strikethrough extension
// and this module's mark extension enabled. The resulting HTML byte stream is
// parsed with golang.org/x/net/html so that every consumer works against
// ordinary *html.Node values with stable identity.
package renderer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/simonvlc/obsidian-reader-highlighter/internal/renderer/mark"
)

// Renderer converts Markdown source into HTML node trees.
type Renderer struct {
	md goldmark.Markdown
}

// New returns a Renderer with highlight and strikethrough support enabled.
func New() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.Strikethrough, mark.Extension),
		),
	}
}

// HTML renders source to an HTML string.
func (r *Renderer) HTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

// Tree renders source and parses the result, returning the <body> element
// that contains the rendered blocks.
func (r *Renderer) Tree(source string) (*html.Node, error) {
	rendered, err := r.HTML(source)
	if err != nil {
		return nil, err
	}

	root, err := html.Parse(strings.NewReader(rendered))
	if err != nil {
		return nil, fmt.Errorf("parse rendered html: %w", err)
	}

	body := findElement(root, atom.Body)
	if body == nil {
		return nil, fmt.Errorf("parse rendered html: no body element")
	}
	return body, nil
}

// InlineText renders an inline Markdown fragment and returns its plain text
// content, with all markup stripped. Used to compare a canonical highlight
// body against the text of a rendered <mark> node.
func (r *Renderer) InlineText(fragment string) (string, error) {
	tree, err := r.Tree(fragment)
	if err != nil {
		return "", err
	}
	return Text(tree), nil
}

// Text returns the concatenated text content of the subtree rooted at n.
func Text(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// NormalizeSpace collapses all runs of whitespace in s to single spaces and
// trims the ends. Highlight nodes are matched by normalized text equality
// because the renderer is free to rewrap whitespace.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Marks returns every <mark> element under container in document order.
func Marks(container *html.Node) []*html.Node {
	var marks []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Mark {
			marks = append(marks, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(container)
	return marks
}

// findElement returns the first element with the given atom in a depth-first
// walk of the subtree rooted at n.
func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

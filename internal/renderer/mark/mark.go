// Package mark extends goldmark with the ==text== highlight syntax, rendered
// as an HTML <mark> element.
package mark

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// A Node is an inline AST node representing a highlighted span.
type Node struct {
	ast.BaseInline
}

// Dump implements ast.Node.Dump.
func (n *Node) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

// Kind is the node kind of a highlight span.
var Kind = ast.NewNodeKind("Mark")

// Kind implements ast.Node.Kind.
func (n *Node) Kind() ast.NodeKind {
	return Kind
}

// NewNode returns a new highlight span node.
func NewNode() *Node {
	return &Node{}
}

type delimiterProcessor struct{}

func (p *delimiterProcessor) IsDelimiter(b byte) bool {
	return b == '='
}

func (p *delimiterProcessor) CanOpenCloser(opener, closer *parser.Delimiter) bool {
	return opener.Char == closer.Char
}

func (p *delimiterProcessor) OnMatch(consumes int) ast.Node {
	return NewNode()
}

var defaultDelimiterProcessor = &delimiterProcessor{}

type markParser struct{}

var defaultParser = &markParser{}

// NewParser returns an inline parser that recognizes ==text== spans.
func NewParser() parser.InlineParser {
	return defaultParser
}

func (p *markParser) Trigger() []byte {
	return []byte{'='}
}

func (p *markParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	before := block.PrecendingCharacter()
	line, segment := block.PeekLine()
	node := parser.ScanDelimiter(line, before, 2, defaultDelimiterProcessor)
	if node == nil {
		return nil
	}
	node.Segment = segment.WithStop(segment.Start + node.OriginalLength)
	block.Advance(node.OriginalLength)
	pc.PushDelimiter(node)
	return node
}

func (p *markParser) CloseBlock(parent ast.Node, pc parser.Context) {
	// nothing to do
}

// HTMLRenderer renders highlight span nodes as <mark> elements.
type HTMLRenderer struct {
	html.Config
}

// NewHTMLRenderer returns a renderer.NodeRenderer for highlight spans.
func NewHTMLRenderer(opts ...html.Option) renderer.NodeRenderer {
	r := &HTMLRenderer{
		Config: html.NewConfig(),
	}
	for _, opt := range opts {
		opt.SetHTMLOption(&r.Config)
	}
	return r
}

// RegisterFuncs implements renderer.NodeRenderer.RegisterFuncs.
func (r *HTMLRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(Kind, r.render)
}

func (r *HTMLRenderer) render(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString("<mark>")
	} else {
		_, _ = w.WriteString("</mark>")
	}
	return ast.WalkContinue, nil
}

type extension struct{}

// Extension adds ==text== highlight support to a goldmark.Markdown.
var Extension goldmark.Extender = &extension{}

func (e *extension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithInlineParsers(
		util.Prioritized(NewParser(), 500),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(NewHTMLRenderer(), 500),
	))
}

package tree

import (
	"fmt"
	"io"
	"strings"
)

// Tokens are the strings used to draw tree branches.
type Tokens struct {
	Node     string // before a node that has later siblings
	LastNode string // before the last child of a parent
	Fill     string // below a node that has later siblings
	LastFill string // below the last child of a parent
}

var (
	// StandardTokens draws ASCII branches.
	StandardTokens = Tokens{Node: "+- ", LastNode: "\\- ", Fill: "|  ", LastFill: "   "}
	// WhitespaceTokens indents without drawing branches.
	WhitespaceTokens = Tokens{Node: "   ", LastNode: "   ", Fill: "   ", LastFill: "   "}
	// ExtendedTokens draws box-drawing branches.
	ExtendedTokens = Tokens{Node: "├─ ", LastNode: "└─ ", Fill: "│  ", LastFill: "   "}
)

// TokensByName maps the names accepted on the command line to token sets.
var TokensByName = map[string]Tokens{
	"standard":   StandardTokens,
	"whitespace": WhitespaceTokens,
	"extended":   ExtendedTokens,
}

// Serializer is a Visitor that writes one line per node, indented by depth.
type Serializer struct {
	w      io.Writer
	tokens Tokens
	err    error

	// Visible, when set, restricts which siblings count when deciding
	// whether a node is drawn as the last child.
	Visible NodeFilter

	// Format renders a node's label. It defaults to (*Node).String.
	Format func(*Node) string
}

// NewSerializer returns a Serializer writing to w. Zero tokens select
// StandardTokens.
func NewSerializer(w io.Writer, tokens Tokens) *Serializer {
	if tokens == (Tokens{}) {
		tokens = StandardTokens
	}
	return &Serializer{w: w, tokens: tokens}
}

// Visit writes the line for n.
func (s *Serializer) Visit(n *Node) bool {
	if s.err != nil {
		return false
	}
	format := s.Format
	if format == nil {
		format = (*Node).String
	}
	_, s.err = fmt.Fprintln(s.w, s.indent(n)+format(n))
	return s.err == nil
}

// EndVisit stops the traversal after a write error.
func (s *Serializer) EndVisit(*Node) bool { return s.err == nil }

// Err returns the first write error.
func (s *Serializer) Err() error { return s.err }

func (s *Serializer) indent(n *Node) string {
	if n.Depth() == 0 {
		return ""
	}
	var b strings.Builder
	for _, a := range n.Ancestors()[1:] {
		if s.isLast(a) {
			b.WriteString(s.tokens.LastFill)
		} else {
			b.WriteString(s.tokens.Fill)
		}
	}
	if s.isLast(n) {
		b.WriteString(s.tokens.LastNode)
	} else {
		b.WriteString(s.tokens.Node)
	}
	return b.String()
}

func (s *Serializer) isLast(n *Node) bool {
	if s.Visible == nil {
		return n.IsLast()
	}
	p := n.Parent()
	if p == nil {
		return true
	}
	siblings := p.Children()
	for i := len(siblings) - 1; i >= 0; i-- {
		if s.Visible.Accept(siblings[i]) {
			return siblings[i] == n
		}
	}
	return true
}

// RenderOptions configure [Render].
type RenderOptions struct {
	Tokens Tokens
	// Filter hides nodes it rejects. Their descendants are still rendered
	// when accepted.
	Filter NodeFilter
	Format func(*Node) string
}

// Render writes the subtree rooted at root as indented text.
func Render(w io.Writer, root *Node, opts RenderOptions) error {
	s := NewSerializer(w, opts.Tokens)
	s.Format = opts.Format
	var v Visitor = s
	if opts.Filter != nil {
		s.Visible = opts.Filter
		v = Filtering{Visitor: s, Filter: opts.Filter}
	}
	root.Accept(v)
	return s.Err()
}

// String renders the whole tree with StandardTokens.
func (t *Tree) String() string {
	var b strings.Builder
	_ = Render(&b, t.Root(), RenderOptions{})
	return b.String()
}

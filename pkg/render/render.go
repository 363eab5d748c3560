package render

import (
	"context"
	"io"
	"strings"

	"github.com/matzehuels/mvntree/pkg/errors"
	"github.com/matzehuels/mvntree/pkg/tree"
)

// Format names an output format.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatDOT  Format = "dot"
	FormatSVG  Format = "svg"
)

// Formats lists the supported formats in the order shown to users.
var Formats = []Format{FormatText, FormatJSON, FormatDOT, FormatSVG}

// ParseFormat resolves a format name. The empty string selects text.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return FormatText, nil
	}
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (valid: text, json, dot, svg)", s)
}

// Options configure [Write].
type Options struct {
	Format Format
	// Tokens select the branch drawing for text output.
	Tokens tree.Tokens
	// Filter hides the nodes it rejects.
	Filter tree.NodeFilter
	// Detailed adds annotations to DOT and SVG node labels.
	Detailed bool
}

// Write renders t to w in the requested format.
func Write(ctx context.Context, w io.Writer, t *tree.Tree, opts Options) error {
	switch opts.Format {
	case "", FormatText:
		return tree.Render(w, t.Root(), tree.RenderOptions{Tokens: opts.Tokens, Filter: opts.Filter})
	case FormatJSON:
		return WriteJSON(w, t, opts.Filter)
	case FormatDOT:
		_, err := io.WriteString(w, ToDOT(t, DOTOptions{Filter: opts.Filter, Detailed: opts.Detailed}))
		return err
	case FormatSVG:
		svg, err := RenderSVG(ctx, ToDOT(t, DOTOptions{Filter: opts.Filter, Detailed: opts.Detailed}))
		if err != nil {
			return err
		}
		_, err = w.Write(svg)
		return err
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", opts.Format)
}

// visibleParents maps every node accepted by filter to its nearest
// accepted ancestor, in pre-order. The root is always kept and maps to nil.
func visibleParents(t *tree.Tree, filter tree.NodeFilter) ([]*tree.Node, map[*tree.Node]*tree.Node) {
	var (
		order   []*tree.Node
		parents = make(map[*tree.Node]*tree.Node)
		stack   []*tree.Node
	)
	var v tree.Visitor = tree.Funcs{
		VisitFunc: func(n *tree.Node) bool {
			var parent *tree.Node
			if len(stack) > 0 {
				parent = stack[len(stack)-1]
			}
			order = append(order, n)
			parents[n] = parent
			stack = append(stack, n)
			return true
		},
		EndVisitFunc: func(*tree.Node) bool {
			stack = stack[:len(stack)-1]
			return true
		},
	}
	if filter != nil {
		v = tree.Filtering{Visitor: v, Filter: tree.NodeFilterFunc(func(n *tree.Node) bool {
			return n.Parent() == nil || filter.Accept(n)
		})}
	}
	t.Accept(v)
	return order, parents
}

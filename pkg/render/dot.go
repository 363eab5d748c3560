package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/mvntree/pkg/tree"
)

// DOTOptions configure [ToDOT].
type DOTOptions struct {
	// Filter hides the nodes it rejects.
	Filter tree.NodeFilter
	// Detailed adds the node annotations below the artifact id.
	Detailed bool
}

// ToDOT converts a tree to Graphviz DOT. Each tree node becomes one graph
// node, so an artifact that occurs several times appears several times.
// Omitted nodes are drawn dashed and grey.
func ToDOT(t *tree.Tree, opts DOTOptions) string {
	order, parents := visibleParents(t, opts.Filter)

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.2;\n")
	buf.WriteString("\n")

	for _, n := range order {
		fmt.Fprintf(&buf, "  %s [%s];\n", dotID(n), strings.Join(fmtAttrs(n, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for _, n := range order {
		if p := parents[n]; p != nil {
			fmt.Fprintf(&buf, "  %s -> %s;\n", dotID(p), dotID(n))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func dotID(n *tree.Node) string {
	return "n" + strconv.Itoa(int(n.ID()))
}

func fmtLabel(n *tree.Node, detailed bool) string {
	a := n.Artifact
	label := a.GroupID + ":" + a.ArtifactID + "\n" + a.Version
	if a.Scope != "" {
		label += " (" + string(a.Scope) + ")"
	}
	if detailed {
		for _, item := range n.Annotations() {
			label += "\n" + item
		}
	}
	return label
}

func fmtAttrs(n *tree.Node, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, detailed))}
	switch {
	case n.Parent() == nil:
		attrs = append(attrs, "fillcolor=lightblue")
	case !n.Included():
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=dimgray")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the drawing scales with
// its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

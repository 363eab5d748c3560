// Package render writes dependency trees in the output formats of the
// tree command.
//
// # Formats
//
//   - text: the indented one-line-per-node listing produced by
//     [tree.Render], using the selected branch tokens.
//   - json: a nested document with one object per node (see [WriteJSON]).
//   - dot: a Graphviz digraph (see [ToDOT]).
//   - svg: the DOT graph laid out by the embedded Graphviz (see [RenderSVG]).
//
// Every format honours a [tree.NodeFilter]. Hidden nodes are skipped and
// their visible descendants attach to the nearest visible ancestor.
//
//	err := render.Write(ctx, os.Stdout, t, render.Options{
//		Format: render.FormatDOT,
//		Filter: tree.IncludedOnly,
//	})
package render

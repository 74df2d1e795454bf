// Package viz renders curvenet graphs as Graphviz diagrams for inspection
// and debugging of build and simplification results.
package viz

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"curvenet/pkg/graph"
)

// Options configures DOT generation.
type Options struct {
	// EdgeLengths labels every edge with its length.
	EdgeLengths bool
}

// ToDOT converts a graph to Graphviz DOT. Node names are the graph's node
// indices; the result renders with [RenderSVG].
func ToDOT(g *graph.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph curvenet {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=circle, fontsize=10];\n")
	buf.WriteString("\n")

	for u := 0; u < g.NumNodes(); u++ {
		fmt.Fprintf(&buf, "  n%d;\n", u)
	}

	buf.WriteString("\n")
	for u := 0; u < g.NumNodes(); u++ {
		for _, e := range g.OutEdges(u) {
			if opts.EdgeLengths {
				fmt.Fprintf(&buf, "  n%d -> n%d [label=\"%.2f\"];\n", u, e.To, e.Length)
			} else {
				fmt.Fprintf(&buf, "  n%d -> n%d;\n", u, e.To)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG bytes.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
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
	return buf.Bytes(), nil
}

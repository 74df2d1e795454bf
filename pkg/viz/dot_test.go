package viz

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"curvenet/pkg/geom"
	"curvenet/pkg/graph"
)

func testGraph(t *testing.T) *graph.Graph {
	t.Helper()

	adj := [][]graph.Edge{
		{{To: 1, Length: 2.5, Geometry: []geom.Point{{}, {X: 2.5}}}},
		{{To: 2, Length: 1, Geometry: []geom.Point{{X: 2.5}, {X: 3.5}}}},
		nil,
	}
	g := graph.New(adj)
	require.True(t, g.Valid())
	return g
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(testGraph(t), Options{})

	require.True(t, strings.HasPrefix(dot, "digraph curvenet {"))
	require.True(t, strings.HasSuffix(dot, "}\n"))
	for _, want := range []string{"n0;", "n1;", "n2;", "n0 -> n1;", "n1 -> n2;"} {
		require.Contains(t, dot, want)
	}
	require.NotContains(t, dot, "label=")
}

func TestToDOTWithEdgeLengths(t *testing.T) {
	dot := ToDOT(testGraph(t), Options{EdgeLengths: true})

	require.Contains(t, dot, `n0 -> n1 [label="2.50"];`)
	require.Contains(t, dot, `n1 -> n2 [label="1.00"];`)
}

func TestToDOTEmptyGraph(t *testing.T) {
	dot := ToDOT(graph.New(nil), Options{})
	require.Contains(t, dot, "digraph curvenet")
	require.NotContains(t, dot, "->")
}

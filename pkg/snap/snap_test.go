package snap

import (
	"testing"

	"github.com/stretchr/testify/require"

	"curvenet/pkg/geom"
	"curvenet/pkg/graph"
)

// hGraph builds a bidirectional "H": two vertical bars joined by a rung.
//
//	0(0,0)--1(0,10)    2(10,0)--3(10,10)    1--3 rung
func hGraph(t *testing.T) *graph.Graph {
	t.Helper()

	seg := func(a, b geom.Point) graph.Segment {
		return graph.Segment{Points: []geom.Point{a, b}}
	}
	g, _ := graph.Build([]graph.Segment{
		seg(geom.Point{}, geom.Point{Y: 10}),
		seg(geom.Point{X: 10}, geom.Point{X: 10, Y: 10}),
		seg(geom.Point{Y: 10}, geom.Point{X: 10, Y: 10}),
	}, graph.BuildOptions{Bidirectional: true, Precision: 3})
	require.True(t, g.Valid())
	return g
}

func TestSnapToNearestEdge(t *testing.T) {
	s := New(hGraph(t), 100)

	// Just right of the left bar's midpoint.
	r, err := s.Snap(geom.Point{X: 1, Y: 5})
	require.NoError(t, err)
	require.InDelta(t, 1.0, r.Dist, 1e-9)
	require.InDelta(t, 0.0, r.Point.X, 1e-9)
	require.InDelta(t, 5.0, r.Point.Y, 1e-9)
	require.InDelta(t, 0.5, r.Ratio, 1e-9)
}

func TestSnapTooFar(t *testing.T) {
	s := New(hGraph(t), 2)

	_, err := s.Snap(geom.Point{X: 50, Y: 50})
	require.ErrorIs(t, err, ErrTooFar)
}

func TestNearestNode(t *testing.T) {
	g := hGraph(t)
	s := New(g, 100)

	// Near the bottom of the left bar: the node at (0,0).
	n, err := s.NearestNode(geom.Point{X: 0.5, Y: 1})
	require.NoError(t, err)
	p, ok := g.NodePosition(n)
	require.True(t, ok)
	require.Equal(t, geom.Point{}, p)

	// Near the top of the right bar.
	n, err = s.NearestNode(geom.Point{X: 9.5, Y: 9})
	require.NoError(t, err)
	p, ok = g.NodePosition(n)
	require.True(t, ok)
	require.Equal(t, geom.Point{X: 10, Y: 10}, p)
}

func TestSnapPolylineGeometry(t *testing.T) {
	// Single edge with an L-shaped path; the snap must find the interior
	// bend, not the chord.
	pts := []geom.Point{{}, {X: 10}, {X: 10, Y: 10}}
	adj := [][]graph.Edge{
		{{To: 1, Length: geom.Length(pts), Geometry: pts}},
		nil,
	}
	g := graph.New(adj)
	s := New(g, 100)

	r, err := s.Snap(geom.Point{X: 9, Y: 2})
	require.NoError(t, err)
	require.InDelta(t, 1.0, r.Dist, 1e-9)
	require.InDelta(t, 10.0, r.Point.X, 1e-9)
	require.InDelta(t, 2.0, r.Point.Y, 1e-9)
	// 12 of 20 units along the path.
	require.InDelta(t, 0.6, r.Ratio, 1e-9)
}

func TestSnapDefaultRadius(t *testing.T) {
	s := New(hGraph(t), 0)
	require.Equal(t, DefaultMaxDist, s.maxDist)
}

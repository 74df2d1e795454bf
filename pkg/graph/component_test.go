package graph

import (
	"testing"

	"curvenet/pkg/geom"
)

// triangle appends a directed triangle over nodes a, b, c to adj.
func triangle(adj [][]Edge, a, b, c int) {
	p := func(i int) geom.Point { return geom.Point{X: float64(i)} }
	adj[a] = append(adj[a], Edge{To: b, Length: 1, Geometry: line(p(a), p(b))})
	adj[b] = append(adj[b], Edge{To: c, Length: 1, Geometry: line(p(b), p(c))})
	adj[c] = append(adj[c], Edge{To: a, Length: 1, Geometry: line(p(c), p(a))})
}

func TestComponentsTwoTriangles(t *testing.T) {
	adj := make([][]Edge, 6)
	triangle(adj, 0, 1, 2)
	triangle(adj, 3, 4, 5)
	g := New(adj)

	comps := Components(g)
	if len(comps) != 2 {
		t.Fatalf("got %d components, want 2", len(comps))
	}
	if len(comps[0]) != 3 || len(comps[1]) != 3 {
		t.Errorf("component sizes = %d, %d; want 3, 3", len(comps[0]), len(comps[1]))
	}
	// Discovery order: increasing minimal node index.
	if comps[0][0] != 0 || comps[1][0] != 3 {
		t.Errorf("components discovered out of order: %v", comps)
	}
}

func TestComponentsFollowIncomingEdges(t *testing.T) {
	// 0 -> 1 and 2 -> 1: weak connectivity must reach 2 from 0 through the
	// incoming side of node 1.
	adj := [][]Edge{
		{{To: 1, Length: 1, Geometry: line(geom.Point{}, geom.Point{X: 1})}},
		nil,
		{{To: 1, Length: 1, Geometry: line(geom.Point{X: 2}, geom.Point{X: 1})}},
	}
	g := New(adj)

	comps := Components(g)
	if len(comps) != 1 {
		t.Fatalf("got %d components, want 1: %v", len(comps), comps)
	}
	if len(comps[0]) != 3 {
		t.Errorf("component = %v, want all 3 nodes", comps[0])
	}
}

func TestComponentsIsolatedNodes(t *testing.T) {
	g := New(make([][]Edge, 3))

	comps := Components(g)
	if len(comps) != 3 {
		t.Fatalf("got %d components, want 3 singletons", len(comps))
	}
	for i, c := range comps {
		if len(c) != 1 || c[0] != i {
			t.Errorf("component %d = %v, want [%d]", i, c, i)
		}
	}
}

func TestComponentsEmptyGraph(t *testing.T) {
	if comps := Components(New(nil)); comps != nil {
		t.Errorf("Components(empty) = %v, want nil", comps)
	}
}

func TestSplitTwoTriangles(t *testing.T) {
	adj := make([][]Edge, 6)
	triangle(adj, 0, 1, 2)
	triangle(adj, 3, 4, 5)
	g := New(adj)

	parts := Split(g)
	if len(parts) != 2 {
		t.Fatalf("got %d graphs, want 2", len(parts))
	}

	for i, p := range parts {
		if !p.Valid() {
			t.Fatalf("part %d invalid: %s", i, p.Reason())
		}
		if p.NumNodes() != 3 {
			t.Errorf("part %d: NumNodes = %d, want 3", i, p.NumNodes())
		}
		if p.NumEdges() != 3 {
			t.Errorf("part %d: NumEdges = %d, want 3", i, p.NumEdges())
		}
		// Remapped indices must be dense within the part.
		for u := 0; u < p.NumNodes(); u++ {
			for _, e := range p.OutEdges(u) {
				if !p.InRange(e.To) {
					t.Errorf("part %d: edge %d->%d out of range", i, u, e.To)
				}
			}
		}
	}
}

func TestSplitPreservesGeometryAndLength(t *testing.T) {
	a := geom.Point{X: 10}
	b := geom.Point{X: 13, Y: 4}
	adj := [][]Edge{
		{{To: 1, Length: 5, Geometry: []geom.Point{a, {X: 11}, b}}},
		nil,
	}
	g := New(adj)

	parts := Split(g)
	if len(parts) != 1 {
		t.Fatalf("got %d parts, want 1", len(parts))
	}
	e := parts[0].OutEdges(0)[0]
	if e.Length != 5 {
		t.Errorf("Length = %f, want 5", e.Length)
	}
	if len(e.Geometry) != 3 || e.Geometry[0] != a || e.Geometry[2] != b {
		t.Errorf("Geometry = %v", e.Geometry)
	}
}

// Package graph implements the directed, weighted spatial graph at the heart
// of curvenet: construction from raw line geometry, weakly connected
// component analysis, chain-collapsing simplification, component splitting
// and a keyed binary persistence format.
//
// A Graph is immutable once constructed. Every transformation in this package
// returns a new Graph, so independent operations on separate instances are
// safe to run concurrently without synchronization.
package graph

import (
	"fmt"

	"curvenet/pkg/geom"
)

// Edge is a directed edge to node To with a non-negative Length and the
// geometry tracing the physical path from the implicit source node to To.
//
// Edge identity is (To, Length) only: geometry does not participate in
// equality, so two parallel edges to the same destination with equal length
// but different paths collapse into one inside a node's edge set. That
// matches the persisted format this engine has to round-trip; do not "fix"
// it here without changing the format.
type Edge struct {
	To       int
	Length   float64
	Geometry []geom.Point
}

// edgeKey is the identity under which edges are deduplicated per node.
type edgeKey struct {
	to     int
	length float64
}

// Graph is an adjacency-list directed graph. Node i's outgoing edges are
// adj[i]; node indices are dense in [0, NumNodes). An undirected connection
// is represented as two opposite directed edges.
//
// A Graph carries a validity flag: malformed external input (out-of-range
// edge targets, negative lengths, missing geometry) produces a Graph in the
// invalid state rather than a partially populated one. Callers must check
// Valid before using a Graph obtained from untrusted data.
type Graph struct {
	adj    [][]Edge
	reason string // non-empty means invalid
}

// New constructs a Graph from per-node outgoing edge lists, validating the
// data-model invariants and deduplicating each node's edges by (To, Length).
// Violations yield an invalid Graph whose Reason explains the first problem
// found.
func New(adj [][]Edge) *Graph {
	n := len(adj)
	out := make([][]Edge, n)

	for u, edges := range adj {
		if len(edges) == 0 {
			continue
		}
		seen := make(map[edgeKey]struct{}, len(edges))
		kept := make([]Edge, 0, len(edges))
		for _, e := range edges {
			if e.To < 0 || e.To >= n {
				return Invalid(fmt.Sprintf("edge %d->%d: target outside [0,%d)", u, e.To, n))
			}
			if e.Length < 0 {
				return Invalid(fmt.Sprintf("edge %d->%d: negative length %g", u, e.To, e.Length))
			}
			if len(e.Geometry) == 0 {
				return Invalid(fmt.Sprintf("edge %d->%d: missing geometry", u, e.To))
			}
			k := edgeKey{to: e.To, length: e.Length}
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			kept = append(kept, e)
		}
		out[u] = kept
	}

	return &Graph{adj: out}
}

// Invalid returns a Graph in the invalid state with the given reason.
func Invalid(reason string) *Graph {
	if reason == "" {
		reason = "invalid graph"
	}
	return &Graph{reason: reason}
}

// Valid reports whether the graph was constructed successfully.
func (g *Graph) Valid() bool { return g.reason == "" }

// Reason returns the human-readable invalidity reason, or "" for a valid graph.
func (g *Graph) Reason() string { return g.reason }

// NumNodes returns the node count.
func (g *Graph) NumNodes() int { return len(g.adj) }

// NumEdges returns the total directed edge count.
func (g *Graph) NumEdges() int {
	total := 0
	for _, edges := range g.adj {
		total += len(edges)
	}
	return total
}

// OutEdges returns node u's outgoing edges. The returned slice is owned by
// the Graph and must not be modified.
func (g *Graph) OutEdges(u int) []Edge {
	return g.adj[u]
}

// InRange reports whether u is a valid node index.
func (g *Graph) InRange(u int) bool {
	return u >= 0 && u < len(g.adj)
}

// NodePosition derives node u's spatial position from adjacent edge
// geometry: the first point of an outgoing edge if one exists, otherwise the
// last point of an incoming edge. The graph stores no positions of its own,
// so after simplification edge geometry is the sole source of spatial truth.
// Returns false for nodes with no edges at all.
func (g *Graph) NodePosition(u int) (geom.Point, bool) {
	if !g.InRange(u) {
		return geom.Point{}, false
	}
	if edges := g.adj[u]; len(edges) > 0 {
		return edges[0].Geometry[0], true
	}
	// Sink node: scan for an incoming edge.
	for _, edges := range g.adj {
		for _, e := range edges {
			if e.To == u {
				return e.Geometry[len(e.Geometry)-1], true
			}
		}
	}
	return geom.Point{}, false
}

// reverseIndex returns, for every node, the list of source nodes with an
// edge into it. Shared building block for component analysis and degree
// classification.
func (g *Graph) reverseIndex() [][]int {
	in := make([][]int, len(g.adj))
	for u, edges := range g.adj {
		for _, e := range edges {
			in[e.To] = append(in[e.To], u)
		}
	}
	return in
}

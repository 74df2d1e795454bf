package graph

import (
	"github.com/charmbracelet/log"

	"curvenet/pkg/geom"
)

// noNode marks a waypoint in the junction index remap.
const noNode = -1

// maxChainLength bounds a single chain trace. Chains longer than this are
// treated as malformed and dropped, like cyclic chains.
const maxChainLength = 1_000_000

// SimplifyStats reports the size reduction achieved by Simplify.
type SimplifyStats struct {
	OrigNodes, OrigEdges int
	NewNodes, NewEdges   int
	DroppedChains        int // chain traces aborted on a cycle or dead end
}

// Ratio returns the edge reduction ratio, or 0 for an empty input graph.
func (s SimplifyStats) Ratio() float64 {
	if s.OrigEdges == 0 {
		return 0
	}
	return float64(s.NewEdges) / float64(s.OrigEdges)
}

// Simplify collapses maximal chains of degree-2 "waypoint" nodes between
// decision "junction" nodes into single merged edges, preserving total length
// and concatenated path geometry. Shrinking the node and edge count this way
// is what keeps pathfinding tractable on large curve networks.
//
// A node is a junction when its unique-neighbor count (over outgoing and
// incoming edges, self-loops excluded) is not exactly 2, or when it is an
// asymmetric start fork (no incoming edges, several outgoing) or sink merge
// (no outgoing edges, several incoming). Everything else is a waypoint and
// disappears from the output.
//
// Malformed chains (a cycle or dead end where a degree-2 chain was expected)
// are a data-quality issue, not a fatal error: the offending merged edge is
// dropped, a diagnostic is logged, and the trace count is reported in the
// stats.
func Simplify(g *Graph) (*Graph, SimplifyStats) {
	stats := SimplifyStats{
		OrigNodes: g.NumNodes(),
		OrigEdges: g.NumEdges(),
	}

	if !g.Valid() {
		return Invalid(g.Reason()), stats
	}

	n := g.NumNodes()
	in := g.reverseIndex()

	// Degree classification.
	isJunction := make([]bool, n)
	for u := 0; u < n; u++ {
		isJunction[u] = classifyJunction(g, in, u)
	}

	// Junctions get new sequential indices; waypoints map to the sentinel.
	remap := make([]int, n)
	newCount := 0
	for u := 0; u < n; u++ {
		if isJunction[u] {
			remap[u] = newCount
			newCount++
		} else {
			remap[u] = noNode
		}
	}

	adj := make([][]Edge, newCount)

	for u := 0; u < n; u++ {
		if !isJunction[u] {
			continue
		}
		for _, e := range g.OutEdges(u) {
			merged, ok := traceChain(g, isJunction, u, e)
			if !ok {
				stats.DroppedChains++
				continue
			}
			adj[remap[u]] = append(adj[remap[u]], Edge{
				To:       remap[merged.end],
				Length:   merged.length,
				Geometry: merged.geometry,
			})
		}
	}

	out := New(adj)
	stats.NewNodes = out.NumNodes()
	stats.NewEdges = out.NumEdges()
	return out, stats
}

// classifyJunction implements the degree rules: junction when the unique
// neighbor count is 0, 1 or >= 3, or when the node is a start fork or sink
// merge despite having exactly 2 unique neighbors.
func classifyJunction(g *Graph, in [][]int, u int) bool {
	neighbors := make(map[int]struct{})
	for _, e := range g.OutEdges(u) {
		if e.To != u {
			neighbors[e.To] = struct{}{}
		}
	}
	for _, v := range in[u] {
		if v != u {
			neighbors[v] = struct{}{}
		}
	}

	if len(neighbors) != 2 {
		return true
	}

	outDeg := len(g.OutEdges(u))
	inDeg := len(in[u])
	if inDeg == 0 && outDeg > 1 {
		return true // start fork
	}
	if outDeg == 0 && inDeg > 1 {
		return true // sink merge
	}
	return false
}

// chainResult is one merged junction-to-junction edge.
type chainResult struct {
	end      int
	length   float64
	geometry []geom.Point
}

// traceChain walks forward from junction start along edge first, advancing
// through consecutive waypoints until another junction is reached. At every
// waypoint the forward edge is the one that does not return to the node just
// visited; on a bidirectional chain each intermediate node has exactly two
// edges, one back and one forward, so tracking the previous node is what
// keeps the walk from bouncing.
//
// Returns ok=false when the walk revisits a waypoint or finds no forward
// edge; the caller drops the candidate edge.
func traceChain(g *Graph, isJunction []bool, start int, first Edge) (chainResult, bool) {
	if isJunction[first.To] {
		// Direct junction-to-junction edge: carried over unchanged.
		return chainResult{end: first.To, length: first.Length, geometry: first.Geometry}, true
	}

	length := first.Length
	geometry := make([]geom.Point, len(first.Geometry))
	copy(geometry, first.Geometry)

	prev := start
	cur := first.To
	visited := map[int]struct{}{start: {}, cur: {}}

	for steps := 0; ; steps++ {
		if steps > maxChainLength {
			log.Warn("chain trace exceeded length bound, dropping edge",
				"start", start, "at", cur)
			return chainResult{}, false
		}

		next, ok := forwardEdge(g, cur, prev)
		if !ok {
			log.Warn("dead end inside degree-2 chain, dropping edge",
				"start", start, "at", cur)
			return chainResult{}, false
		}

		length += next.Length
		geometry = appendPath(geometry, next.Geometry)

		if isJunction[next.To] {
			return chainResult{end: next.To, length: length, geometry: geometry}, true
		}

		if _, seen := visited[next.To]; seen {
			log.Warn("cycle inside degree-2 chain, dropping edge",
				"start", start, "at", next.To)
			return chainResult{}, false
		}
		visited[next.To] = struct{}{}

		prev = cur
		cur = next.To
	}
}

// forwardEdge picks the outgoing edge of waypoint u that does not lead back
// to prev.
func forwardEdge(g *Graph, u, prev int) (Edge, bool) {
	for _, e := range g.OutEdges(u) {
		if e.To != prev {
			return e, true
		}
	}
	return Edge{}, false
}

// appendPath concatenates the next edge's geometry onto acc, skipping next's
// first point when it repeats the current path end.
func appendPath(acc, next []geom.Point) []geom.Point {
	if len(next) > 0 && len(acc) > 0 && acc[len(acc)-1] == next[0] {
		next = next[1:]
	}
	return append(acc, next...)
}

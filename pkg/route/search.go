// Package route implements single-source single-target shortest-path search
// over a curvenet graph: Dijkstra and A* share one loop, differing only in
// the priority formula and the strategy used to skip already settled nodes.
package route

import (
	"errors"
	"fmt"
	"math"

	"curvenet/pkg/geom"
	"curvenet/pkg/graph"
)

// Algorithm selects the search variant.
type Algorithm int

const (
	// Dijkstra orders the queue by accumulated distance and discards stale
	// queue entries on pop.
	Dijkstra Algorithm = iota
	// AStar orders the queue by accumulated distance plus a straight-line
	// heuristic and skips nodes already finalized. The heuristic is
	// admissible whenever edge lengths are at least the straight-line
	// distance between their endpoints, which holds for path geometry.
	AStar
)

func (a Algorithm) String() string {
	switch a {
	case Dijkstra:
		return "dijkstra"
	case AStar:
		return "astar"
	default:
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
}

var (
	// ErrUnreachable is returned when no path exists between start and end.
	// A normal outcome for disconnected graphs, reported distinctly from
	// validation errors.
	ErrUnreachable = errors.New("no path between start and end")
	// ErrInvalidNode is returned for an out-of-range start or end index.
	ErrInvalidNode = errors.New("node index out of range")
	// ErrBadGraph is returned when the input graph is in the invalid state.
	ErrBadGraph = errors.New("graph is invalid")
)

// Options adjust search behavior.
type Options struct {
	// TrackVisited records every edge examined during relaxation, for
	// visualization and debugging. It never affects the computed path.
	TrackVisited bool
}

// VisitedEdge is one edge examined during relaxation.
type VisitedEdge struct {
	From, To int
}

// Route is a computed shortest path.
type Route struct {
	Nodes    []int        // start..end node indices
	Length   float64      // total path length
	Geometry []geom.Point // concatenated edge geometry along the path
	Visited  []VisitedEdge
}

// ShortestPath finds the shortest path from start to end using the selected
// algorithm. Out-of-range indices and invalid graphs are reported as errors;
// an exhausted queue reports ErrUnreachable. start == end yields a
// zero-length route containing just that node.
func ShortestPath(g *graph.Graph, start, end int, algo Algorithm, opts ...Options) (*Route, error) {
	var opt Options
	if len(opts) > 0 {
		opt = opts[0]
	}

	if !g.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrBadGraph, g.Reason())
	}
	if !g.InRange(start) {
		return nil, fmt.Errorf("%w: start %d not in [0,%d)", ErrInvalidNode, start, g.NumNodes())
	}
	if !g.InRange(end) {
		return nil, fmt.Errorf("%w: end %d not in [0,%d)", ErrInvalidNode, end, g.NumNodes())
	}

	if start == end {
		return &Route{Nodes: []int{start}}, nil
	}

	s := newSearchState(g, start, end, algo)

	for s.pq.Len() > 0 {
		item := s.pq.Pop()
		u := item.Node

		switch algo {
		case AStar:
			// Finalized-set dedup: the first pop of a node is its best.
			if s.done[u] {
				continue
			}
			s.done[u] = true
		default:
			// Stale-entry dedup: the same node may sit in the queue several
			// times with different priorities; only the most recent entry is
			// authoritative.
			if item.Dist > s.dist[u] {
				continue
			}
		}

		if u == end {
			return s.reconstruct(opt)
		}

		for k, e := range g.OutEdges(u) {
			if opt.TrackVisited {
				s.visited = append(s.visited, VisitedEdge{From: u, To: e.To})
			}
			nd := item.Dist + e.Length
			if nd < s.dist[e.To] {
				s.dist[e.To] = nd
				s.prevNode[e.To] = u
				s.prevEdge[e.To] = k
				s.pq.Push(e.To, nd+s.heuristic(e), nd)
			}
		}
	}

	return nil, fmt.Errorf("%w: %d -> %d", ErrUnreachable, start, end)
}

// searchState is the per-invocation working state. Nothing escapes or is
// shared across calls.
type searchState struct {
	g          *graph.Graph
	start, end int
	algo       Algorithm

	dist     []float64
	prevNode []int
	prevEdge []int
	done     []bool // A* only
	pq       minHeap
	visited  []VisitedEdge

	hCache    []float64 // lazily filled straight-line estimates, NaN = unset
	endPos    geom.Point
	endPosSet bool
}

func newSearchState(g *graph.Graph, start, end int, algo Algorithm) *searchState {
	n := g.NumNodes()
	s := &searchState{
		g:     g,
		start: start,
		end:   end,
		algo:  algo,
	}

	s.dist = make([]float64, n)
	s.prevNode = make([]int, n)
	s.prevEdge = make([]int, n)
	for i := range s.dist {
		s.dist[i] = math.Inf(1)
		s.prevNode[i] = -1
		s.prevEdge[i] = -1
	}
	s.dist[start] = 0

	if algo == AStar {
		s.done = make([]bool, n)
		s.hCache = make([]float64, n)
		for i := range s.hCache {
			s.hCache[i] = math.NaN()
		}
		s.endPos, s.endPosSet = g.NodePosition(end)
	}

	// Seed with the start node. Its heuristic only orders the first pop, so
	// zero is fine.
	s.pq.Push(start, 0, 0)
	return s
}

// heuristic returns the straight-line estimate from the destination of edge
// e to the target, cached on first use per node. The destination's position
// is the edge geometry's last point, so no node-to-position lookup is
// needed during relaxation. Dijkstra and searches with no resolvable target
// position use 0, degrading to plain distance ordering.
func (s *searchState) heuristic(e graph.Edge) float64 {
	if s.algo != AStar || !s.endPosSet {
		return 0
	}
	if h := s.hCache[e.To]; !math.IsNaN(h) {
		return h
	}
	h := e.Geometry[len(e.Geometry)-1].DistanceTo(s.endPos)
	s.hCache[e.To] = h
	return h
}

// reconstruct walks the predecessor chain backwards from end, reverses it,
// and concatenates the stored geometry of each traversed edge.
func (s *searchState) reconstruct(opt Options) (*Route, error) {
	var nodes []int
	for u := s.end; u != -1; u = s.prevNode[u] {
		nodes = append(nodes, u)
	}
	for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
		nodes[i], nodes[j] = nodes[j], nodes[i]
	}

	var geometry []geom.Point
	for i := 1; i < len(nodes); i++ {
		v := nodes[i]
		e := s.g.OutEdges(nodes[i-1])[s.prevEdge[v]]
		pts := e.Geometry
		if len(geometry) > 0 && len(pts) > 0 && geometry[len(geometry)-1] == pts[0] {
			pts = pts[1:]
		}
		geometry = append(geometry, pts...)
	}

	r := &Route{
		Nodes:    nodes,
		Length:   s.dist[s.end],
		Geometry: geometry,
	}
	if opt.TrackVisited {
		r.Visited = s.visited
	}
	return r, nil
}

package graph

import (
	"curvenet/pkg/geom"
)

// Segment is one independent input curve: an ordered point path from its
// first point to its last. Segments with fewer than two points are treated
// as degenerate.
type Segment struct {
	Points []geom.Point
}

// Start returns the first point of the segment.
func (s Segment) Start() geom.Point { return s.Points[0] }

// End returns the last point of the segment.
func (s Segment) End() geom.Point { return s.Points[len(s.Points)-1] }

// BuildOptions configures graph construction.
type BuildOptions struct {
	// Bidirectional adds the opposite edge with reversed geometry for every
	// segment, so an undirected connection becomes two directed edges.
	Bidirectional bool
	// Precision is the number of decimal places endpoints are rounded to
	// before deduplication into nodes. It controls how close two segment
	// ends must be to fuse into one node and is a required input, not a
	// hidden default.
	Precision int
}

// BuildStats reports non-fatal observations from a build.
type BuildStats struct {
	SkippedSegments int // degenerate segments whose endpoints fused into one node
	OrphanNodes     int // nodes left with no outgoing edges
}

// Build converts independent line/curve segments into a Graph, deduplicating
// rounded endpoints into dense node indices. Degenerate (zero-length after
// rounding) segments are skipped and counted; exact duplicate edges collapse
// under the (To, Length) identity. A negative precision yields an invalid
// Graph.
func Build(segments []Segment, opts BuildOptions) (*Graph, BuildStats) {
	var stats BuildStats

	if opts.Precision < 0 {
		return Invalid("precision must be >= 0"), stats
	}

	// Pass 1: assign a dense index to every distinct rounded endpoint.
	nodeIdx := make(map[geom.Point]int)
	addNode := func(p geom.Point) int {
		if idx, ok := nodeIdx[p]; ok {
			return idx
		}
		idx := len(nodeIdx)
		nodeIdx[p] = idx
		return idx
	}

	type rawEdge struct {
		from, to int
		seg      Segment
	}
	raw := make([]rawEdge, 0, len(segments))

	for _, s := range segments {
		if len(s.Points) < 2 {
			stats.SkippedSegments++
			continue
		}
		a := addNode(s.Start().Round(opts.Precision))
		b := addNode(s.End().Round(opts.Precision))
		if a == b {
			// Both endpoints rounded into the same node.
			stats.SkippedSegments++
			continue
		}
		raw = append(raw, rawEdge{from: a, to: b, seg: s})
	}

	adj := make([][]Edge, len(nodeIdx))
	for _, r := range raw {
		length := geom.Length(r.seg.Points)
		adj[r.from] = append(adj[r.from], Edge{
			To:       r.to,
			Length:   length,
			Geometry: r.seg.Points,
		})
		if opts.Bidirectional {
			adj[r.to] = append(adj[r.to], Edge{
				To:       r.from,
				Length:   length,
				Geometry: geom.Reverse(r.seg.Points),
			})
		}
	}

	for _, edges := range adj {
		if len(edges) == 0 {
			stats.OrphanNodes++
		}
	}

	return New(adj), stats
}

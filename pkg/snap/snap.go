// Package snap finds the graph edge or node nearest to an arbitrary model
// space point. The host design tool uses it to turn a picked point into a
// start or end node for routing.
package snap

import (
	"errors"
	"math"

	"github.com/tidwall/rtree"

	"curvenet/pkg/geom"
	"curvenet/pkg/graph"
)

// DefaultMaxDist is the default snap radius in model units.
const DefaultMaxDist = 500.0

// ErrTooFar is returned when the query point is farther than the snap
// radius from every edge.
var ErrTooFar = errors.New("point too far from any edge")

// Result is a point snapped onto an edge.
type Result struct {
	From, To  int        // edge endpoints
	EdgeIndex int        // index of the edge in From's outgoing list
	Dist      float64    // distance from the query point to the snapped point
	Point     geom.Point // the snapped point on the edge geometry
	Ratio     float64    // 0 = at From, 1 = at To, by arc length
}

// edgeRef identifies one directed edge by source node and list position.
type edgeRef struct {
	node, k int
}

// Snapper is an R-tree index over a graph's edge geometry, in the XY plane.
// Build once per graph; queries are read-only and safe to run concurrently.
type Snapper struct {
	tr      rtree.RTreeG[edgeRef]
	g       *graph.Graph
	maxDist float64
}

// New indexes the graph's edges. maxDist is the snap radius; pass 0 for
// DefaultMaxDist.
func New(g *graph.Graph, maxDist float64) *Snapper {
	if maxDist <= 0 {
		maxDist = DefaultMaxDist
	}
	s := &Snapper{g: g, maxDist: maxDist}

	for u := 0; u < g.NumNodes(); u++ {
		for k, e := range g.OutEdges(u) {
			min, max := bounds(e.Geometry)
			s.tr.Insert(min, max, edgeRef{node: u, k: k})
		}
	}
	return s
}

// bounds returns the XY bounding box of a polyline.
func bounds(pts []geom.Point) (min, max [2]float64) {
	min = [2]float64{math.Inf(1), math.Inf(1)}
	max = [2]float64{math.Inf(-1), math.Inf(-1)}
	for _, p := range pts {
		min[0] = math.Min(min[0], p.X)
		min[1] = math.Min(min[1], p.Y)
		max[0] = math.Max(max[0], p.X)
		max[1] = math.Max(max[1], p.Y)
	}
	return min, max
}

// Snap returns the edge nearest to p within the snap radius.
func (s *Snapper) Snap(p geom.Point) (Result, error) {
	best := Result{Dist: math.Inf(1)}

	qmin := [2]float64{p.X - s.maxDist, p.Y - s.maxDist}
	qmax := [2]float64{p.X + s.maxDist, p.Y + s.maxDist}

	s.tr.Search(qmin, qmax, func(_, _ [2]float64, ref edgeRef) bool {
		e := s.g.OutEdges(ref.node)[ref.k]
		dist, pt, ratio := nearestOnPolyline(p, e.Geometry)
		if dist < best.Dist {
			best = Result{
				From:      ref.node,
				To:        e.To,
				EdgeIndex: ref.k,
				Dist:      dist,
				Point:     pt,
				Ratio:     ratio,
			}
		}
		return true
	})

	if best.Dist > s.maxDist {
		return Result{}, ErrTooFar
	}
	return best, nil
}

// NearestNode returns the graph node nearest to p: the closer endpoint of
// the snapped edge.
func (s *Snapper) NearestNode(p geom.Point) (int, error) {
	r, err := s.Snap(p)
	if err != nil {
		return 0, err
	}
	if r.Ratio <= 0.5 {
		return r.From, nil
	}
	return r.To, nil
}

// nearestOnPolyline finds the closest point to p over every sub-segment of
// the polyline, returning its distance, location, and arc-length ratio.
func nearestOnPolyline(p geom.Point, pts []geom.Point) (dist float64, closest geom.Point, ratio float64) {
	dist = math.Inf(1)
	total := geom.Length(pts)

	var walked float64
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		segLen := a.DistanceTo(b)

		d, t := geom.PointToSegment(p, a, b)
		if d < dist {
			dist = d
			closest = geom.Point{
				X: a.X + t*(b.X-a.X),
				Y: a.Y + t*(b.Y-a.Y),
				Z: a.Z + t*(b.Z-a.Z),
			}
			if total > 0 {
				ratio = (walked + t*segLen) / total
			}
		}
		walked += segLen
	}

	if len(pts) == 1 {
		// Degenerate single-point geometry.
		dist = p.DistanceTo(pts[0])
		closest = pts[0]
	}
	return dist, closest, ratio
}

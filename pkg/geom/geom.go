// Package geom provides the planar 3D primitives the graph engine is built
// on: points, polylines and point-to-segment projection. Coordinates live in
// the host design tool's model space, so distances are plain Euclidean.
package geom

import "math"

// Point is a location in model space.
type Point struct {
	X, Y, Z float64
}

// DistanceTo returns the Euclidean distance between p and q.
func (p Point) DistanceTo(q Point) float64 {
	dx := q.X - p.X
	dy := q.Y - p.Y
	dz := q.Z - p.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Length returns the total length of the polyline pts, i.e. the sum of the
// distances between consecutive points. Polylines with fewer than two points
// have length 0.
func Length(pts []Point) float64 {
	var total float64
	for i := 1; i < len(pts); i++ {
		total += pts[i-1].DistanceTo(pts[i])
	}
	return total
}

// Reverse returns a new polyline with the points of pts in reverse order.
func Reverse(pts []Point) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}

// Round returns p with each coordinate rounded to the given number of
// decimal places. Used for endpoint deduplication when building graphs.
func (p Point) Round(decimals int) Point {
	scale := math.Pow(10, float64(decimals))
	return Point{
		X: math.Round(p.X*scale) / scale,
		Y: math.Round(p.Y*scale) / scale,
		Z: math.Round(p.Z*scale) / scale,
	}
}

// PointToSegment computes the distance from point p to segment ab and the
// projection ratio along ab, clamped to [0,1]. A degenerate segment (a == b)
// yields ratio 0.
func PointToSegment(p, a, b Point) (dist, ratio float64) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	dz := b.Z - a.Z
	lenSq := dx*dx + dy*dy + dz*dz

	var t float64
	if lenSq > 0 {
		t = ((p.X-a.X)*dx + (p.Y-a.Y)*dy + (p.Z-a.Z)*dz) / lenSq
		if t < 0 {
			t = 0
		} else if t > 1 {
			t = 1
		}
	}

	closest := Point{X: a.X + t*dx, Y: a.Y + t*dy, Z: a.Z + t*dz}
	return p.DistanceTo(closest), t
}

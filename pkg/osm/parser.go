// Package osm imports OpenStreetMap extracts as curvenet build segments. It
// is a boundary adapter: geographic coordinates are projected into planar
// model space so the rest of the engine never sees latitude or longitude.
package osm

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"

	"curvenet/pkg/geom"
	"curvenet/pkg/graph"
)

// BBox is a geographic bounding box filter. The zero value disables
// filtering.
type BBox struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// IsZero reports whether the bbox is unset.
func (b BBox) IsZero() bool {
	return b == BBox{}
}

// Contains reports whether the point lies inside the box.
func (b BBox) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lng >= b.MinLng && lng <= b.MaxLng
}

// ImportOptions configures the importer.
type ImportOptions struct {
	BBox BBox // if non-zero, keep only segments with both endpoints inside
}

// ImportResult holds the segments extracted from an OSM extract, ready for
// graph.Build with Bidirectional=false: two-way roads are already emitted as
// two opposite directed segments.
type ImportResult struct {
	Segments []graph.Segment

	Ways         int     // drivable ways scanned
	MissingNodes int     // way node references without coordinates
	OutsideBBox  int     // segments dropped by the bbox filter
	OriginLat    float64 // projection origin
	OriginLng    float64
}

// metersPerDegree is the length of one degree of latitude.
const metersPerDegree = math.Pi / 180 * 6_371_000.0

// Import reads an OSM PBF extract and returns directed planar segments for
// drivable roads. The reader is consumed twice (ways, then node
// coordinates), so it must implement io.ReadSeeker.
func Import(ctx context.Context, rs io.ReadSeeker, opts ...ImportOptions) (*ImportResult, error) {
	var opt ImportOptions
	if len(opts) > 0 {
		opt = opts[0]
	}
	useBBox := !opt.BBox.IsZero()

	// Pass 1: collect drivable ways and the node IDs they reference.
	referenced := make(map[osm.NodeID]struct{})
	var ways []wayInfo

	scanner := osmpbf.New(ctx, rs, 1)
	scanner.SkipNodes = true
	scanner.SkipRelations = true

	for scanner.Scan() {
		w, ok := scanner.Object().(*osm.Way)
		if !ok || !drivable(w.Tags) || len(w.Nodes) < 2 {
			continue
		}

		fwd, bwd := wayDirections(w.Tags)
		if !fwd && !bwd {
			continue
		}

		ids := make([]osm.NodeID, len(w.Nodes))
		for i, wn := range w.Nodes {
			ids[i] = wn.ID
			referenced[wn.ID] = struct{}{}
		}
		ways = append(ways, wayInfo{NodeIDs: ids, Forward: fwd, Backward: bwd})
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("scan ways: %w", err)
	}
	scanner.Close()

	log.Info("way scan complete", "ways", len(ways), "referenced_nodes", len(referenced))

	// Pass 2: coordinates of referenced nodes only.
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek for node scan: %w", err)
	}

	coords := make(map[osm.NodeID]orb.Point, len(referenced))

	scanner = osmpbf.New(ctx, rs, 1)
	scanner.SkipWays = true
	scanner.SkipRelations = true

	for scanner.Scan() {
		n, ok := scanner.Object().(*osm.Node)
		if !ok {
			continue
		}
		if _, needed := referenced[n.ID]; !needed {
			continue
		}
		coords[n.ID] = orb.Point{n.Lon, n.Lat}
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("scan nodes: %w", err)
	}
	scanner.Close()

	log.Info("node scan complete", "coordinates", len(coords))

	result := &ImportResult{Ways: len(ways)}
	if len(coords) == 0 {
		return result, nil
	}

	// Projection origin: bbox center when filtering, otherwise the centroid
	// of the referenced nodes. Keeps planar coordinates small and the
	// equirectangular distortion negligible for extract-sized areas.
	if useBBox {
		result.OriginLat = (opt.BBox.MinLat + opt.BBox.MaxLat) / 2
		result.OriginLng = (opt.BBox.MinLng + opt.BBox.MaxLng) / 2
	} else {
		for _, p := range coords {
			result.OriginLng += p[0]
			result.OriginLat += p[1]
		}
		result.OriginLng /= float64(len(coords))
		result.OriginLat /= float64(len(coords))
	}
	proj := newProjection(result.OriginLat, result.OriginLng)

	// Emit one directed segment per consecutive node pair, per direction.
	for _, w := range ways {
		for i := 0; i < len(w.NodeIDs)-1; i++ {
			from, fromOk := coords[w.NodeIDs[i]]
			to, toOk := coords[w.NodeIDs[i+1]]
			if !fromOk || !toOk {
				result.MissingNodes++
				continue
			}
			if useBBox && (!opt.BBox.Contains(from[1], from[0]) || !opt.BBox.Contains(to[1], to[0])) {
				result.OutsideBBox++
				continue
			}

			a := proj.toPlanar(from)
			b := proj.toPlanar(to)
			if w.Forward {
				result.Segments = append(result.Segments, graph.Segment{Points: []geom.Point{a, b}})
			}
			if w.Backward {
				result.Segments = append(result.Segments, graph.Segment{Points: []geom.Point{b, a}})
			}
		}
	}

	if result.MissingNodes > 0 {
		log.Warn("segments dropped for missing node coordinates", "count", result.MissingNodes)
	}
	log.Info("import complete", "segments", len(result.Segments))

	return result, nil
}

// wayInfo is a drivable way kept from pass 1.
type wayInfo struct {
	NodeIDs  []osm.NodeID
	Forward  bool
	Backward bool
}

// drivable reports whether the way is part of the drivable road network.
func drivable(tags osm.Tags) bool {
	switch tags.Find("highway") {
	case "motorway", "motorway_link", "trunk", "trunk_link",
		"primary", "primary_link", "secondary", "secondary_link",
		"tertiary", "tertiary_link", "unclassified", "residential",
		"living_street", "service":
	default:
		return false
	}

	// Pedestrian plazas are mapped as area highways.
	if tags.Find("area") == "yes" {
		return false
	}

	switch tags.Find("access") {
	case "no", "private":
		return false
	}
	return tags.Find("motor_vehicle") != "no"
}

// wayDirections returns the travel directions allowed on the way.
func wayDirections(tags osm.Tags) (forward, backward bool) {
	forward, backward = true, true

	hw := tags.Find("highway")
	if hw == "motorway" || hw == "motorway_link" || tags.Find("junction") == "roundabout" {
		backward = false
	}

	switch tags.Find("oneway") {
	case "yes", "true", "1":
		forward, backward = true, false
	case "-1", "reverse":
		forward, backward = false, true
	case "no":
		forward, backward = true, true
	case "reversible":
		// Time-dependent direction; exclude entirely.
		forward, backward = false, false
	}
	return forward, backward
}

// projection maps geographic coordinates into planar meters around a
// reference origin using an equirectangular approximation, with scale checks
// delegated to orb's haversine distance for the axes.
type projection struct {
	origin  orb.Point
	mPerLng float64
	mPerLat float64
}

func newProjection(lat, lng float64) projection {
	origin := orb.Point{lng, lat}
	return projection{
		origin:  origin,
		mPerLng: geo.DistanceHaversine(origin, orb.Point{lng + 1, lat}),
		mPerLat: metersPerDegree,
	}
}

// toPlanar projects p into model space: x east, y north, z zero.
func (pr projection) toPlanar(p orb.Point) geom.Point {
	return geom.Point{
		X: (p[0] - pr.origin[0]) * pr.mPerLng,
		Y: (p[1] - pr.origin[1]) * pr.mPerLat,
	}
}

package api

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"mime"
	"net/http"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"curvenet/pkg/geom"
	"curvenet/pkg/graph"
	"curvenet/pkg/route"
	"curvenet/pkg/snap"
)

const maxRequestBody = 4096

// Planner resolves a shortest path between two model-space points.
type Planner interface {
	Plan(ctx context.Context, start, end geom.Point, algo route.Algorithm, trackVisited bool) (*route.Route, error)
}

// EnginePlanner snaps query points onto the graph and runs the search engine.
type EnginePlanner struct {
	Graph   *graph.Graph
	Snapper *snap.Snapper
}

// Plan implements Planner.
func (p *EnginePlanner) Plan(ctx context.Context, start, end geom.Point, algo route.Algorithm, trackVisited bool) (*route.Route, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	from, err := p.Snapper.NearestNode(start)
	if err != nil {
		return nil, err
	}
	to, err := p.Snapper.NearestNode(end)
	if err != nil {
		return nil, err
	}
	return route.ShortestPath(p.Graph, from, to, algo, route.Options{TrackVisited: trackVisited})
}

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	planner Planner
	g       *graph.Graph
}

// NewHandlers creates handlers backed by the given planner and graph.
func NewHandlers(planner Planner, g *graph.Graph) *Handlers {
	return &Handlers{planner: planner, g: g}
}

// HandleRoute handles POST /api/v1/route.
func (h *Handlers) HandleRoute(w http.ResponseWriter, r *http.Request) {
	// Enforce Content-Type.
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return
	}

	// Parse request.
	var req RouteRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return
	}

	// Validate coordinates.
	if err := validatePoint(req.Start); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_coordinates", "start")
		return
	}
	if err := validatePoint(req.End); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_coordinates", "end")
		return
	}

	algo, err := parseAlgorithm(req.Algorithm)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_algorithm", "algorithm")
		return
	}

	// Plan.
	result, err := h.planner.Plan(r.Context(),
		geom.Point{X: req.Start.X, Y: req.Start.Y, Z: req.Start.Z},
		geom.Point{X: req.End.X, Y: req.End.Y, Z: req.End.Z},
		algo, req.TrackVisited)
	if err != nil {
		if errors.Is(err, snap.ErrTooFar) {
			writeError(w, http.StatusUnprocessableEntity, "point_too_far_from_graph", "")
			return
		}
		if errors.Is(err, route.ErrUnreachable) {
			writeError(w, http.StatusNotFound, "no_route_found", "")
			return
		}
		if errors.Is(err, route.ErrInvalidNode) || errors.Is(err, route.ErrBadGraph) {
			writeError(w, http.StatusBadRequest, "invalid_request", "")
			return
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			writeError(w, http.StatusServiceUnavailable, "request_timeout", "")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "")
		return
	}

	// Build response.
	resp := RouteResponse{
		TotalLength: result.Length,
		Nodes:       result.Nodes,
		GeoJSON:     routeFeature(result),
	}
	resp.Geometry = make([]PointJSON, len(result.Geometry))
	for i, p := range result.Geometry {
		resp.Geometry[i] = PointJSON{X: p.X, Y: p.Y, Z: p.Z}
	}
	for _, v := range result.Visited {
		resp.VisitedEdges = append(resp.VisitedEdges, [2]int{v.From, v.To})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// HandleComponents handles GET /api/v1/components.
func (h *Handlers) HandleComponents(w http.ResponseWriter, r *http.Request) {
	comps := graph.Components(h.g)
	resp := ComponentsResponse{Count: len(comps), Sizes: make([]int, len(comps))}
	for i, c := range comps {
		resp.Sizes[i] = len(c)
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// HandleStats handles GET /api/v1/stats.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	resp := StatsResponse{
		NumNodes: h.g.NumNodes(),
		NumEdges: h.g.NumEdges(),
		Valid:    h.g.Valid(),
		Reason:   h.g.Reason(),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// HandleHealth handles GET /api/v1/health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(HealthResponse{Status: "ok"})
}

// routeFeature renders the route polyline as a GeoJSON feature using the
// model-space X/Y coordinates. Height is dropped.
func routeFeature(rt *route.Route) *geojson.Feature {
	if len(rt.Geometry) == 0 {
		return nil
	}
	ls := make(orb.LineString, len(rt.Geometry))
	for i, p := range rt.Geometry {
		ls[i] = orb.Point{p.X, p.Y}
	}
	f := geojson.NewFeature(ls)
	f.Properties["length"] = rt.Length
	return f
}

func parseAlgorithm(s string) (route.Algorithm, error) {
	switch s {
	case "", "dijkstra":
		return route.Dijkstra, nil
	case "astar":
		return route.AStar, nil
	default:
		return 0, errors.New("unknown algorithm")
	}
}

func validatePoint(p PointJSON) error {
	for _, v := range []float64{p.X, p.Y, p.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New("coordinates must be finite numbers")
		}
	}
	return nil
}

func writeError(w http.ResponseWriter, status int, code, field string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: code, Field: field})
}

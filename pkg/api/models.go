package api

import "github.com/paulmach/orb/geojson"

// PointJSON is a model-space point in JSON.
type PointJSON struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z,omitempty"`
}

// RouteRequest is the JSON body for POST /api/v1/route.
type RouteRequest struct {
	Start        PointJSON `json:"start"`
	End          PointJSON `json:"end"`
	Algorithm    string    `json:"algorithm,omitempty"` // "dijkstra" (default) or "astar"
	TrackVisited bool      `json:"track_visited,omitempty"`
}

// RouteResponse is the JSON response for a successful route query.
type RouteResponse struct {
	TotalLength  float64          `json:"total_length"`
	Nodes        []int            `json:"nodes"`
	Geometry     []PointJSON      `json:"geometry"`
	GeoJSON      *geojson.Feature `json:"geojson,omitempty"`
	VisitedEdges [][2]int         `json:"visited_edges,omitempty"`
}

// ComponentsResponse is the JSON response for GET /api/v1/components.
type ComponentsResponse struct {
	Count int   `json:"count"`
	Sizes []int `json:"sizes"`
}

// StatsResponse is the JSON response for GET /api/v1/stats.
type StatsResponse struct {
	NumNodes int    `json:"num_nodes"`
	NumEdges int    `json:"num_edges"`
	Valid    bool   `json:"valid"`
	Reason   string `json:"reason,omitempty"`
}

// ErrorResponse is the JSON response for errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// HealthResponse is the JSON response for GET /api/v1/health.
type HealthResponse struct {
	Status string `json:"status"`
}

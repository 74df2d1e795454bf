package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"curvenet/pkg/geom"
	"curvenet/pkg/graph"
	"curvenet/pkg/route"
	"curvenet/pkg/snap"
)

// mockPlanner implements Planner for testing.
type mockPlanner struct {
	result *route.Route
	err    error
}

func (m *mockPlanner) Plan(ctx context.Context, start, end geom.Point, algo route.Algorithm, trackVisited bool) (*route.Route, error) {
	return m.result, m.err
}

// pairGraph is a two node graph with one edge from 0 to 1.
func pairGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New([][]graph.Edge{
		{{To: 1, Length: 5, Geometry: []geom.Point{{X: 0, Y: 0}, {X: 5, Y: 0}}}},
		{},
	})
	if !g.Valid() {
		t.Fatalf("pair graph invalid: %s", g.Reason())
	}
	return g
}

func TestHandleRoute_Success(t *testing.T) {
	mock := &mockPlanner{
		result: &route.Route{
			Length: 1234.5,
			Nodes:  []int{0, 1},
			Geometry: []geom.Point{
				{X: 0, Y: 0},
				{X: 1234.5, Y: 0},
			},
		},
	}
	h := NewHandlers(mock, pairGraph(t))

	body := `{"start":{"x":0,"y":0},"end":{"x":1234.5,"y":0}}`
	req := httptest.NewRequest("POST", "/api/v1/route", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.HandleRoute(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200. body: %s", w.Code, w.Body.String())
	}

	var resp RouteResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.TotalLength != 1234.5 {
		t.Errorf("TotalLength = %f, want 1234.5", resp.TotalLength)
	}
	if len(resp.Nodes) != 2 {
		t.Errorf("Nodes length = %d, want 2", len(resp.Nodes))
	}
	if len(resp.Geometry) != 2 {
		t.Errorf("Geometry length = %d, want 2", len(resp.Geometry))
	}
	if resp.GeoJSON == nil {
		t.Error("GeoJSON missing")
	}
}

func TestHandleRoute_InvalidJSON(t *testing.T) {
	h := NewHandlers(&mockPlanner{}, pairGraph(t))

	req := httptest.NewRequest("POST", "/api/v1/route", strings.NewReader("not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.HandleRoute(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHandleRoute_MissingContentType(t *testing.T) {
	h := NewHandlers(&mockPlanner{}, pairGraph(t))

	body := `{"start":{"x":0,"y":0},"end":{"x":1,"y":1}}`
	req := httptest.NewRequest("POST", "/api/v1/route", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.HandleRoute(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHandleRoute_NonFiniteCoordinates(t *testing.T) {
	h := NewHandlers(&mockPlanner{}, pairGraph(t))

	// JSON has no NaN literal; a string coordinate fails at decode time.
	body := `{"start":{"x":"nan","y":0},"end":{"x":1,"y":1}}`
	req := httptest.NewRequest("POST", "/api/v1/route", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.HandleRoute(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHandleRoute_UnknownAlgorithm(t *testing.T) {
	h := NewHandlers(&mockPlanner{}, pairGraph(t))

	body := `{"start":{"x":0,"y":0},"end":{"x":1,"y":1},"algorithm":"bellman-ford"}`
	req := httptest.NewRequest("POST", "/api/v1/route", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.HandleRoute(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHandleRoute_Unreachable(t *testing.T) {
	mock := &mockPlanner{err: route.ErrUnreachable}
	h := NewHandlers(mock, pairGraph(t))

	body := `{"start":{"x":0,"y":0},"end":{"x":1,"y":1}}`
	req := httptest.NewRequest("POST", "/api/v1/route", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.HandleRoute(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestHandleRoute_PointTooFar(t *testing.T) {
	mock := &mockPlanner{err: snap.ErrTooFar}
	h := NewHandlers(mock, pairGraph(t))

	body := `{"start":{"x":9999,"y":9999},"end":{"x":1,"y":1}}`
	req := httptest.NewRequest("POST", "/api/v1/route", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.HandleRoute(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", w.Code)
	}
}

func TestHandleComponents(t *testing.T) {
	h := NewHandlers(&mockPlanner{}, pairGraph(t))

	req := httptest.NewRequest("GET", "/api/v1/components", nil)
	w := httptest.NewRecorder()

	h.HandleComponents(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp ComponentsResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Count != 1 {
		t.Errorf("Count = %d, want 1", resp.Count)
	}
	if len(resp.Sizes) != 1 || resp.Sizes[0] != 2 {
		t.Errorf("Sizes = %v, want [2]", resp.Sizes)
	}
}

func TestHandleStats(t *testing.T) {
	h := NewHandlers(&mockPlanner{}, pairGraph(t))

	req := httptest.NewRequest("GET", "/api/v1/stats", nil)
	w := httptest.NewRecorder()

	h.HandleStats(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}

	var resp StatsResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.NumNodes != 2 {
		t.Errorf("NumNodes = %d, want 2", resp.NumNodes)
	}
	if resp.NumEdges != 1 {
		t.Errorf("NumEdges = %d, want 1", resp.NumEdges)
	}
	if !resp.Valid {
		t.Error("Valid = false, want true")
	}
}

func TestHandleHealth(t *testing.T) {
	h := NewHandlers(&mockPlanner{}, pairGraph(t))

	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	w := httptest.NewRecorder()

	h.HandleHealth(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}

	var resp HealthResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Status != "ok" {
		t.Errorf("status = %q, want 'ok'", resp.Status)
	}
}

func TestEnginePlanner(t *testing.T) {
	g := pairGraph(t)
	p := &EnginePlanner{Graph: g, Snapper: snap.New(g, 100)}

	rt, err := p.Plan(context.Background(), geom.Point{X: 0.5, Y: 0.2}, geom.Point{X: 4.8, Y: -0.1}, route.Dijkstra, false)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(rt.Nodes) != 2 || rt.Nodes[0] != 0 || rt.Nodes[1] != 1 {
		t.Errorf("Nodes = %v, want [0 1]", rt.Nodes)
	}
	if rt.Length != 5 {
		t.Errorf("Length = %f, want 5", rt.Length)
	}

	if _, err := p.Plan(context.Background(), geom.Point{X: 0, Y: 5000}, geom.Point{X: 1, Y: 0}, route.Dijkstra, false); err == nil {
		t.Error("expected snap error for distant point")
	}
}

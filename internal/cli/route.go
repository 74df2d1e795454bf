package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"curvenet/pkg/geom"
	"curvenet/pkg/graph"
	"curvenet/pkg/route"
	"curvenet/pkg/snap"
)

// routeOpts holds the command-line flags for the route command.
type routeOpts struct {
	from       string  // "x,y[,z]" start point
	to         string  // "x,y[,z]" end point
	algo       string  // "dijkstra" or "astar"
	snapRadius float64 // max snapping distance
	visited    bool    // include examined edges in the output
}

func newRouteCmd() *cobra.Command {
	opts := routeOpts{algo: "astar", snapRadius: snap.DefaultMaxDist}

	cmd := &cobra.Command{
		Use:   "route [file.graph]",
		Short: "Query a shortest path between two points",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoute(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVar(&opts.from, "from", "", "start point as x,y[,z] (required)")
	cmd.Flags().StringVar(&opts.to, "to", "", "end point as x,y[,z] (required)")
	cmd.Flags().StringVar(&opts.algo, "algo", opts.algo, "search algorithm: astar (default), dijkstra")
	cmd.Flags().Float64Var(&opts.snapRadius, "snap-radius", opts.snapRadius, "max distance for snapping query points onto the graph")
	cmd.Flags().BoolVar(&opts.visited, "visited", false, "include edges examined by the search")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")

	return cmd
}

func runRoute(cmd *cobra.Command, input string, opts *routeOpts) error {
	logger := loggerFromContext(cmd.Context())

	from, err := parsePoint(opts.from)
	if err != nil {
		return fmt.Errorf("--from: %w", err)
	}
	to, err := parsePoint(opts.to)
	if err != nil {
		return fmt.Errorf("--to: %w", err)
	}
	algo, err := parseAlgo(opts.algo)
	if err != nil {
		return err
	}

	g, err := graph.ReadFile(input)
	if err != nil {
		return err
	}

	sn := snap.New(g, opts.snapRadius)
	start, err := sn.NearestNode(from)
	if err != nil {
		return fmt.Errorf("start point: %w", err)
	}
	end, err := sn.NearestNode(to)
	if err != nil {
		return fmt.Errorf("end point: %w", err)
	}
	logger.Debug("snapped endpoints", "start", start, "end", end)

	prog := newProgress(logger)
	rt, err := route.ShortestPath(g, start, end, algo, route.Options{TrackVisited: opts.visited})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Found path: %d nodes, length %.2f", len(rt.Nodes), rt.Length))

	out := struct {
		Length   float64             `json:"length"`
		Nodes    []int               `json:"nodes"`
		Geometry []geom.Point        `json:"geometry"`
		Visited  []route.VisitedEdge `json:"visited,omitempty"`
	}{Length: rt.Length, Nodes: rt.Nodes, Geometry: rt.Geometry, Visited: rt.Visited}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// parsePoint parses "x,y" or "x,y,z" into a point.
func parsePoint(s string) (geom.Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 && len(parts) != 3 {
		return geom.Point{}, fmt.Errorf("point must be x,y or x,y,z, got %q", s)
	}
	vals := make([]float64, 3)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return geom.Point{}, fmt.Errorf("point component %q: %w", p, err)
		}
		vals[i] = v
	}
	return geom.Point{X: vals[0], Y: vals[1], Z: vals[2]}, nil
}

func parseAlgo(s string) (route.Algorithm, error) {
	switch s {
	case "dijkstra":
		return route.Dijkstra, nil
	case "astar":
		return route.AStar, nil
	default:
		return 0, fmt.Errorf("unknown algorithm: %s (must be 'dijkstra' or 'astar')", s)
	}
}

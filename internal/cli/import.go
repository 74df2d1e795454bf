package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"curvenet/pkg/graph"
	"curvenet/pkg/osm"
)

// importOpts holds the command-line flags for the import command.
type importOpts struct {
	output    string // output graph file path
	bbox      string // "minLat,minLng,maxLat,maxLng" filter, empty for none
	precision int    // decimal places for endpoint fusion
}

// defaultPrecision fuses endpoints closer than a millimeter in planar meters.
const defaultPrecision = 3

func newImportCmd() *cobra.Command {
	opts := importOpts{precision: defaultPrecision}

	cmd := &cobra.Command{
		Use:   "import [file.osm.pbf]",
		Short: "Import drivable ways from an OSM extract into a graph file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output graph file (default: input with .graph extension)")
	cmd.Flags().StringVar(&opts.bbox, "bbox", "", "bounding box filter: minLat,minLng,maxLat,maxLng")
	cmd.Flags().IntVar(&opts.precision, "precision", opts.precision, "decimal places for endpoint fusion")

	return cmd
}

func runImport(cmd *cobra.Command, input string, opts *importOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	box, err := parseBBox(opts.bbox)
	if err != nil {
		return err
	}

	f, err := os.Open(input)
	if err != nil {
		return err
	}
	defer f.Close()

	prog := newProgress(logger)
	res, err := osm.Import(ctx, f, osm.ImportOptions{BBox: box})
	if err != nil {
		return fmt.Errorf("import %s: %w", input, err)
	}
	prog.done(fmt.Sprintf("Extracted %d segments from %d ways", len(res.Segments), res.Ways))

	// The importer already emits one directed segment per travel direction.
	g, stats := graph.Build(res.Segments, graph.BuildOptions{Precision: opts.precision})
	if !g.Valid() {
		return fmt.Errorf("built graph is invalid: %s", g.Reason())
	}
	logger.Info("built graph",
		"nodes", g.NumNodes(), "edges", g.NumEdges(),
		"skipped", stats.SkippedSegments, "orphans", stats.OrphanNodes)

	out := opts.output
	if out == "" {
		out = strings.TrimSuffix(strings.TrimSuffix(input, ".pbf"), ".osm") + ".graph"
	}
	if err := graph.WriteFile(out, g); err != nil {
		return err
	}
	logger.Info("wrote graph", "path", out)
	return nil
}

// parseBBox parses "minLat,minLng,maxLat,maxLng". An empty string yields the
// zero box, which disables filtering.
func parseBBox(s string) (osm.BBox, error) {
	if s == "" {
		return osm.BBox{}, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return osm.BBox{}, fmt.Errorf("bbox must be minLat,minLng,maxLat,maxLng, got %q", s)
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return osm.BBox{}, fmt.Errorf("bbox component %q: %w", p, err)
		}
		vals[i] = v
	}
	box := osm.BBox{MinLat: vals[0], MinLng: vals[1], MaxLat: vals[2], MaxLng: vals[3]}
	if box.MinLat >= box.MaxLat || box.MinLng >= box.MaxLng {
		return osm.BBox{}, fmt.Errorf("bbox min must be strictly below max: %q", s)
	}
	return box, nil
}

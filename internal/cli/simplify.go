package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"curvenet/pkg/graph"
)

func newSimplifyCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "simplify [file.graph]",
		Short: "Collapse waypoint chains between junctions into single edges",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			g, err := graph.ReadFile(args[0])
			if err != nil {
				return err
			}

			prog := newProgress(logger)
			sg, stats := graph.Simplify(g)
			if !sg.Valid() {
				return fmt.Errorf("simplified graph is invalid: %s", sg.Reason())
			}
			prog.done(fmt.Sprintf("Simplified %d -> %d nodes, %d -> %d edges (ratio %.2f)",
				stats.OrigNodes, stats.NewNodes, stats.OrigEdges, stats.NewEdges, stats.Ratio()))
			if stats.DroppedChains > 0 {
				logger.Warn("dropped malformed chains", "count", stats.DroppedChains)
			}

			if output == "" {
				base := strings.TrimSuffix(args[0], filepath.Ext(args[0]))
				output = base + "_simplified.graph"
			}
			if err := graph.WriteFile(output, sg); err != nil {
				return err
			}
			logger.Info("wrote graph", "path", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output graph file (default: input with _simplified suffix)")

	return cmd
}

package cli

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"curvenet/pkg/graph"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats [file.graph]",
		Short: "Print node, edge, and component counts for a graph file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := graph.ReadFile(args[0])
			if err != nil {
				return err
			}

			comps := graph.Components(g)
			out := struct {
				NumNodes   int    `json:"num_nodes"`
				NumEdges   int    `json:"num_edges"`
				Components int    `json:"components"`
				Valid      bool   `json:"valid"`
				Reason     string `json:"reason,omitempty"`
			}{
				NumNodes:   g.NumNodes(),
				NumEdges:   g.NumEdges(),
				Components: len(comps),
				Valid:      g.Valid(),
				Reason:     g.Reason(),
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
}

package cli

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"curvenet/pkg/graph"
)

func newComponentsCmd() *cobra.Command {
	var members bool

	cmd := &cobra.Command{
		Use:   "components [file.graph]",
		Short: "List weakly connected components of a graph file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := graph.ReadFile(args[0])
			if err != nil {
				return err
			}

			comps := graph.Components(g)
			out := struct {
				Count int     `json:"count"`
				Sizes []int   `json:"sizes"`
				Nodes [][]int `json:"nodes,omitempty"`
			}{Count: len(comps), Sizes: make([]int, len(comps))}
			for i, c := range comps {
				out.Sizes[i] = len(c)
			}
			if members {
				out.Nodes = comps
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}

	cmd.Flags().BoolVar(&members, "members", false, "include member node indices per component")

	return cmd
}

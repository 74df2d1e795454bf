package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"curvenet/pkg/graph"
)

func newSplitCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "split [file.graph]",
		Short: "Write each weakly connected component as its own graph file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			g, err := graph.ReadFile(args[0])
			if err != nil {
				return err
			}

			base := output
			if base == "" {
				base = strings.TrimSuffix(args[0], filepath.Ext(args[0]))
			}

			parts := graph.Split(g)
			for i, part := range parts {
				path := fmt.Sprintf("%s_%d.graph", base, i)
				if err := graph.WriteFile(path, part); err != nil {
					return err
				}
				logger.Info("wrote component", "path", path,
					"nodes", part.NumNodes(), "edges", part.NumEdges())
			}
			logger.Info("split complete", "components", len(parts))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "base path for output files (default: input without extension)")

	return cmd
}

package cli

import (
	"github.com/spf13/cobra"

	"curvenet/pkg/api"
	"curvenet/pkg/graph"
	"curvenet/pkg/snap"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr   string // listen address, overridden by the config file if set there
	config string // optional TOML config path
}

func newServeCmd() *cobra.Command {
	opts := serveOpts{addr: ":8080"}

	cmd := &cobra.Command{
		Use:   "serve [file.graph]",
		Short: "Serve the routing HTTP API over a graph file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "TOML config file")

	return cmd
}

func runServe(cmd *cobra.Command, input string, opts *serveOpts) error {
	logger := loggerFromContext(cmd.Context())

	cfg, err := loadServeConfig(opts.config, opts.addr)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	g, err := graph.ReadFile(input)
	if err != nil {
		return err
	}
	prog.done("Loaded graph")
	logger.Info("graph ready", "nodes", g.NumNodes(), "edges", g.NumEdges())

	planner := &api.EnginePlanner{Graph: g, Snapper: snap.New(g, cfg.SnapRadius)}
	handlers := api.NewHandlers(planner, g)
	srv := api.NewServer(cfg.serverConfig(), handlers, logger)

	return api.ListenAndServe(srv, logger)
}

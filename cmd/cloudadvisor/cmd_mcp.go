package main

import (
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/HerbHall/cloudadvisor/internal/mcpserver"
)

func newMCPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the recommender as an MCP tool over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			source, closeSource, err := buildSource(ctx, a.cfg.Catalog, a.logger)
			if err != nil {
				return err
			}
			defer closeSource()

			svc, err := buildService(source, a.cfg, nil, a.logger)
			if err != nil {
				return err
			}
			a.logger.Info("serving MCP over stdio")
			return mcpserver.New(svc, a.logger).Run(ctx, &mcp.StdioTransport{})
		},
	}
}

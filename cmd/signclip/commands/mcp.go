package commands

import (
	"context"

	"github.com/0x5457/signclip/cmd/cmdsfx"
	"github.com/0x5457/signclip/internal/app/appfx"
	"github.com/spf13/cobra"
)

// NewMCPServeCommand starts an MCP server exposing scoring and search tools.
func NewMCPServeCommand(g *globalFlags) *cobra.Command {
	var (
		poseDir   string
		transport string
		address   string
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run MCP server",
		Long:  "Run MCP server, provide pose scoring, language guessing and search tools.",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := g.options()
			opts.PoseDir = poseDir
			return runWithRunner(cmd, appfx.NewAppWithConfig, opts, func(_ context.Context, r *cmdsfx.CommandRunner) error {
				return r.RunMCPServer(transport, address)
			})
		},
	}

	cmd.Flags().StringVarP(&poseDir, "pose-dir", "p", "", "pose directory to index on startup")
	cmd.Flags().
		StringVarP(&transport, "transport", "t", "stdio", "transport (stdio, http, sse)")
	cmd.Flags().StringVarP(&address, "address", "a", "", "server address (http modes), e.g. :8080")

	return cmd
}

package commands

import (
	"context"

	"github.com/0x5457/signclip/cmd/cmdsfx"
	"github.com/0x5457/signclip/internal/app/appfx"
	"github.com/spf13/cobra"
)

func NewSearchCommand(g *globalFlags) *cobra.Command {
	var topK int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search indexed pose files by text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithRunner(cmd, appfx.NewIndexApp, g.options(), func(ctx context.Context, r *cmdsfx.CommandRunner) error {
				return r.RunSearch(ctx, args[0], topK)
			})
		},
	}

	cmd.Flags().IntVar(&topK, "top-k", 5, "Top K results")
	return cmd
}

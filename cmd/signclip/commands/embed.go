package commands

import (
	"context"

	"github.com/0x5457/signclip/cmd/cmdsfx"
	"github.com/0x5457/signclip/internal/app/appfx"
	"github.com/spf13/cobra"
)

func NewEmbedCommand(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "embed",
		Short: "Print pose or text embeddings as JSON",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "pose <pose-file>...",
			Short: "Embed pose files",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runWithRunner(cmd, appfx.NewScoringApp, g.options(), func(ctx context.Context, r *cmdsfx.CommandRunner) error {
					return r.RunEmbedPoses(ctx, args)
				})
			},
		},
		&cobra.Command{
			Use:   "text <text>...",
			Short: "Embed texts",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runWithRunner(cmd, appfx.NewScoringApp, g.options(), func(ctx context.Context, r *cmdsfx.CommandRunner) error {
					return r.RunEmbedTexts(ctx, args)
				})
			},
		},
	)
	return cmd
}

package commands

import (
	"context"
	"fmt"

	"github.com/0x5457/signclip/cmd/cmdsfx"
	"github.com/0x5457/signclip/internal/app/appfx"
	"github.com/spf13/cobra"
)

func NewIndexCommand(g *globalFlags) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Index a directory of pose files",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				return fmt.Errorf("--dir is required")
			}
			return runWithRunner(cmd, appfx.NewIndexApp, g.options(), func(ctx context.Context, r *cmdsfx.CommandRunner) error {
				return r.RunIndex(ctx, dir)
			})
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "directory containing .pose files")
	return cmd
}

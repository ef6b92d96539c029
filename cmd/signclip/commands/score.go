package commands

import (
	"context"
	"strings"

	"github.com/0x5457/signclip/cmd/cmdsfx"
	"github.com/0x5457/signclip/internal/app/appfx"
	"github.com/spf13/cobra"
)

func NewScoreCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "score <pose-file> <text>...",
		Short: "Score a pose file against one or more texts",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithRunner(cmd, appfx.NewScoringApp, g.options(), func(ctx context.Context, r *cmdsfx.CommandRunner) error {
				return r.RunScore(ctx, args[0], args[1:])
			})
		},
	}
}

func NewGuessLanguageCommand(g *globalFlags) *cobra.Command {
	var languages string

	cmd := &cobra.Command{
		Use:   "guess-language <pose-file>",
		Short: "Rank sign languages by how well they match a pose file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var langs []string
			if languages != "" {
				for _, l := range strings.Split(languages, ",") {
					if l = strings.TrimSpace(l); l != "" {
						langs = append(langs, l)
					}
				}
			}
			return runWithRunner(cmd, appfx.NewScoringApp, g.options(), func(ctx context.Context, r *cmdsfx.CommandRunner) error {
				return r.RunGuessLanguage(ctx, args[0], langs)
			})
		},
	}

	cmd.Flags().StringVarP(&languages, "languages", "l", "", "comma separated language tags (default: all)")
	return cmd
}

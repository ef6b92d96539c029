package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/0x5457/signclip/cmd/cmdsfx"
	"github.com/0x5457/signclip/internal/app/appfx"
	"github.com/0x5457/signclip/internal/constants"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

// globalFlags are shared by every command through persistent flags
type globalFlags struct {
	configPath string
	dbPath     string
	logLevel   string
}

func (g *globalFlags) options() appfx.Options {
	return appfx.Options{ConfigPath: g.configPath, DBPath: g.dbPath, LogLevel: g.logLevel}
}

// NewRootCommand builds the signclip command tree. Without a subcommand it
// scores a pose file against a random text and an ASL prompt.
func NewRootCommand() *cobra.Command {
	g := &globalFlags{}

	cmd := &cobra.Command{
		Use:          "signclip [pose-file]",
		Short:        "Score sign language poses against text",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			posePath := constants.DefaultPosePath
			if len(args) == 1 {
				posePath = args[0]
			}
			return runWithRunner(cmd, appfx.NewScoringApp, g.options(), func(ctx context.Context, r *cmdsfx.CommandRunner) error {
				return r.RunDefault(ctx, posePath)
			})
		},
	}

	cmd.PersistentFlags().StringVar(&g.configPath, "config", envOr(constants.EnvConfig, constants.DefaultConfigPath),
		"named model configuration file")
	cmd.PersistentFlags().StringVar(&g.dbPath, "db", os.Getenv(constants.EnvDB), "SQLite index database path")
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", envOr(constants.EnvLogLevel, "info"),
		"log level (debug, info, warn, error)")

	cmd.AddCommand(
		NewScoreCommand(g),
		NewGuessLanguageCommand(g),
		NewEmbedCommand(g),
		NewIndexCommand(g),
		NewSearchCommand(g),
		NewMCPServeCommand(g),
		NewMCPClientCommand(),
	)
	return cmd
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// appConstructor is one of the appfx app builders. Scoring commands use
// appfx.NewScoringApp so they never open the index database.
type appConstructor func(opts appfx.Options, extra ...fx.Option) *fx.App

// runWithRunner starts the application, runs fn with the command runner
// and stops the application again.
func runWithRunner(
	cmd *cobra.Command,
	newApp appConstructor,
	opts appfx.Options,
	fn func(ctx context.Context, r *cmdsfx.CommandRunner) error,
) error {
	var runner *cmdsfx.CommandRunner
	app := newApp(opts, fx.Populate(&runner))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("failed to start application: %w", err)
	}
	runner.SetOutput(cmd.OutOrStdout())
	runErr := fn(ctx, runner)

	stopCtx, cancel := context.WithTimeout(context.Background(), fx.DefaultTimeout)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil && runErr == nil {
		return fmt.Errorf("failed to stop application: %w", err)
	}
	return runErr
}

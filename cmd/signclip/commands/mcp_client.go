package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/0x5457/signclip/internal/app/appfx"
	appmcp "github.com/0x5457/signclip/internal/mcp"
	"github.com/0x5457/signclip/internal/mcp/mcpfx"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

const (
	transportStdio  = "stdio"
	transportInproc = "inproc"
)

// NewMCPClientCommand creates commands for talking to a signclip MCP server
func NewMCPClientCommand() *cobra.Command {
	var (
		transport  string
		configPath string
		dbPath     string
	)

	cmd := &cobra.Command{
		Use:   "mcp-client",
		Short: "MCP client commands",
		Long: `Connect to a signclip MCP server. The stdio transport launches
"signclip mcp" as a child process, inproc builds the server in this process.`,
	}

	connect := func(ctx context.Context) (*appmcp.Client, func(), error) {
		return createMCPClient(ctx, transport, appfx.Options{ConfigPath: configPath, DBPath: dbPath})
	}

	cmd.AddCommand(
		newMCPListToolsCommand(connect),
		newMCPCallCommand(connect),
	)

	cmd.PersistentFlags().
		StringVarP(&transport, "transport", "t", transportStdio, "transport (stdio, inproc)")
	cmd.PersistentFlags().StringVar(&configPath, "server-config", "", "model configuration passed to the server")
	cmd.PersistentFlags().StringVar(&dbPath, "server-db", "", "database path passed to the server")

	return cmd
}

type connectFunc func(ctx context.Context) (*appmcp.Client, func(), error)

func newMCPListToolsCommand(connect connectFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "list-tools",
		Short: "List tools exposed by the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			client, closeFn, err := connect(ctx)
			if err != nil {
				return fmt.Errorf("create MCP client failed: %w", err)
			}
			defer closeFn()

			tools, err := client.ListTools(ctx)
			if err != nil {
				return fmt.Errorf("list tools failed: %w", err)
			}
			slices.SortFunc(tools, func(a, b mcp.Tool) int { return strings.Compare(a.Name, b.Name) })
			out := cmd.OutOrStdout()
			for _, t := range tools {
				_, _ = fmt.Fprintf(out, "%s\t%s\n", t.Name, t.Description)
			}
			return nil
		},
	}
}

func newMCPCallCommand(connect connectFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "call <tool_name> [key=value...]",
		Short: "Call a specific MCP tool",
		Long: `Call a specific MCP tool with arguments given as key=value pairs.
texts and languages take comma separated lists.

Example:
  signclip mcp-client call score_pose_text pose_file=a.pose texts="hello,<en> <ase>"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			toolArgs, err := parseToolArgs(args[1:])
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()

			client, closeFn, err := connect(ctx)
			if err != nil {
				return fmt.Errorf("create MCP client failed: %w", err)
			}
			defer closeFn()

			result, err := client.Call(ctx, args[0], toolArgs)
			if err != nil {
				return fmt.Errorf("call %s failed: %w", args[0], err)
			}
			return printResult(cmd.OutOrStdout(), result)
		},
	}
}

var (
	listArgs = []string{"texts", "languages"}
	intArgs  = []string{"top_k"}
)

func parseToolArgs(args []string) (map[string]any, error) {
	toolArgs := make(map[string]any, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid argument format: %s (expected key=value)", arg)
		}
		switch {
		case slices.Contains(listArgs, key):
			var items []any
			for _, v := range strings.Split(value, ",") {
				items = append(items, strings.TrimSpace(v))
			}
			toolArgs[key] = items
		case slices.Contains(intArgs, key):
			n, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("invalid %s: %s", key, value)
			}
			toolArgs[key] = n
		default:
			toolArgs[key] = value
		}
	}
	return toolArgs, nil
}

func printResult(w io.Writer, result *mcp.CallToolResult) error {
	if result.IsError {
		for _, c := range result.Content {
			if tc, ok := c.(mcp.TextContent); ok {
				return fmt.Errorf("tool error: %s", tc.Text)
			}
		}
		return fmt.Errorf("tool error")
	}
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			_, _ = fmt.Fprintln(w, tc.Text)
			continue
		}
		output, err := json.MarshalIndent(c, "", "  ")
		if err != nil {
			return fmt.Errorf("format result failed: %w", err)
		}
		_, _ = fmt.Fprintln(w, string(output))
	}
	return nil
}

func createMCPClient(ctx context.Context, transport string, opts appfx.Options) (*appmcp.Client, func(), error) {
	switch transport {
	case transportStdio:
		exe, err := os.Executable()
		if err != nil {
			return nil, nil, err
		}
		args := []string{"mcp", "--transport", "stdio"}
		if opts.ConfigPath != "" {
			args = append(args, "--config", opts.ConfigPath)
		}
		if opts.DBPath != "" {
			args = append(args, "--db", opts.DBPath)
		}
		client, err := appmcp.NewStdioClient(ctx, exe, args...)
		if err != nil {
			return nil, nil, err
		}
		return client, func() { _ = client.Close() }, nil
	case transportInproc:
		var lc *mcpfx.Lifecycle
		app := appfx.NewAppWithConfig(opts, fx.Populate(&lc))
		if err := app.Start(ctx); err != nil {
			return nil, nil, fmt.Errorf("initialize components failed: %w", err)
		}
		client, err := appmcp.NewInProcessClient(ctx, lc.Server())
		if err != nil {
			_ = app.Stop(context.Background())
			return nil, nil, err
		}
		return client, func() {
			_ = client.Close()
			_ = app.Stop(context.Background())
		}, nil
	default:
		return nil, nil, fmt.Errorf(
			"unsupported transport: %s (supported: stdio, inproc)",
			transport,
		)
	}
}

package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Client wraps an initialized MCP client.
type Client struct{ c *client.Client }

// NewStdioClient launches command with args as an MCP stdio server and
// initializes a client against it.
func NewStdioClient(ctx context.Context, command string, args ...string) (*Client, error) {
	tr := transport.NewStdio(command, nil, args...)
	return start(ctx, client.NewClient(tr))
}

// NewInProcessClient connects to s without a transport process.
func NewInProcessClient(ctx context.Context, s *server.MCPServer) (*Client, error) {
	tr := transport.NewInProcessTransport(s)
	if err := tr.Start(ctx); err != nil {
		return nil, fmt.Errorf("start inproc transport: %w", err)
	}
	return start(ctx, client.NewClient(tr))
}

func start(ctx context.Context, cli *client.Client) (*Client, error) {
	ctxStart, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := cli.Start(ctxStart); err != nil {
		return nil, fmt.Errorf("start mcp client: %w", err)
	}

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{Name: "signclip-cli", Version: serverVersion}
	initReq.Params.Capabilities = mcp.ClientCapabilities{}

	if _, err := cli.Initialize(ctx, initReq); err != nil {
		_ = cli.Close()
		return nil, fmt.Errorf("init mcp client: %w", err)
	}
	return &Client{c: cli}, nil
}

func (c *Client) Close() error { return c.c.Close() }

func (c *Client) ListTools(ctx context.Context) ([]mcp.Tool, error) {
	res, err := c.c.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return nil, err
	}
	return res.Tools, nil
}

func (c *Client) Call(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	return c.c.CallTool(ctx, mcp.CallToolRequest{Params: mcp.CallToolParams{Name: name, Arguments: args}})
}

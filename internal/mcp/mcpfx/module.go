package mcpfx

import (
	"context"
	"fmt"

	"github.com/0x5457/signclip/internal/config/configfx"
	"github.com/0x5457/signclip/internal/indexer"
	appmcp "github.com/0x5457/signclip/internal/mcp"
	"github.com/0x5457/signclip/internal/search"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Params represents dependencies for MCP server
type Params struct {
	fx.In

	SearchService *search.Service
	Indexer       indexer.Indexer
}

// NewMCPServer creates a new MCP server instance
func NewMCPServer(params Params) *server.MCPServer {
	return appmcp.New(params.SearchService, params.Indexer)
}

// Lifecycle manages MCP server lifecycle
type Lifecycle struct {
	server  *server.MCPServer
	indexer indexer.Indexer
	config  *configfx.Config
	logger  *zap.Logger
}

// NewLifecycle creates a new MCP lifecycle manager
func NewLifecycle(
	srv *server.MCPServer,
	indexer indexer.Indexer,
	config *configfx.Config,
	logger *zap.Logger,
) *Lifecycle {
	return &Lifecycle{
		server:  srv,
		indexer: indexer,
		config:  config,
		logger:  logger,
	}
}

// Server returns the wrapped MCP server
func (m *Lifecycle) Server() *server.MCPServer { return m.server }

// Start pre-indexes the configured pose directory
func (m *Lifecycle) Start(ctx context.Context) error {
	if m.config.PoseDir == "" {
		return nil
	}
	m.logger.Info("Pre-indexing pose directory", zap.String("dir", m.config.PoseDir))
	if err := m.indexer.IndexDirectory(ctx, m.config.PoseDir, nil); err != nil {
		return fmt.Errorf("pre-index pose directory failed: %w", err)
	}
	return nil
}

// Stop handles graceful shutdown
func (m *Lifecycle) Stop(ctx context.Context) error {
	// MCP server cleanup is handled by the framework
	return nil
}

// Module provides MCP server components
var Module = fx.Module("mcp",
	fx.Provide(
		NewMCPServer,
		NewLifecycle,
	),
)

package mcpserver

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/panbanda/mood/internal/logging"
	"github.com/panbanda/mood/pkg/config"
)

// Server wraps the MCP server and registers the mood tools.
type Server struct {
	server *mcp.Server
	config *config.Config
	logger *slog.Logger
}

// NewServer creates a new MCP server with all mood tools registered.
// A nil cfg loads the configuration from the standard locations.
func NewServer(version string, cfg *config.Config, logger *slog.Logger) *Server {
	if version == "" {
		version = "dev"
	}
	if cfg == nil {
		cfg = config.LoadOrDefault()
	}
	if logger == nil {
		logger = logging.Discard()
	}
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "mood",
			Version: version,
		},
		nil,
	)

	s := &Server{server: server, config: cfg, logger: logger}
	s.registerTools()
	s.registerPrompts()
	return s
}

// Run starts the MCP server over stdio transport.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// registerTools adds the analysis tools to the server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_mood",
		Description: describeMood(),
	}, s.handleAnalyzeMood)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "dump_ir",
		Description: describeDumpIR(),
	}, s.handleDumpIR)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_classes",
		Description: describeListClasses(),
	}, s.handleListClasses)
}

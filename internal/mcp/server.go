// Package mcp exposes the generation service to MCP clients as tools.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/specstudio/internal/orchestrator"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes specification tools.
type Server struct {
	backend orchestrator.Backend
	mcp     *server.MCPServer
}

// NewServer creates a new MCP server that forwards tool calls to b.
func NewServer(b orchestrator.Backend) *Server {
	s := &Server{backend: b}

	s.mcp = server.NewMCPServer(
		"specstudio",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(generateDiagramsTool, s.handleGenerateDiagrams)
	s.mcp.AddTool(listUseCasesTool, s.handleListUseCases)
	s.mcp.AddTool(generateSequenceTool, s.handleGenerateSequence)
	s.mcp.AddTool(generateCodeTool, s.handleGenerateCode)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}

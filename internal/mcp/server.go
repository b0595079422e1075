// Package mcpserver exposes the editing session to agent tooling over
// the Model Context Protocol. It is the engine's namespaced devtools
// surface: everything here reads or mutates through the session, never
// through globals, so an MCP client sees exactly what the frontend sees.
package mcpserver

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ParticlesofMind/neptino-sub001/internal/service"
)

// Server is the MCP server for the canvas engine.
type Server struct {
	mcp       *server.MCPServer
	session   *service.Session
	placement *PlacementEngine
}

// Deps holds the dependencies passed from the app layer.
type Deps struct {
	Session *service.Session
}

// New creates and configures the MCP server with all tools registered.
func New(deps Deps) *Server {
	s := &Server{
		session:   deps.Session,
		placement: NewPlacementEngine(),
	}

	s.mcp = server.NewMCPServer(
		"neptino-canvas-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	s.registerCanvasTools()
	s.registerElementTools()
	s.registerHistoryTools()

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	log.Println("[MCP] Starting stdio server...")
	return server.ServeStdio(s.mcp)
}

// ── Helpers ────────────────────────────────────────────────

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

// requireString extracts a non-empty string argument.
func requireString(args map[string]any, key string) (string, error) {
	v, ok := args[key].(string)
	if !ok || v == "" {
		return "", fmt.Errorf("%s is required", key)
	}
	return v, nil
}

// requireNumber extracts a numeric argument.
func requireNumber(args map[string]any, key string) (float64, error) {
	v, ok := args[key].(float64)
	if !ok {
		return 0, fmt.Errorf("%s is required and must be a number", key)
	}
	return v, nil
}

// optionalNumber extracts a numeric argument, reporting presence.
func optionalNumber(args map[string]any, key string) (float64, bool) {
	v, ok := args[key].(float64)
	return v, ok
}

func boolPtr(v bool) *bool { return &v }

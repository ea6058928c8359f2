// Package mcpsrv exposes read-only shell introspection over MCP,
// trimmed from fluid-cli/internal/mcp/server.go's ~15 sandbox-mutating
// tools down to three that only ever read gosh's own state: the
// current directory, recent history, and command resolution. Nothing
// here can start a process or change shell state, so it carries no
// scripting-mode surface.
package mcpsrv

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aspectrr/gosh/internal/history"
	"github.com/aspectrr/gosh/internal/resolve"
)

// Server wraps an MCP server exposing gosh's introspection tools over
// stdio.
type Server struct {
	resolver *resolve.Resolver
	history  *history.Store
	logger   *slog.Logger
	mcp      *server.MCPServer
}

// NewServer wires a Server against the shell's resolver and history
// store.
func NewServer(resolver *resolve.Resolver, hist *history.Store, logger *slog.Logger) *Server {
	s := &Server{resolver: resolver, history: hist, logger: logger}
	s.mcp = server.NewMCPServer("gosh", "0.1.0", server.WithToolCapabilities(false))
	s.registerTools()
	return s
}

// Serve starts the MCP server on stdio. Blocks until the connection
// closes.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) registerTools() {
	s.mcp.AddTool(mcp.NewTool("pwd",
		mcp.WithDescription("Get the shell's current working directory."),
	), s.handlePwd)

	s.mcp.AddTool(mcp.NewTool("recent_history",
		mcp.WithDescription("List the most recently executed command lines."),
		mcp.WithNumber("limit", mcp.Description("Maximum number of entries to return (default 20).")),
	), s.handleRecentHistory)

	s.mcp.AddTool(mcp.NewTool("resolve_command",
		mcp.WithDescription("Report whether a name resolves to a shell builtin, an external program, or nothing."),
		mcp.WithString("name", mcp.Required(), mcp.Description("The command name to resolve.")),
	), s.handleResolveCommand)
}

func (s *Server) handlePwd(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir, err := os.Getwd()
	if err != nil {
		s.logger.Error("pwd failed", "error", err)
		return errorResult(map[string]any{"error": err.Error()})
	}
	return jsonResult(map[string]any{"cwd": dir})
}

func (s *Server) handleRecentHistory(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", 20)
	entries := s.history.Entries
	if limit > 0 && limit < len(entries) {
		entries = entries[len(entries)-limit:]
	}
	return jsonResult(map[string]any{"entries": entries})
}

func (s *Server) handleResolveCommand(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := request.GetString("name", "")
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	kind := s.resolver.Resolve(name)

	result := map[string]any{"name": name}
	switch {
	case kind.Builtin != "":
		result["kind"] = "builtin"
	case kind.ResolvedPath != "":
		result["kind"] = "program"
		result["path"] = kind.ResolvedPath
	default:
		result["kind"] = "not_found"
	}
	return jsonResult(result)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("mcpsrv: marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

func errorResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("mcpsrv: marshal error result: %w", err)
	}
	result := mcp.NewToolResultText(string(data))
	result.IsError = true
	return result, nil
}

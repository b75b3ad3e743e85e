// Package server exposes the focus policy over the Model Context Protocol.
package server

import (
	"fmt"
	"sync/atomic"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/mj1618/wmpolicy/internal/logger"
	"github.com/mj1618/wmpolicy/internal/model"
	"github.com/mj1618/wmpolicy/internal/version"
)

// Config holds MCP server configuration.
type Config struct {
	Transport string
	Port      int
}

// Server wraps the MCP server with the policy it serves.
type Server struct {
	policy atomic.Pointer[model.FocusPolicy]
	source string
	log    *logger.Logger
	mcp    *mcpserver.MCPServer
}

// New creates a server for policy. source names the config file it came from.
func New(policy *model.FocusPolicy, source string, log *logger.Logger) (*Server, error) {
	if policy == nil {
		return nil, fmt.Errorf("server requires a focus policy")
	}
	s := &Server{source: source, log: log}
	s.policy.Store(policy)
	s.mcp = mcpserver.NewMCPServer("wmpolicy", version.Version)
	s.registerTools()
	return s, nil
}

// Policy returns the policy currently served.
func (s *Server) Policy() *model.FocusPolicy {
	return s.policy.Load()
}

// SetPolicy replaces the served policy. It is the apply hook for config.Watcher.
func (s *Server) SetPolicy(p *model.FocusPolicy) error {
	if p == nil {
		return fmt.Errorf("cannot serve a nil policy")
	}
	prev := s.policy.Swap(p)
	s.log.Info("Served policy replaced",
		"client_buttons", p.Declaration().ClientButtons,
		"changes", len(model.DiffPolicies(prev, p)))
	return nil
}

// Serve starts the MCP server with the configured transport.
func (s *Server) Serve(cfg Config) error {
	s.log.Info("Starting MCP server", "transport", cfg.Transport, "port", cfg.Port)
	switch cfg.Transport {
	case "stdio":
		return mcpserver.ServeStdio(s.mcp)
	case "streamable-http":
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		return httpServer.Start(fmt.Sprintf(":%d", cfg.Port))
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", cfg.Transport)
	}
}

func (s *Server) registerTools() {
	s.mcp.AddTool(
		mcp.NewTool("policy",
			mcp.WithDescription("Show the live focus policy: click/enter/leave focus flags and the client button bindings"),
		),
		s.handlePolicy,
	)

	s.mcp.AddTool(
		mcp.NewTool("parse_binding",
			mcp.WithDescription("Parse pointer bindings such as 'A-1' or 'C-A-Right' and return the canonical form, modifiers and button"),
			mcp.WithArray("bindings", mcp.Description("Binding strings to parse"), mcp.Required()),
		),
		s.handleParseBinding,
	)

	s.mcp.AddTool(
		mcp.NewTool("validate",
			mcp.WithDescription("Validate a YAML policy declaration (client_buttons, click_focus, enter_focus, leave_unfocus). Reports every invalid binding."),
			mcp.WithString("config", mcp.Description("YAML document to validate"), mcp.Required()),
		),
		s.handleValidate,
	)

	s.mcp.AddTool(
		mcp.NewTool("simulate",
			mcp.WithDescription(`Replay window and pointer events against the policy on an in-memory host and return the focus/grab calls made per step.
Step types: manage {client, children}, unmanage {client}, enter {window}, leave {window, into}, press {window, binding|button}, release {window, button}, expect-focus {client}.`),
			mcp.WithArray("steps", mcp.Description("Array of single-key step objects, e.g. [{\"manage\": {\"client\": 10}}, {\"enter\": {\"window\": 10}}]"), mcp.Required()),
			mcp.WithString("config", mcp.Description("Optional YAML declaration to simulate instead of the live policy")),
			mcp.WithNumber("screens", mcp.Description("Number of screens on the simulated host (default 1)")),
			mcp.WithBoolean("stop_on_error", mcp.Description("Stop at the first failed step")),
		),
		s.handleSimulate,
	)
}

package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tilde-nya/akixi/internal/mcp/prompts"
	"github.com/tilde-nya/akixi/internal/mcp/tools"
)

// ServerName is the implementation name announced to MCP clients.
const ServerName = "akixi-mcp"

// Server exposes one Akixi account over MCP. The account's session is
// opened by the first tool or resource that needs it and closed by Shutdown.
type Server struct {
	mcpServer *sdkmcp.Server
	deps      *tools.Deps

	builtinTools   bool // tools plus the akixi:// resources
	builtinPrompts bool

	registrations []func(*sdkmcp.Server)
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithBuiltinTools enables the akixi_* tools and the akixi:// resources.
func WithBuiltinTools() ServerOption {
	return func(s *Server) {
		s.builtinTools = true
	}
}

// WithBuiltinPrompts enables the summarize_report and tool_guide prompts.
func WithBuiltinPrompts() ServerOption {
	return func(s *Server) {
		s.builtinPrompts = true
	}
}

// WithCustomRegistration adds a callback that registers extra tools,
// prompts or resources on the underlying MCP server.
func WithCustomRegistration(fn func(*sdkmcp.Server)) ServerOption {
	return func(s *Server) {
		s.registrations = append(s.registrations, fn)
	}
}

// NewServer assembles the MCP server for the account described by deps.
func NewServer(deps *tools.Deps, opts ...ServerOption) (*Server, error) {
	if deps == nil {
		return nil, fmt.Errorf("deps is required")
	}
	if deps.Sessions == nil || deps.Config == nil {
		return nil, errors.New("deps requires Sessions and Config")
	}

	s := &Server{deps: deps}
	for _, opt := range opts {
		opt(s)
	}

	s.mcpServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: ServerName, Version: serverVersion()},
		&sdkmcp.ServerOptions{
			Instructions: s.instructions(),
			Logger:       slog.Default(),
		},
	)
	s.mcpServer.AddReceivingMiddleware(LoggingMiddleware())

	if s.builtinTools {
		tools.Register(s.mcpServer, deps)
		s.registerResources()
	}
	if s.builtinPrompts {
		prompts.Register(s.mcpServer, &prompts.Config{
			CompactMaxArrayItems: deps.Config.CompactMaxArrayItems,
		})
	}
	for _, fn := range s.registrations {
		fn(s.mcpServer)
	}

	slog.Debug("MCP server assembled",
		slog.Bool("builtin_tools", s.builtinTools),
		slog.Bool("builtin_prompts", s.builtinPrompts),
		slog.Int("custom_registrations", len(s.registrations)),
	)
	return s, nil
}

// instructions tells the client which account it is talking to and how
// the enabled capabilities fit together.
func (s *Server) instructions() string {
	var sb strings.Builder
	sb.WriteString("Akixi call-reporting account")
	if account := s.account(); account != "" {
		fmt.Fprintf(&sb, " %s", account)
	}
	sb.WriteString(". Login happens on first use.\n")

	if s.builtinTools {
		sb.WriteString("Find reports with akixi_reports_list, then run one with akixi_report_run. ")
		fmt.Fprintf(&sb, "Results are compacted to %d array items unless compact=false; ", s.deps.Config.CompactMaxArrayItems)
		sb.WriteString("use jq to select rows. akixi://report/{id} returns a full result.\n")
	}
	if s.builtinPrompts {
		sb.WriteString("The tool_guide prompt explains the tools in detail.\n")
	}
	return sb.String()
}

// account names the configured tenant without exposing credentials.
func (s *Server) account() string {
	switch {
	case s.deps.Config.BaseURL != "":
		return s.deps.Config.BaseURL
	case s.deps.Config.Host != "":
		return s.deps.Config.Host + ".akixi.com"
	}
	return ""
}

// serverVersion returns the module version, or "(devel)" for local builds.
func serverVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}

// Run serves MCP over stdio until ctx is done or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &sdkmcp.StdioTransport{})
}

// Shutdown ends the Akixi session, if one was opened.
func (s *Server) Shutdown(ctx context.Context) error {
	_, err := s.deps.Sessions.Logout(ctx)
	return err
}

// MCPServer returns the underlying MCP server.
func (s *Server) MCPServer() *sdkmcp.Server {
	return s.mcpServer
}

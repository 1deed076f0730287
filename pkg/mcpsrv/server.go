package mcpsrv

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tilde-nya/akixi/internal/config"
	"github.com/tilde-nya/akixi/internal/logging"
	"github.com/tilde-nya/akixi/internal/mcp"
	"github.com/tilde-nya/akixi/internal/mcp/tools"
	"github.com/tilde-nya/akixi/internal/query"
	"github.com/tilde-nya/akixi/internal/session"
	"github.com/tilde-nya/akixi/pkg/akixi"
)

// logoutTimeout bounds the logout sent when the server closes.
const logoutTimeout = 5 * time.Second

// Server is the Akixi MCP server.
// It wraps the internal implementation and provides extension points.
type Server struct {
	internal   *mcp.Server
	deps       *Deps
	logCleanup func() error
}

// NewServer creates a new MCP server with builtin Akixi tools.
//
// Configuration is loaded from the environment unless WithConfig is given.
// Missing credentials are reported here rather than on the first tool call.
func NewServer(opts ...Option) (*Server, error) {
	cfg := &serverConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.config == nil {
		cfg.config = config.Load()
	}
	if err := cfg.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logCfg := logging.FromConfig(cfg.config)
	if cfg.logLevel != "" {
		logCfg.Level = cfg.logLevel
	}
	if cfg.logFile != "" {
		logCfg.FilePath = cfg.logFile
	}
	logCleanup, err := logging.Setup(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to setup logging: %w", err)
	}

	var sessionOpts []akixi.Option
	if cfg.httpClient != nil {
		sessionOpts = append(sessionOpts, akixi.WithHTTPClient(cfg.httpClient))
	}

	engine, err := query.NewEngine(cfg.config.QueryCacheSize, cfg.config.QueryMaxResults)
	if err != nil {
		_ = logCleanup()
		return nil, fmt.Errorf("failed to create query engine: %w", err)
	}

	deps := &Deps{
		Sessions: session.NewProvider(cfg.config, sessionOpts...),
		Query:    engine,
		Config:   cfg.config,
	}
	toolDeps := &tools.Deps{
		Sessions: deps.Sessions,
		Query:    deps.Query,
		Config:   deps.Config,
	}

	var internalOpts []mcp.ServerOption
	if !cfg.disableBuiltinTools {
		internalOpts = append(internalOpts, mcp.WithBuiltinTools())
	}
	if !cfg.disableBuiltinPrompts {
		internalOpts = append(internalOpts, mcp.WithBuiltinPrompts())
	}
	for _, fn := range cfg.toolRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(fn))
	}
	for _, fn := range cfg.promptRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(fn))
	}
	for _, fn := range cfg.resourceRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(fn))
	}
	for _, fn := range cfg.deferredToolRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(func(srv *sdkmcp.Server) {
			fn(srv, deps)
		}))
	}

	internal, err := mcp.NewServer(toolDeps, internalOpts...)
	if err != nil {
		_ = logCleanup()
		return nil, fmt.Errorf("failed to create server: %w", err)
	}

	return &Server{
		internal:   internal,
		deps:       deps,
		logCleanup: logCleanup,
	}, nil
}

// Run starts the MCP server with stdio transport.
// The server runs until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.internal.Run(ctx)
}

// Close logs out of Akixi and releases logging resources.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), logoutTimeout)
	defer cancel()

	var errs []error
	if err := s.internal.Shutdown(ctx); err != nil {
		slog.Warn("akixi logout failed", slog.String("error", err.Error()))
		errs = append(errs, err)
	}
	if s.logCleanup != nil {
		errs = append(errs, s.logCleanup())
	}
	return errors.Join(errs...)
}

// Deps returns the dependencies for building custom tools.
func (s *Server) Deps() *Deps {
	return s.deps
}

// MCPServer returns the underlying MCP server.
func (s *Server) MCPServer() *sdkmcp.Server {
	return s.internal.MCPServer()
}

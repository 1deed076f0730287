package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/tilde-nya/akixi/pkg/mcpsrv"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Configuration is loaded from environment variables:
	// - AKIXI_HOST, AKIXI_USERNAME, AKIXI_PASSWORD: credentials (required)
	// - AKIXI_LOCALE: en_GB (default) or en_US
	// - LOG_LEVEL, LOG_FILE: logging (stderr only by default)
	// - etc. (see internal/config for all options)
	// The Akixi login happens on the first tool call.
	server, err := mcpsrv.NewServer()
	if err != nil {
		slog.Error("failed to create MCP server", "error", err)
		os.Exit(1)
	}

	slog.Info("starting Akixi MCP server on stdio")
	runErr := server.Run(ctx)

	if err := server.Close(); err != nil {
		slog.Warn("shutdown incomplete", "error", err)
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		slog.Error("server error", "error", runErr)
		os.Exit(1)
	}
}

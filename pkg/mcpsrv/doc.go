// Package mcpsrv provides an extensible MCP server for Akixi call reports.
//
// This package exposes a high-level API for creating and running an MCP server
// with all builtin Akixi tools, prompts, and resources. Users can extend the
// server with custom tools, prompts, and resources using functional options.
//
// # Basic Usage
//
// Credentials are read from AKIXI_HOST, AKIXI_USERNAME and AKIXI_PASSWORD.
// The server logs in on the first tool call:
//
//	server, err := mcpsrv.NewServer()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer server.Close()
//	server.Run(ctx)
//
// # Extension
//
// Add custom tools using MCP SDK types directly:
//
//	import mcp "github.com/modelcontextprotocol/go-sdk/mcp"
//
//	type MyInput struct {
//	    ReportID string `json:"report_id"`
//	}
//
//	type MyOutput struct {
//	    Rows int `json:"rows"`
//	}
//
//	server, err := mcpsrv.NewServer(
//	    mcpsrv.WithDepsTool(&mcp.Tool{Name: "row_count", Description: "Count rows"},
//	        func(d *mcpsrv.Deps) func(context.Context, *mcp.CallToolRequest, MyInput) (*mcp.CallToolResult, MyOutput, error) {
//	            ...
//	        }),
//	)
//
// # Configuration
//
// Configure logging and other options:
//
//	server, err := mcpsrv.NewServer(
//	    mcpsrv.WithLogLevel("debug"),
//	    mcpsrv.WithLogFile("/var/log/akixi-mcp.log"),
//	)
package mcpsrv

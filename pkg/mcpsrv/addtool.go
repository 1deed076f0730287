package mcpsrv

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tilde-nya/akixi/internal/mcp/tools"
)

// AddTool registers a tool with the server after checking its output type.
// Two mistakes panic at registration instead of failing the first call:
// nil slices that marshal to null where the inferred schema says "array",
// and raw JSON fields such as akixi.Result, which the SDK would describe as
// arrays of integers. Decode results into any before returning them.
//
// Use this instead of [sdkmcp.AddTool] to get the additional check.
func AddTool[In, Out any](srv *sdkmcp.Server, t *sdkmcp.Tool, h sdkmcp.ToolHandlerFor[In, Out]) {
	tools.AddTool(srv, t, h)
}

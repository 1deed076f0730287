package tools

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all tools with the MCP server.
func Register(srv *sdkmcp.Server, d *Deps) {
	// Tool 1: akixi_reports_list
	AddTool(srv, &sdkmcp.Tool{
		Name:        "akixi_reports_list",
		Description: "List the Akixi call reports available to the user. Filter by types (name or code), licensed, binned, or search words matched against the description (folders like 'Sales/' become words). Returns id, type_code, type_name, description, is_licensed, is_binned. Pass id to akixi_report_run.",
	}, ToolReportsList(d))

	// Tool 2: akixi_report_get
	AddTool(srv, &sdkmcp.Tool{
		Name:        "akixi_report_get",
		Description: "Get the metadata of one report by ID without executing it.",
	}, ToolReportGet(d))

	// Tool 3: akixi_report_types
	AddTool(srv, &sdkmcp.Tool{
		Name:        "akixi_report_types",
		Description: "List the known report type codes and names. Codes not in this table show as 'Unknown'.",
	}, ToolReportTypes())

	// Tool 4: akixi_report_run
	AddTool(srv, &sdkmcp.Tool{
		Name:        "akixi_report_run",
		Description: "Execute a report and return its result. Results are compacted by default (long arrays and strings trimmed); set compact=false for everything. Pass a jq expression to extract values instead of returning the whole result. Use akixi_report_schema first when the result shape is unknown.",
	}, ToolReportRun(d))

	// Tool 5: akixi_report_schema
	AddTool(srv, &sdkmcp.Tool{
		Name:        "akixi_report_schema",
		Description: "Execute a report and infer a JSON Schema describing its result. Use it to write jq expressions for akixi_report_run or a schema for akixi_report_validate.",
	}, ToolReportSchema(d))

	// Tool 6: akixi_report_validate
	AddTool(srv, &sdkmcp.Tool{
		Name:        "akixi_report_validate",
		Description: "Execute a report and validate its result against a JSON Schema. Returns valid and a list of 'path: message' errors.",
	}, ToolReportValidate(d))

	// Tool 7: akixi_logout
	AddTool(srv, &sdkmcp.Tool{
		Name:        "akixi_logout",
		Description: "End the Akixi session. The next tool call logs in again and refreshes the report list.",
	}, ToolLogout(d))
}

package prompts

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// HandleSummarizeReport implements the report summary workflow.
func HandleSummarizeReport(cfg *Config) func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
	return func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
		var report, focus string
		if args := req.Params.Arguments; args != nil {
			report = strings.TrimSpace(args["report"])
			focus = strings.TrimSpace(args["focus"])
		}

		var sb strings.Builder

		sb.WriteString("# Summarize an Akixi Call Report\n\n")
		sb.WriteString("You are a contact-centre analyst. Find the right report, understand the shape of its result, ")
		sb.WriteString("then pull only the values needed to answer the question.\n\n")

		if focus != "" {
			fmt.Fprintf(&sb, "**Question to answer**: %s\n\n", focus)
		}

		sb.WriteString("## Workflow Steps\n\n")
		sb.WriteString("1. **Find the report**\n")
		switch {
		case report == "":
			sb.WriteString("   - `akixi_reports_list()` and pick the report that matches the question\n")
		default:
			fmt.Fprintf(&sb, "   - If `%s` is an ID, confirm it with `akixi_report_get(report_id: %q)`\n", report, report)
			fmt.Fprintf(&sb, "   - Otherwise search: `akixi_reports_list(search: %q)`\n", report)
		}
		sb.WriteString("   - Skip binned reports unless asked; prefer licensed ones\n\n")

		sb.WriteString("2. **Inspect the shape**\n")
		sb.WriteString("   - `akixi_report_schema(report_id)` returns a JSON Schema of the result\n")
		sb.WriteString("   - The shape depends on the report type (`type_name`), so check it per report\n\n")

		sb.WriteString("3. **Pull the data**\n")
		sb.WriteString("   - Prefer a jq expression: `akixi_report_run(report_id, jq: \"...\")`\n")
		fmt.Fprintf(&sb, "   - Without jq the result is compacted: arrays keep their first %d items\n", cfg.CompactMaxArrayItems)
		sb.WriteString("   - Use `compact: false` only when every row is needed\n\n")

		sb.WriteString("4. **Summarize**\n")
		sb.WriteString("   - Lead with the answer, then the supporting figures\n")
		sb.WriteString("   - Name the report (description and type) the figures came from\n\n")

		sb.WriteString("## Errors\n\n")
		sb.WriteString("| Code | Meaning | Next step |\n")
		sb.WriteString("|------|---------|-----------|\n")
		sb.WriteString("| `NOT_FOUND` | No report with that ID | List reports again |\n")
		sb.WriteString("| `EXECUTION_FAILED` | The server refused to run the report | Report the message; try another report |\n")
		sb.WriteString("| `AUTH_FAILED` | Login rejected | Stop; credentials need fixing |\n")
		sb.WriteString("| `TIMEOUT` | The server was too slow | Retry once |\n")

		return &sdkmcp.GetPromptResult{
			Description: "Workflow for summarizing an Akixi call report",
			Messages: []*sdkmcp.PromptMessage{
				{
					Role:    "user",
					Content: &sdkmcp.TextContent{Text: sb.String()},
				},
			},
		}, nil
	}
}

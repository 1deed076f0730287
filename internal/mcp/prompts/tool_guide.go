package prompts

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// HandleToolGuide serves the tool usage guide.
func HandleToolGuide(cfg *Config) func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
	return func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
		var sb strings.Builder

		sb.WriteString("# Efficient Tool Usage Guide\n\n")

		sb.WriteString("## Finding Reports\n\n")
		sb.WriteString("| Goal | Parameter | Example |\n")
		sb.WriteString("|------|-----------|--------|\n")
		sb.WriteString("| Reports in a folder or by keyword | `search` | `search: \"sales daily\"` |\n")
		sb.WriteString("| Reports of a kind | `types` | `types: [\"Calls By Day\", \"53\"]` |\n")
		sb.WriteString("| Hide binned reports | `binned` | `binned: false` |\n")
		sb.WriteString("| Only licensed reports | `licensed` | `licensed: true` |\n")
		sb.WriteString("\n**Key rules**:\n")
		sb.WriteString("- `search` words are ANDed and matched against the description and type name\n")
		sb.WriteString("- The report list is fetched at login; call `akixi_logout` to refresh it\n")

		sb.WriteString("\n## Running Reports\n")
		fmt.Fprintf(&sb, "- **Compact by default**: arrays trimmed to %d items with a \"... (N more items)\" marker\n", cfg.CompactMaxArrayItems)
		sb.WriteString("- `jq` extracts values server-side and is cheaper than a full result\n")
		sb.WriteString("- `deduplicate: true` removes repeated jq values\n")
		sb.WriteString("- Every run executes the report again; results are never cached\n")

		sb.WriteString("\n## Understand Data Shape\n")
		sb.WriteString("1. `akixi_report_schema(report_id)` infers a JSON Schema from a live result\n")
		sb.WriteString("2. `akixi_report_validate(report_id, schema)` checks a result against a schema you supply\n")

		sb.WriteString("\n## JQ Quick Reference\n")
		sb.WriteString("- `. | keys` - List top-level keys\n")
		sb.WriteString("- `.Rows[] | select(.Calls > 10)` - Filter rows\n")
		sb.WriteString("- `[.Rows[].Calls] | add` - Total a column\n")

		return &sdkmcp.GetPromptResult{
			Description: "Essential guide for efficient tool usage",
			Messages: []*sdkmcp.PromptMessage{
				{
					Role:    "user",
					Content: &sdkmcp.TextContent{Text: sb.String()},
				},
			},
		}, nil
	}
}

package prompts

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all prompts with the MCP server.
func Register(srv *sdkmcp.Server, cfg *Config) {
	// Prompt 1: Summarize a report
	srv.AddPrompt(&sdkmcp.Prompt{
		Name:        "summarize_report",
		Description: "RECOMMENDED: Find an Akixi call report and summarize its result. Provides the workflow and keeps context cost low by inspecting the result shape before pulling data.",
		Arguments: []*sdkmcp.PromptArgument{
			{
				Name:        "report",
				Description: "Report ID, or words from its description (e.g. 'sales daily')",
				Required:    false,
			},
			{
				Name:        "focus",
				Description: "What the summary should answer (e.g. 'which agent missed the most calls')",
				Required:    false,
			},
		},
	}, HandleSummarizeReport(cfg))

	// Prompt 2: Tool usage guide
	srv.AddPrompt(&sdkmcp.Prompt{
		Name:        "tool_guide",
		Description: "Guide to the Akixi tools and how to combine them efficiently.",
	}, HandleToolGuide(cfg))
}

// Package prompts contains MCP prompt implementations for Akixi.
package prompts

// Config holds configuration needed by prompts.
type Config struct {
	CompactMaxArrayItems int
}

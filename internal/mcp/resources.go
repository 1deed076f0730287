package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tilde-nya/akixi/internal/mcp/tools"
)

// Resource URI scheme: akixi://
// Supported URIs:
//   akixi://types
//   akixi://report/{+id}

const uriScheme = "akixi://"

// registerResources registers resources, resource templates and their handlers.
func (s *Server) registerResources() {
	s.mcpServer.AddResource(&sdkmcp.Resource{
		URI:         uriScheme + "types",
		Name:        "Report Types",
		Description: "The report type table (code and name). The akixi_report_types tool returns the same data.",
		MIMEType:    tools.MimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.5,
		},
	}, s.handleResourceTypes)

	s.mcpServer.AddResourceTemplate(&sdkmcp.ResourceTemplate{
		URITemplate: uriScheme + "report/{+id}",
		Name:        "Report Result",
		Description: "Full, uncompacted result of executing a report. High context cost - akixi_report_run returns a compacted result and supports jq. Only fetch when every row is needed.",
		MIMEType:    tools.MimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.4,
		},
	}, s.handleResourceReport)
}

// Resource handlers

func (s *Server) handleResourceTypes(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	return toResourceResult(req.Params.URI, map[string]any{"types": tools.TypeTable()})
}

func (s *Server) handleResourceReport(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	id, err := parseReportURI(req.Params.URI)
	if err != nil {
		return nil, err
	}

	_, result, err := tools.ExecuteReport(ctx, s.deps, id)
	if err != nil {
		return nil, err
	}

	var value any
	if err := result.Decode(&value); err != nil {
		return nil, fmt.Errorf("decoding result: %w", err)
	}
	return toResourceResult(req.Params.URI, map[string]any{
		"report_id": id,
		"result":    value,
	})
}

// Helper functions

// parseReportURI extracts the report ID from an akixi://report/{+id} URI.
// The ID is everything after the prefix, percent-decoded, so IDs may
// contain slashes and spaces.
func parseReportURI(uri string) (string, error) {
	if !strings.HasPrefix(uri, uriScheme) {
		return "", tools.ErrInvalidInput("invalid URI scheme: expected akixi://")
	}
	raw, ok := strings.CutPrefix(strings.TrimPrefix(uri, uriScheme), "report/")
	if !ok || raw == "" {
		return "", tools.ErrInvalidInput("report URI requires a report ID")
	}
	id, err := url.PathUnescape(raw)
	if err != nil {
		return "", tools.ErrInvalidInput(fmt.Sprintf("invalid report ID encoding %q", raw))
	}
	return id, nil
}

// toResourceResult serializes content to a ReadResourceResult.
func toResourceResult(uri string, content any) (*sdkmcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serializing resource: %w", err)
	}

	return &sdkmcp.ReadResourceResult{
		Contents: []*sdkmcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: tools.MimeJSON,
				Text:     string(data),
			},
		},
	}, nil
}

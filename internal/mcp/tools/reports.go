package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tilde-nya/akixi/internal/catalog"
	"github.com/tilde-nya/akixi/pkg/akixi"
)

// ReportsListInput is the input for akixi_reports_list.
type ReportsListInput struct {
	Types    []string `json:"types,omitempty" jsonschema:"Only reports of these types, by name (Calls By Day) or code (52)"`
	Licensed *bool    `json:"licensed,omitempty" jsonschema:"Only licensed (true) or unlicensed (false) reports"`
	Binned   *bool    `json:"binned,omitempty" jsonschema:"Only binned (true) or active (false) reports"`
	Search   string   `json:"search,omitempty" jsonschema:"Words that must all appear in the description or type name"`
}

// ReportsListOutput is the output for akixi_reports_list.
type ReportsListOutput struct {
	Reports []akixi.ReportSummary `json:"reports,omitzero"`
	Matched int                   `json:"matched"`
	Total   int                   `json:"total"`
	ByType  map[string]int        `json:"by_type,omitempty" jsonschema:"Report count per type name across the whole catalog"`
}

// ToolReportsList lists the reports available to the user.
func ToolReportsList(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ReportsListInput) (*sdkmcp.CallToolResult, ReportsListOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ReportsListInput) (*sdkmcp.CallToolResult, ReportsListOutput, error) {
		types, err := catalog.ParseTypes(input.Types)
		if err != nil {
			return nil, ReportsListOutput{}, ErrInvalidInput(err.Error())
		}

		st, err := d.Sessions.Get(ctx)
		if err != nil {
			return nil, ReportsListOutput{}, WrapAkixiError(err)
		}

		found := st.Index.Find(catalog.Filter{
			Types:    types,
			Licensed: input.Licensed,
			Binned:   input.Binned,
			Text:     input.Search,
		})

		byType := make(map[string]int)
		for t, n := range st.Index.CountByType() {
			byType[t.String()] += n
		}

		return nil, ReportsListOutput{
			Reports: Summaries(found),
			Matched: len(found),
			Total:   st.Index.Len(),
			ByType:  byType,
		}, nil
	}
}

// ReportGetInput is the input for akixi_report_get.
type ReportGetInput struct {
	ReportID string `json:"report_id" jsonschema:"Report ID from akixi_reports_list"`
}

// ReportGetOutput is the output for akixi_report_get.
type ReportGetOutput struct {
	Report akixi.ReportSummary `json:"report"`
}

// ToolReportGet returns one report's metadata without executing it.
func ToolReportGet(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ReportGetInput) (*sdkmcp.CallToolResult, ReportGetOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ReportGetInput) (*sdkmcp.CallToolResult, ReportGetOutput, error) {
		if input.ReportID == "" {
			return nil, ReportGetOutput{}, ErrInvalidInput("report_id is required")
		}

		st, err := d.Sessions.Get(ctx)
		if err != nil {
			return nil, ReportGetOutput{}, WrapAkixiError(err)
		}

		r, err := st.Session.GetReport(input.ReportID)
		if err != nil {
			return nil, ReportGetOutput{}, WrapAkixiError(err)
		}
		return nil, ReportGetOutput{Report: r.Summary()}, nil
	}
}

// ReportTypesInput is the input for akixi_report_types.
type ReportTypesInput struct{}

// ReportTypeInfo describes one known report type.
type ReportTypeInfo struct {
	Code int    `json:"code"`
	Name string `json:"name"`
}

// ReportTypesOutput is the output for akixi_report_types.
type ReportTypesOutput struct {
	Types []ReportTypeInfo `json:"types,omitzero"`
}

// ToolReportTypes returns the report type table. It does not log in.
func ToolReportTypes() func(ctx context.Context, req *sdkmcp.CallToolRequest, input ReportTypesInput) (*sdkmcp.CallToolResult, ReportTypesOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ReportTypesInput) (*sdkmcp.CallToolResult, ReportTypesOutput, error) {
		return nil, ReportTypesOutput{Types: TypeTable()}, nil
	}
}

// TypeTable returns every known report type in code order.
func TypeTable() []ReportTypeInfo {
	known := akixi.ReportTypes()
	out := make([]ReportTypeInfo, len(known))
	for i, t := range known {
		out[i] = ReportTypeInfo{Code: int(t), Name: t.String()}
	}
	return out
}

// LogoutInput is the input for akixi_logout.
type LogoutInput struct{}

// LogoutOutput is the output for akixi_logout.
type LogoutOutput struct {
	WasActive    bool `json:"was_active"`
	Acknowledged bool `json:"acknowledged"`
}

// ToolLogout ends the current session. The next tool call logs in again.
func ToolLogout(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input LogoutInput) (*sdkmcp.CallToolResult, LogoutOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input LogoutInput) (*sdkmcp.CallToolResult, LogoutOutput, error) {
		active := d.Sessions.Active()
		ok, err := d.Sessions.Logout(ctx)
		if err != nil {
			return nil, LogoutOutput{}, WrapAkixiError(err)
		}
		return nil, LogoutOutput{WasActive: active, Acknowledged: ok}, nil
	}
}

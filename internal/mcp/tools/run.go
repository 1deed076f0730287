package tools

import (
	"context"
	"encoding/json"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tilde-nya/akixi/internal/preview"
	"github.com/tilde-nya/akixi/internal/query"
	"github.com/tilde-nya/akixi/internal/schema"
)

// ReportRunInput is the input for akixi_report_run.
type ReportRunInput struct {
	ReportID    string `json:"report_id" jsonschema:"Report ID from akixi_reports_list"`
	JQ          string `json:"jq,omitempty" jsonschema:"Optional jq expression applied to the result, e.g. '.Rows[] | .Name'"`
	Compact     *bool  `json:"compact,omitempty" jsonschema:"Trim long arrays and strings (default: true)"`
	Deduplicate bool   `json:"deduplicate,omitempty" jsonschema:"Drop duplicate jq output values"`
	MaxResults  int    `json:"max_results,omitempty" jsonschema:"Max jq output values (default: server setting)"`
}

// ReportRunOutput is the output for akixi_report_run.
type ReportRunOutput struct {
	ReportID    string         `json:"report_id"`
	Result      any            `json:"result,omitempty"`
	Values      []any          `json:"values,omitzero"`
	QueryErrors []string       `json:"query_errors,omitzero"`
	RawCount    int            `json:"raw_count,omitempty"`
	Truncated   bool           `json:"truncated,omitempty"`
	Compaction  *preview.Stats `json:"compaction,omitempty"`
	Hint        string         `json:"hint,omitempty"`
}

// ToolReportRun executes a report and returns its result, optionally
// filtered through jq and compacted for display.
func ToolReportRun(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ReportRunInput) (*sdkmcp.CallToolResult, ReportRunOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ReportRunInput) (*sdkmcp.CallToolResult, ReportRunOutput, error) {
		if input.JQ != "" {
			if err := d.Query.Validate(input.JQ); err != nil {
				return nil, ReportRunOutput{}, ErrInvalidInput(err.Error())
			}
		}

		_, result, err := ExecuteReport(ctx, d, input.ReportID)
		if err != nil {
			return nil, ReportRunOutput{}, err
		}

		out := ReportRunOutput{ReportID: input.ReportID}
		compact := input.Compact == nil || *input.Compact

		if input.JQ == "" {
			if !compact {
				var value any
				if err := result.Decode(&value); err != nil {
					return nil, ReportRunOutput{}, fmt.Errorf("decoding result: %w", err)
				}
				out.Result = value
				return nil, out, nil
			}

			v, stats, err := preview.Compact(result, d.Config.CompactOptions())
			if err != nil {
				return nil, ReportRunOutput{}, fmt.Errorf("decoding result: %w", err)
			}
			out.Result = v
			if stats.Trimmed() {
				out.Compaction = &stats
				out.Hint = "Result was compacted. Use jq to select the rows you need or set compact=false."
			}
			return nil, out, nil
		}

		qr, err := d.Query.Query(ctx, result, input.JQ, query.Options{
			Deduplicate: input.Deduplicate,
			MaxResults:  input.MaxResults,
		})
		if err != nil {
			return nil, ReportRunOutput{}, WrapAkixiError(err)
		}

		out.Values = qr.Values
		out.QueryErrors = qr.Errors
		out.RawCount = qr.RawCount
		out.Truncated = qr.Truncated
		if compact {
			for i, v := range out.Values {
				compacted, stats := preview.Value(v, d.Config.CompactOptions())
				out.Values[i] = compacted
				if stats.Trimmed() {
					if out.Compaction == nil {
						out.Compaction = &preview.Stats{}
					}
					out.Compaction.TrimmedArrays += stats.TrimmedArrays
					out.Compaction.DroppedItems += stats.DroppedItems
					out.Compaction.TruncatedTexts += stats.TruncatedTexts
				}
			}
		}

		switch {
		case len(out.Values) == 0 && len(out.QueryErrors) > 0:
			out.Hint = "The expression failed on this report. Use akixi_report_schema to see the result shape."
		case out.Truncated:
			out.Hint = "Values were truncated. Narrow the expression or raise max_results."
		}
		return nil, out, nil
	}
}

// ReportSchemaInput is the input for akixi_report_schema.
type ReportSchemaInput struct {
	ReportID string `json:"report_id" jsonschema:"Report ID from akixi_reports_list"`
}

// ReportSchemaOutput is the output for akixi_report_schema.
type ReportSchemaOutput struct {
	ReportID string         `json:"report_id"`
	TypeName string         `json:"type_name"`
	Schema   map[string]any `json:"schema,omitempty"`
}

// ToolReportSchema executes a report and infers a JSON Schema for its result.
func ToolReportSchema(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ReportSchemaInput) (*sdkmcp.CallToolResult, ReportSchemaOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ReportSchemaInput) (*sdkmcp.CallToolResult, ReportSchemaOutput, error) {
		st, result, err := ExecuteReport(ctx, d, input.ReportID)
		if err != nil {
			return nil, ReportSchemaOutput{}, err
		}

		inferred, err := schema.Infer(result)
		if err != nil {
			return nil, ReportSchemaOutput{}, fmt.Errorf("inferring schema: %w", err)
		}
		obj, err := toObject(inferred)
		if err != nil {
			return nil, ReportSchemaOutput{}, fmt.Errorf("serializing schema: %w", err)
		}

		out := ReportSchemaOutput{ReportID: input.ReportID, Schema: obj}
		if r, ok := st.Index.Lookup(input.ReportID); ok {
			out.TypeName = r.TypeName()
		}
		return nil, out, nil
	}
}

// ReportValidateInput is the input for akixi_report_validate.
type ReportValidateInput struct {
	ReportID string         `json:"report_id" jsonschema:"Report ID from akixi_reports_list"`
	Schema   map[string]any `json:"schema" jsonschema:"JSON Schema the result must satisfy"`
}

// ReportValidateOutput is the output for akixi_report_validate.
type ReportValidateOutput struct {
	ReportID string   `json:"report_id"`
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors,omitzero"`
}

// ToolReportValidate executes a report and validates its result against a
// JSON Schema. Messages are rendered for the session locale.
func ToolReportValidate(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ReportValidateInput) (*sdkmcp.CallToolResult, ReportValidateOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ReportValidateInput) (*sdkmcp.CallToolResult, ReportValidateOutput, error) {
		if len(input.Schema) == 0 {
			return nil, ReportValidateOutput{}, ErrInvalidInput("schema is required")
		}
		schemaJSON, err := json.Marshal(input.Schema)
		if err != nil {
			return nil, ReportValidateOutput{}, ErrInvalidInput(fmt.Sprintf("encoding schema: %v", err))
		}

		st, result, err := ExecuteReport(ctx, d, input.ReportID)
		if err != nil {
			return nil, ReportValidateOutput{}, err
		}

		v, err := schema.NewValidator(schemaJSON, st.Locale)
		if err != nil {
			return nil, ReportValidateOutput{}, ErrInvalidInput(err.Error())
		}

		vr := v.Validate(result)
		return nil, ReportValidateOutput{
			ReportID: input.ReportID,
			Valid:    vr.Valid,
			Errors:   vr.Errors,
		}, nil
	}
}

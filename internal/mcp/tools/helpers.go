// Package tools contains MCP tool implementations for Akixi.
package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tilde-nya/akixi/internal/session"
	"github.com/tilde-nya/akixi/pkg/akixi"
)

// MIME type constant.
const MimeJSON = "application/json"

// Summaries converts reports to their serialized form, keeping order.
func Summaries(reports []*akixi.Report) []akixi.ReportSummary {
	out := make([]akixi.ReportSummary, len(reports))
	for i, r := range reports {
		out[i] = r.Summary()
	}
	return out
}

// ExecuteReport resolves the session, finds the report and runs it.
// Errors are already coded.
func ExecuteReport(ctx context.Context, d *Deps, reportID string) (*session.State, akixi.Result, error) {
	if reportID == "" {
		return nil, nil, ErrInvalidInput("report_id is required")
	}

	st, err := d.Sessions.Get(ctx)
	if err != nil {
		return nil, nil, WrapAkixiError(err)
	}

	report, ok := st.Index.Lookup(reportID)
	if !ok {
		return nil, nil, WrapAkixiError(&akixi.NotFoundError{ID: reportID})
	}

	result, err := report.Execute(ctx)
	if err != nil {
		return nil, nil, WrapAkixiError(err)
	}
	return st, result, nil
}

// toObject round-trips v through JSON into a generic map.
func toObject(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decoding: %w", err)
	}
	return out, nil
}

package akixi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Report is a report available to the session's user. Reports are read-only
// snapshots taken at login.
type Report struct {
	session *Session

	id          string
	typeCode    ReportType
	typeName    string
	description string
	isLicensed  bool
	isBinned    bool
}

func newReport(s *Session, e listEntry) *Report {
	t := ReportType(e.Type)
	return &Report{
		session:     s,
		id:          e.ID,
		typeCode:    t,
		typeName:    t.String(),
		description: strings.ReplaceAll(e.Description, "\u00a0", " "),
		isLicensed:  e.IsLicensed,
		isBinned:    e.IsBinned,
	}
}

// ID returns the unique report ID.
func (r *Report) ID() string { return r.id }

// Type returns the raw report type code.
func (r *Report) Type() ReportType { return r.typeCode }

// TypeName returns the display name of the report type.
func (r *Report) TypeName() string { return r.typeName }

// Description returns the report name, including its folders.
func (r *Report) Description() string { return r.description }

// IsLicensed reports whether the user is licensed to run the report.
func (r *Report) IsLicensed() bool { return r.isLicensed }

// IsBinned reports whether the report is in the recycle bin.
func (r *Report) IsBinned() bool { return r.isBinned }

// Summary returns the report's fields as a plain value.
func (r *Report) Summary() ReportSummary {
	return ReportSummary{
		ID:          r.id,
		TypeCode:    int(r.typeCode),
		TypeName:    r.typeName,
		Description: r.description,
		IsLicensed:  r.isLicensed,
		IsBinned:    r.isBinned,
	}
}

// MarshalJSON encodes the report as its ReportSummary.
func (r *Report) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Summary())
}

// Execute runs the report and returns its raw results.
//
// The API signals failure only through a Message field in the response
// object, which is returned as an *ExecutionError. The status code is not
// inspected.
func (r *Report) Execute(ctx context.Context) (Result, error) {
	path := "/report/" + url.PathEscape(r.id) + "/exec"
	resp, err := r.session.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("executing report %q: %w", r.id, err)
	}

	if !json.Valid(resp.body) {
		return nil, fmt.Errorf("executing report %q: decoding response: invalid JSON (status %d)", r.id, resp.StatusCode)
	}
	if hasMessage(resp.body) {
		return nil, &ExecutionError{ReportID: r.id, Message: messageOf(resp.body)}
	}
	return Result(resp.body), nil
}

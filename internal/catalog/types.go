package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tilde-nya/akixi/pkg/akixi"
)

// ParseTypes resolves report type filters given as display names
// ("Calls By Day") or numeric codes ("52"). Codes missing from the type
// table are accepted since the server may know types this client does not.
func ParseTypes(values []string) ([]akixi.ReportType, error) {
	out := make([]akixi.ReportType, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if code, err := strconv.Atoi(v); err == nil {
			out = append(out, akixi.ReportType(code))
			continue
		}
		t, ok := akixi.ParseReportType(v)
		if !ok {
			return nil, fmt.Errorf("unknown report type %q", v)
		}
		out = append(out, t)
	}
	return out, nil
}

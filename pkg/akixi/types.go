package akixi

import (
	"encoding/json"
	"sort"
	"strings"
)

// ReportType classifies what a report shows.
type ReportType int

// Report types known to the Akixi API.
const (
	TypeActiveCallList          ReportType = 0
	TypeHistoricCallList        ReportType = 1
	TypeUnreturnedLostCalls     ReportType = 5
	TypeExtensionList           ReportType = 20
	TypeACDAgentList            ReportType = 21
	TypeHuntGroupList           ReportType = 22
	TypeTrunkInterfaceList      ReportType = 23
	TypeCallsByTelNo            ReportType = 40
	TypeCallsByDDI              ReportType = 41
	TypeCallsByHalfHourInterval ReportType = 50
	TypeCallsByHalfHourAndDay   ReportType = 51
	TypeCallsByDay              ReportType = 52
	TypeCallsByWeek             ReportType = 53
	TypeCallsByMonth            ReportType = 54
	TypeCallsByAccountCode      ReportType = 60
	TypeACDActivityLog          ReportType = 70
	TypeACDNotAvailableCodeList ReportType = 80
	TypeDesktopWallboard        ReportType = 100
	TypeExternalContent         ReportType = 101
)

// UnknownTypeName is the name of any report type code missing from the table.
const UnknownTypeName = "Unknown"

var typeNames = map[ReportType]string{
	TypeActiveCallList:          "Active Call List",
	TypeHistoricCallList:        "Historic Call List",
	TypeUnreturnedLostCalls:     "Unreturned Lost Calls",
	TypeExtensionList:           "Extension List",
	TypeACDAgentList:            "ACD Agent List",
	TypeHuntGroupList:           "Hunt Group List",
	TypeTrunkInterfaceList:      "Trunk Interface List",
	TypeCallsByTelNo:            "Calls By Tel No",
	TypeCallsByDDI:              "Calls By DDI",
	TypeCallsByHalfHourInterval: "Calls By ½ Hour Interval",
	TypeCallsByHalfHourAndDay:   "Calls By ½ Hour & Day",
	TypeCallsByDay:              "Calls By Day",
	TypeCallsByWeek:             "Calls By Week",
	TypeCallsByMonth:            "Calls By Month",
	TypeCallsByAccountCode:      "Calls By Account Code",
	TypeACDActivityLog:          "ACD Activity Log",
	TypeACDNotAvailableCodeList: "ACD Not-Available Code List",
	TypeDesktopWallboard:        "Desktop Wallboard",
	TypeExternalContent:         "External Content",
}

// String returns the display name of the type, or UnknownTypeName for codes
// the table does not list. New types added server-side resolve to Unknown
// rather than failing.
func (t ReportType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return UnknownTypeName
}

// Known reports whether the type code is in the table.
func (t ReportType) Known() bool {
	_, ok := typeNames[t]
	return ok
}

// ReportTypes returns every known report type in ascending code order.
func ReportTypes() []ReportType {
	out := make([]ReportType, 0, len(typeNames))
	for t := range typeNames {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ParseReportType looks up a report type by display name (case-insensitive).
func ParseReportType(name string) (ReportType, bool) {
	for t, n := range typeNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return t, true
		}
	}
	return 0, false
}

// Result is the raw JSON payload of an executed report. Its shape depends on
// the report type.
type Result json.RawMessage

// Decode unmarshals the payload into v.
func (r Result) Decode(v any) error {
	return json.Unmarshal(r, v)
}

// MarshalJSON returns the payload unchanged.
func (r Result) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}
	return r, nil
}

// ReportSummary is the serialized form of a Report.
type ReportSummary struct {
	ID          string `json:"id"`
	TypeCode    int    `json:"type_code"`
	TypeName    string `json:"type_name"`
	Description string `json:"description"`
	IsLicensed  bool   `json:"is_licensed"`
	IsBinned    bool   `json:"is_binned"`
}

package mcp

import (
	"context"
	"encoding/json"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilde-nya/akixi/internal/config"
	"github.com/tilde-nya/akixi/internal/mcp/tools"
	"github.com/tilde-nya/akixi/internal/query"
	"github.com/tilde-nya/akixi/internal/session"
	"github.com/tilde-nya/akixi/pkg/akixi/akixitest"
)

func newTestServer(t *testing.T) (*Server, *akixitest.Server) {
	t.Helper()
	fake := akixitest.NewServer(
		akixitest.Report{ID: "daily", Type: 52, Description: "Daily Calls", IsLicensed: true},
		akixitest.Report{ID: "Sales Team", Type: 52, Description: "Sales/Team", IsLicensed: true},
		akixitest.Report{ID: "Sales/Daily", Type: 43, Description: "Sales/Daily", IsLicensed: true},
	)
	t.Cleanup(fake.Close)
	fake.SetResult("daily", `{"Rows": [1, 2, 3, 4, 5, 6, 7]}`)
	fake.SetResult("Sales Team", `{"Rows": ["team"]}`)
	fake.SetResult("Sales/Daily", `{"Rows": ["daily"]}`)

	cfg := &config.Config{
		BaseURL:              fake.BaseURL(),
		Username:             akixitest.Username,
		Password:             akixitest.Password,
		Locale:               "en_GB",
		CompactMaxArrayItems: 2,
	}
	engine, err := query.NewEngine(4, 10)
	require.NoError(t, err)

	srv, err := NewServer(&tools.Deps{
		Sessions: session.NewProvider(cfg),
		Query:    engine,
		Config:   cfg,
	}, WithBuiltinTools(), WithBuiltinPrompts())
	require.NoError(t, err)
	return srv, fake
}

// connect attaches an in-memory MCP client to srv.
func connect(t *testing.T, srv *Server) *sdkmcp.ClientSession {
	t.Helper()
	ctx := context.Background()
	ct, st := sdkmcp.NewInMemoryTransports()

	ss, err := srv.MCPServer().Connect(ctx, st, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "akixi-test", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(ctx, ct, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })
	return cs
}

func readRequest(uri string) *sdkmcp.ReadResourceRequest {
	return &sdkmcp.ReadResourceRequest{Params: &sdkmcp.ReadResourceParams{URI: uri}}
}

func TestNewServer_RequiresDeps(t *testing.T) {
	_, err := NewServer(nil)
	assert.Error(t, err)
}

func TestParseReportURI(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"akixi://report/daily", "daily"},
		{"akixi://report/Sales/Daily", "Sales/Daily"},
		{"akixi://report/Sales%2FDaily", "Sales/Daily"},
		{"akixi://report/Sales%20Team", "Sales Team"},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			id, err := parseReportURI(tt.uri)
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}

	_, err := parseReportURI("akixi://report/bad%zz")
	var coded *tools.CodedError
	require.ErrorAs(t, err, &coded)
	assert.Equal(t, tools.ErrCodeInvalidInput, coded.Code)

	_, err = parseReportURI("http://report/x")
	assert.Error(t, err)

	_, err = parseReportURI("akixi://report/")
	assert.Error(t, err)

	_, err = parseReportURI("akixi://types")
	assert.Error(t, err)
}

func TestHandleResourceReport_Uncompacted(t *testing.T) {
	srv, _ := newTestServer(t)

	res, err := srv.handleResourceReport(context.Background(), readRequest("akixi://report/daily"))
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)

	var body struct {
		ReportID string `json:"report_id"`
		Result   struct {
			Rows []int `json:"Rows"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.Contents[0].Text), &body))
	assert.Equal(t, "daily", body.ReportID)
	assert.Len(t, body.Result.Rows, 7)
}

func TestHandleResourceReport_NotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	_, err := srv.handleResourceReport(context.Background(), readRequest("akixi://report/missing"))

	var coded *tools.CodedError
	require.ErrorAs(t, err, &coded)
	assert.Equal(t, tools.ErrCodeNotFound, coded.Code)
}

func TestReadResource_ReportIDsWithReservedCharacters(t *testing.T) {
	srv, _ := newTestServer(t)
	cs := connect(t, srv)

	tests := []struct {
		uri  string
		id   string
		rows string
	}{
		{"akixi://report/Sales%20Team", "Sales Team", "team"},
		{"akixi://report/Sales/Daily", "Sales/Daily", "daily"},
		{"akixi://report/Sales%2FDaily", "Sales/Daily", "daily"},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			res, err := cs.ReadResource(context.Background(), &sdkmcp.ReadResourceParams{URI: tt.uri})
			require.NoError(t, err)
			require.Len(t, res.Contents, 1)
			assert.Equal(t, tt.uri, res.Contents[0].URI)

			var body struct {
				ReportID string `json:"report_id"`
				Result   struct {
					Rows []string `json:"Rows"`
				} `json:"result"`
			}
			require.NoError(t, json.Unmarshal([]byte(res.Contents[0].Text), &body))
			assert.Equal(t, tt.id, body.ReportID)
			assert.Equal(t, []string{tt.rows}, body.Result.Rows)
		})
	}
}

func TestReadResource_UnknownReport(t *testing.T) {
	srv, _ := newTestServer(t)
	cs := connect(t, srv)

	_, err := cs.ReadResource(context.Background(), &sdkmcp.ReadResourceParams{URI: "akixi://report/Sales%20Missing"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `report "Sales Missing" not found`)
}

func TestHandleResourceTypes(t *testing.T) {
	srv, fake := newTestServer(t)

	res, err := srv.handleResourceTypes(context.Background(), readRequest("akixi://types"))
	require.NoError(t, err)
	assert.Contains(t, res.Contents[0].Text, "Calls By ½ Hour Interval")
	assert.Equal(t, 0, fake.Logins())
}

func TestServer_Shutdown(t *testing.T) {
	srv, fake := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, srv.Shutdown(ctx))
	assert.Equal(t, 0, fake.Logouts())

	_, _, err := tools.ExecuteReport(ctx, srv.deps, "daily")
	require.NoError(t, err)
	require.NoError(t, srv.Shutdown(ctx))
	assert.Equal(t, 1, fake.Logouts())
}

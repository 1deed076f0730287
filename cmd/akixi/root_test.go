package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/tilde-nya/akixi/pkg/akixi/akixitest"
)

func newFake(t *testing.T) *akixitest.Server {
	t.Helper()
	fake := akixitest.NewServer(
		akixitest.Report{ID: "daily", Type: 52, Description: "Sales/Daily Calls", IsLicensed: true},
		akixitest.Report{ID: "wall", Type: 100, Description: "Sales/Wallboard", IsLicensed: true, IsBinned: true},
		akixitest.Report{ID: "odd", Type: 4242, Description: "Legacy export"},
	)
	t.Cleanup(fake.Close)
	fake.SetResult("daily", `{"Rows": [{"Name": "Alice"}, {"Name": "Bob"}, {"Name": "Alice"}]}`)

	t.Setenv("AKIXI_HOST", "")
	t.Setenv("AKIXI_BASE_URL", fake.BaseURL())
	t.Setenv("AKIXI_USERNAME", akixitest.Username)
	t.Setenv("AKIXI_PASSWORD", akixitest.Password)
	t.Setenv("AKIXI_LOCALE", "en_GB")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LOG_FILE", "")
	return fake
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, _, err := executeApp(t, args...)
	return out, err
}

func executeApp(t *testing.T, args ...string) (string, *app, error) {
	t.Helper()
	a := &app{}
	cmd := newRootCmd(a)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := a.execute(context.Background(), cmd)
	return out.String(), a, err
}

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()

	assert.Equal(t, "akixi", cmd.Use)
	assert.NotEmpty(t, cmd.Version)

	output := cmd.PersistentFlags().Lookup("output")
	require.NotNil(t, output)
	assert.Equal(t, "o", output.Shorthand)
	assert.Equal(t, formatTable, output.DefValue)

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Subset(t, names, []string{"reports", "run", "types", "version"})
}

func TestReports_JSON(t *testing.T) {
	fake := newFake(t)

	out, err := execute(t, "reports", "-o", "json")
	require.NoError(t, err)

	var got []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 3)
	assert.Equal(t, "daily", got[0]["id"])
	assert.Equal(t, "Unknown", got[2]["type_name"])

	assert.Equal(t, 1, fake.Logins())
	assert.Equal(t, 1, fake.Logouts())
}

func TestReports_Filters(t *testing.T) {
	newFake(t)

	out, err := execute(t, "reports", "-o", "json", "--search", "sales", "--binned=false")
	require.NoError(t, err)

	var got []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "daily", got[0]["id"])

	out, err = execute(t, "reports", "-o", "json", "--type", "4242")
	require.NoError(t, err)

	var byCode []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &byCode))
	require.Len(t, byCode, 1)
	assert.Equal(t, "odd", byCode[0]["id"])
}

func TestReports_Table(t *testing.T) {
	newFake(t)

	out, err := execute(t, "reports")
	require.NoError(t, err)
	assert.Contains(t, out, "Sales/Wallboard")
	assert.Contains(t, out, "Desktop Wallboard")
}

func TestReports_UnknownType(t *testing.T) {
	fake := newFake(t)

	_, err := execute(t, "reports", "--type", "Calls By Fortnight")
	require.Error(t, err)
	assert.Equal(t, 0, fake.Logins())
}

func TestReports_MissingCredentials(t *testing.T) {
	newFake(t)
	t.Setenv("AKIXI_PASSWORD", "")

	_, err := execute(t, "reports")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AKIXI_PASSWORD is required")
}

func TestRun_YAML(t *testing.T) {
	newFake(t)

	out, err := execute(t, "run", "daily", "-o", "yaml")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	rows, ok := got["Rows"].([]any)
	require.True(t, ok)
	assert.Len(t, rows, 3)
}

func TestRun_JQ(t *testing.T) {
	newFake(t)

	out, err := execute(t, "run", "daily", "--jq", ".Rows[].Name", "--dedupe")
	require.NoError(t, err)

	var got []string
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, []string{"Alice", "Bob"}, got)
}

func TestRun_Compact(t *testing.T) {
	newFake(t)
	t.Setenv("COMPACT_MAX_ARRAY_ITEMS", "1")

	out, err := execute(t, "run", "daily", "--compact", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, "... (2 more items)")
}

func TestRun_ExecutionError(t *testing.T) {
	fake := newFake(t)

	_, err := execute(t, "run", "wall")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Report not available")
	assert.Equal(t, 1, fake.Logouts())
}

func TestRun_NotFound(t *testing.T) {
	newFake(t)

	_, err := execute(t, "run", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestRun_BadJQ(t *testing.T) {
	fake := newFake(t)

	_, err := execute(t, "run", "daily", "--jq", ".Rows[[")
	require.Error(t, err)
	assert.Equal(t, 0, fake.Logins())
}

func TestTypes(t *testing.T) {
	out, err := execute(t, "types", "-o", "json")
	require.NoError(t, err)

	var got []struct {
		Code int    `json:"code"`
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 19)
	assert.Equal(t, 52, got[11].Code)
	assert.Equal(t, "Calls By Day", got[11].Name)
}

func TestUnknownOutputFormat(t *testing.T) {
	_, err := execute(t, "types", "-o", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xml")
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "akixi version")
}

func TestExecute_ClosesLogFileWhenCommandFails(t *testing.T) {
	newFake(t)
	t.Setenv("LOG_FILE", filepath.Join(t.TempDir(), "akixi.log"))

	_, a, err := executeApp(t, "run", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `report "missing" not found`)
	assert.NotNil(t, a.cfg, "setup ran")
	assert.Nil(t, a.logCleanup)
}

func TestExecute_ClosesLogFileOnSuccess(t *testing.T) {
	newFake(t)
	t.Setenv("LOG_FILE", filepath.Join(t.TempDir(), "akixi.log"))

	_, a, err := executeApp(t, "types", "-o", "json")
	require.NoError(t, err)
	assert.Nil(t, a.logCleanup)
}

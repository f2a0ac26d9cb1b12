package system_tools

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thuanphamchezzi/skydeckai-code/internal/server"
	"github.com/thuanphamchezzi/skydeckai-code/internal/tools/registry"
	"github.com/thuanphamchezzi/skydeckai-code/internal/workspace"
)

func setup(t *testing.T) (*registry.Registry, string) {
	t.Helper()

	root := t.TempDir()
	sc, err := server.NewServerContext(context.Background(), workspace.NewAt(root))
	require.NoError(t, err)

	reg := registry.New()
	require.NoError(t, RegisterSystemTools(mcpserver.NewMCPServer("test", "0.0.0"), reg, sc, false))
	return reg, root
}

func invoke(t *testing.T, reg *registry.Registry, tool string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()

	handler, ok := reg.Lookup(tool)
	require.True(t, ok)

	req := mcp.CallToolRequest{}
	req.Params.Name = tool
	req.Params.Arguments = args

	result, err := handler(context.Background(), req)
	require.NoError(t, err)
	return result
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestSystemToolsAvailableInReadOnlyMode(t *testing.T) {
	sc, err := server.NewServerContext(context.Background(), workspace.NewAt(t.TempDir()))
	require.NoError(t, err)

	reg := registry.New()
	require.NoError(t, RegisterSystemTools(mcpserver.NewMCPServer("test", "0.0.0"), reg, sc, true))
	assert.ElementsMatch(t, []string{"get_system_info", "get_active_apps"}, reg.Names())
}

func TestGetSystemInfo(t *testing.T) {
	reg, root := setup(t)

	result := invoke(t, reg, "get_system_info", map[string]interface{}{})
	require.False(t, result.IsError)

	var info systemInfo
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &info))

	assert.Equal(t, root, info.WorkingDirectory)
	assert.NotEmpty(t, info.System.OS)
	assert.NotEmpty(t, info.System.Architecture)
	assert.NotEmpty(t, info.System.GoVersion)
	assert.Greater(t, info.CPU.LogicalCores, 0)
	assert.NotEmpty(t, info.Memory.Total)
	assert.Contains(t, info.Memory.UsedPercentage, "%")
	assert.NotEmpty(t, info.Disk.Total)
}

func TestHumanBytes(t *testing.T) {
	cases := []struct {
		in   uint64
		want string
	}{
		{0, "0.00B"},
		{512, "512.00B"},
		{1253656, "1.20MB"},
		{1253656678, "1.17GB"},
		{16 * 1024 * 1024 * 1024, "16.00GB"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, humanBytes(tc.in))
	}
}

func TestGetActiveApps(t *testing.T) {
	reg, _ := setup(t)

	result := invoke(t, reg, "get_active_apps", map[string]interface{}{})
	require.False(t, result.IsError)

	var report activeAppsReport
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &report))

	require.True(t, report.Success)
	assert.NotEmpty(t, report.Platform)
	assert.Equal(t, len(report.Apps), report.AppCount)
	// The test binary itself always shows up
	require.NotEmpty(t, report.Apps)
	for _, app := range report.Apps {
		assert.NotEmpty(t, app.Name)
		assert.GreaterOrEqual(t, app.InstanceCount, 1)
	}
}

func TestGetActiveAppsWithDetails(t *testing.T) {
	reg, _ := setup(t)

	result := invoke(t, reg, "get_active_apps", map[string]interface{}{
		"with_details": true,
	})
	require.False(t, result.IsError)

	var report activeAppsReport
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &report))
	require.True(t, report.Success)

	foundPID := false
	for _, app := range report.Apps {
		if app.PID != 0 {
			foundPID = true
			break
		}
	}
	assert.True(t, foundPID)
}

func TestActiveAppsSortedByName(t *testing.T) {
	apps, err := collectActiveApps(context.Background(), false)
	require.NoError(t, err)
	for i := 1; i < len(apps); i++ {
		assert.LessOrEqual(t,
			strings.ToLower(apps[i-1].Name), strings.ToLower(apps[i].Name))
	}
}

package system_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/thuanphamchezzi/skydeckai-code/internal/server"
	"github.com/thuanphamchezzi/skydeckai-code/internal/tools/common"
	"github.com/thuanphamchezzi/skydeckai-code/internal/tools/registry"
)

// RegisterSystemTools registers the host inspection tools. Both are
// read operations and remain available in read-only mode.
func RegisterSystemTools(s *mcpserver.MCPServer, reg *registry.Registry, sc *server.ServerContext, _ bool) error {
	systemInfoTool := mcp.NewTool("get_system_info",
		mcp.WithDescription("Get detailed system information about the host computer. "+
			"Returns a JSON object with the working directory path, OS details "+
			"(name, version, architecture), CPU information (cores, usage), "+
			"memory statistics (total, available, usage percentage), disk "+
			"information (total, free, usage percentage), and the current WiFi "+
			"network name when one can be determined. Useful for diagnosing "+
			"performance issues and verifying the operating environment."),
	)

	reg.Add(s, systemInfoTool, common.InstrumentedToolHandler("get_system_info", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetSystemInfo(ctx, request, sc)
		}))

	activeAppsTool := mcp.NewTool("get_active_apps",
		mcp.WithDescription("Get a list of currently active applications running on the user's system. "+
			"Returns a JSON object with platform information, success status, a "+
			"count of applications, and an array of application entries grouped "+
			"by process name. With details enabled each entry also carries the "+
			"PID, owning user, start time, and CPU and memory usage."),
		mcp.WithBoolean("with_details",
			mcp.Description("Whether to include additional details about each application: "+
				"PID, owning user, start time, CPU and memory usage. Default is false."),
		),
	)

	reg.Add(s, activeAppsTool, common.InstrumentedToolHandler("get_active_apps", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetActiveApps(ctx, request, sc)
		}))

	return nil
}

package path_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/thuanphamchezzi/skydeckai-code/internal/instrumentation"
	"github.com/thuanphamchezzi/skydeckai-code/internal/server"
	"github.com/thuanphamchezzi/skydeckai-code/internal/tools/common"
	"github.com/thuanphamchezzi/skydeckai-code/internal/tools/registry"
)

// RegisterPathTools registers the workspace root tools with the MCP server.
func RegisterPathTools(s *mcpserver.MCPServer, reg *registry.Registry, sc *server.ServerContext, readOnly bool) error {
	getTool := mcp.NewTool("get_allowed_directory",
		mcp.WithDescription("Get the current working directory that this server is allowed to access."),
	)

	reg.Add(s, getTool, common.InstrumentedToolHandler("get_allowed_directory", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetAllowedDirectory(ctx, request, sc)
		}))

	updateTool := mcp.NewTool("update_allowed_directory",
		mcp.WithDescription("Change the working directory that this server is allowed to access. "+
			"Use this to switch between different projects."),
		mcp.WithString("directory",
			mcp.Required(),
			mcp.Description("Directory to allow access to. Must be an absolute path. Use ~ to refer to the user's home directory."),
		),
	)

	reg.Add(s, updateTool, common.InstrumentedToolHandler("update_allowed_directory", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleUpdateAllowedDirectory(ctx, request, sc)
		}))

	return nil
}

func handleGetAllowedDirectory(_ context.Context, _ mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(fmt.Sprintf("Allowed directory: %s", sc.Workspace().Root())), nil
}

func handleUpdateAllowedDirectory(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	directory, err := common.StringArg(args, "directory")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if directory == "" {
		return mcp.NewToolResultError("directory must be provided"), nil
	}

	root, err := sc.Workspace().SetRoot(directory)
	if err != nil {
		sc.Metrics().RecordRootChange(ctx, instrumentation.StatusError)
		return mcp.NewToolResultError(err.Error()), nil
	}

	sc.Metrics().RecordRootChange(ctx, instrumentation.StatusSuccess)
	return mcp.NewToolResultText(fmt.Sprintf("Updated allowed directory to: %s", root)), nil
}

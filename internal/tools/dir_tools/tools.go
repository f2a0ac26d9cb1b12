package dir_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/thuanphamchezzi/skydeckai-code/internal/server"
	"github.com/thuanphamchezzi/skydeckai-code/internal/tools/common"
	"github.com/thuanphamchezzi/skydeckai-code/internal/tools/registry"
)

// RegisterDirTools registers the directory listing, creation, and tree
// tools. create_directory is skipped in read-only mode.
func RegisterDirTools(s *mcpserver.MCPServer, reg *registry.Registry, sc *server.ServerContext, readOnly bool) error {
	listTool := mcp.NewTool("list_directory",
		mcp.WithDescription("Get a detailed listing of files and directories in the specified path, "+
			"including type, size, and modification date. "+
			"Each line contains file type ([DIR]/[FILE]), name, size (in B/KB/MB), and modification date. "+
			"Only works within the allowed directory. "+
			"Example: Enter 'src' to list contents of the src directory, or '.' for current directory."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path of the directory to list. Examples: '.' for current directory, "+
				"'src' for src directory. The path must be within the allowed workspace."),
		),
	)

	reg.Add(s, listTool, common.InstrumentedToolHandler("list_directory", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListDirectory(ctx, request, sc)
		}))

	treeTool := mcp.NewTool("directory_tree",
		mcp.WithDescription("Get a recursive tree view of files and directories in the specified path "+
			"as a JSON structure. Each entry includes 'name', 'type' (file/directory), and 'children' for "+
			"directories. Files have no children array, while directories always have a children array "+
			"(which may be empty). The output is formatted with 2-space indentation for readability. "+
			"For Git repositories, shows tracked files only. Only works within the allowed directory. "+
			"Example: Enter '.' for current directory, or 'src' for a specific directory."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Root directory to analyze. Examples: '.' for current directory, "+
				"'src' for the src directory. Must be within the allowed workspace."),
		),
	)

	reg.Add(s, treeTool, common.InstrumentedToolHandler("directory_tree", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDirectoryTree(ctx, request, sc)
		}))

	if readOnly {
		return nil
	}

	createTool := mcp.NewTool("create_directory",
		mcp.WithDescription("Create a new directory or ensure a directory exists. "+
			"Can create multiple nested directories in one operation. "+
			"The operation succeeds silently if the directory already exists. "+
			"Only works within the allowed directory. "+
			"Example: Enter 'src/components' to create nested directories."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path of the directory to create. Can include nested directories "+
				"which will all be created. Must be within the allowed workspace."),
		),
	)

	reg.Add(s, createTool, common.InstrumentedToolHandlerWithOperation("create_directory", "write", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCreateDirectory(ctx, request, sc)
		}))

	return nil
}

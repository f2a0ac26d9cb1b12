package file_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/thuanphamchezzi/skydeckai-code/internal/server"
	"github.com/thuanphamchezzi/skydeckai-code/internal/tools/common"
	"github.com/thuanphamchezzi/skydeckai-code/internal/tools/registry"
)

// RegisterFileTools registers all file manipulation tools with the MCP
// server. Mutating tools are skipped in read-only mode.
func RegisterFileTools(s *mcpserver.MCPServer, reg *registry.Registry, sc *server.ServerContext, readOnly bool) error {
	readFileTool := mcp.NewTool("read_file",
		mcp.WithDescription("Read the complete contents of a file from the file system. "+
			"Handles various text encodings and provides detailed error messages "+
			"if the file cannot be read. Use this tool when you need to examine "+
			"the contents of a single file. Only works within the allowed directory. "+
			"Example: Enter 'src/main.py' to read a Python file."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the file to read"),
		),
	)

	reg.Add(s, readFileTool, common.InstrumentedToolHandlerWithOperation("read_file", "read", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleReadFile(ctx, request, sc)
		}))

	readMultipleTool := mcp.NewTool("read_multiple_files",
		mcp.WithDescription("Read the contents of multiple files simultaneously. "+
			"This is more efficient than reading files one by one when you need to analyze "+
			"or compare multiple files. Each file's content is returned with its "+
			"path as a reference. Failed reads for individual files won't stop "+
			"the entire operation. Only works within the allowed directory. "+
			"Example: Enter ['src/main.py', 'README.md'] to read both files."),
		mcp.WithArray("paths",
			mcp.Required(),
			mcp.Description("List of file paths to read"),
		),
	)

	reg.Add(s, readMultipleTool, common.InstrumentedToolHandlerWithOperation("read_multiple_files", "read", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleReadMultipleFiles(ctx, request, sc)
		}))

	searchFilesTool := mcp.NewTool("search_files",
		mcp.WithDescription("Search for files and directories matching a pattern. "+
			"The search is recursive and case-insensitive. "+
			"Only searches within the allowed directory. "+
			"Returns paths relative to the allowed directory. "+
			"Searches in file and directory names, not content. "+
			"Example: pattern='.py' finds all Python files, "+
			"pattern='test' finds all items with 'test' in the name."),
		mcp.WithString("pattern",
			mcp.Required(),
			mcp.Description("Pattern to search for in file and directory names"),
		),
		mcp.WithString("path",
			mcp.Description("Starting directory for the search (defaults to allowed directory)"),
		),
		mcp.WithBoolean("include_hidden",
			mcp.Description("Whether to include hidden files and directories (defaults to false)"),
		),
	)

	reg.Add(s, searchFilesTool, common.InstrumentedToolHandler("search_files", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSearchFiles(ctx, request, sc)
		}))

	fileInfoTool := mcp.NewTool("get_file_info",
		mcp.WithDescription("Get detailed information about a file or directory. "+
			"Returns size, creation time, modification time, access time, "+
			"type (file/directory), and permissions. "+
			"All times are in ISO 8601 format. "+
			"This tool is perfect for understanding file characteristics without reading the actual content. "+
			"Only works within the allowed directory. "+
			"Example: path='src/main.py' returns details about main.py"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the file or directory"),
		),
	)

	reg.Add(s, fileInfoTool, common.InstrumentedToolHandler("get_file_info", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetFileInfo(ctx, request, sc)
		}))

	readImageTool := mcp.NewTool("read_image_file",
		mcp.WithDescription("Read an image file from the file system and return its contents as a base64-encoded "+
			"data URI string prefixed with the appropriate MIME type (e.g., 'data:image/png;base64,...'). "+
			"Images with a width outside the 20-800 pixel range are automatically resized while maintaining "+
			"aspect ratio. Supports PNG, JPEG, GIF, and WebP. Only works within the allowed directory."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the image file to read. Both absolute and relative paths are supported, "+
				"but must be within the allowed workspace."),
		),
		mcp.WithNumber("max_size",
			mcp.Description("Maximum file size in bytes to allow. Files larger than this size will be rejected "+
				"to prevent memory issues. Default is 100MB (104,857,600 bytes)."),
		),
	)

	reg.Add(s, readImageTool, common.InstrumentedToolHandlerWithOperation("read_image_file", "read", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleReadImageFile(ctx, request, sc)
		}))

	if readOnly {
		return nil
	}

	writeFileTool := mcp.NewTool("write_file",
		mcp.WithDescription("Create a new file or overwrite an existing file with new content. "+
			"Use this to save changes, create new files, or update existing ones. "+
			"Use with caution as it will overwrite existing files without warning. "+
			"Path must be relative to the allowed directory. Creates parent directories if needed. "+
			"Example: Path='notes.txt', Content='Meeting notes for project X'"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path where to write the file"),
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("Content to write to the file"),
		),
	)

	reg.Add(s, writeFileTool, common.InstrumentedToolHandlerWithOperation("write_file", "write", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleWriteFile(ctx, request, sc)
		}))

	editFileTool := mcp.NewTool("edit_file",
		mcp.WithDescription("Make line-based edits to a text file. Each edit replaces exact line sequences "+
			"with new content. Returns a git-style diff showing the changes made. "+
			"Only works within the allowed directory. "+
			"Always use dryRun first to preview changes before applying them."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("File to edit"),
		),
		mcp.WithArray("edits",
			mcp.Required(),
			mcp.Description("List of edit operations, each with oldText (text to search for, can be a substring) "+
				"and newText (text to replace with)"),
		),
		mcp.WithBoolean("dryRun",
			mcp.Description("Preview changes without applying"),
		),
		mcp.WithObject("options",
			mcp.Description("Optional matching controls: preserveIndentation (default true), "+
				"normalizeWhitespace (default true), partialMatch (default true)"),
		),
	)

	reg.Add(s, editFileTool, common.InstrumentedToolHandlerWithOperation("edit_file", "write", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleEditFile(ctx, request, sc)
		}))

	moveFileTool := mcp.NewTool("move_file",
		mcp.WithDescription("Move or rename a file or directory to a new location. "+
			"This tool can be used to reorganize files and directories. "+
			"Both source and destination must be within the allowed directory. "+
			"If the destination already exists, the operation will fail. "+
			"Parent directories of the destination will be created if they don't exist. "+
			"Example: source='old.txt', destination='new/path/new.txt'"),
		mcp.WithString("source",
			mcp.Required(),
			mcp.Description("Source path of the file or directory to move"),
		),
		mcp.WithString("destination",
			mcp.Required(),
			mcp.Description("Destination path where to move the file or directory"),
		),
	)

	reg.Add(s, moveFileTool, common.InstrumentedToolHandlerWithOperation("move_file", "move", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleMoveFile(ctx, request, sc)
		}))

	copyFileTool := mcp.NewTool("copy_file",
		mcp.WithDescription("Copy a file or directory to a new location. "+
			"Directories are copied recursively. "+
			"Both source and destination must be within the allowed directory. "+
			"If the destination already exists, the operation will fail. "+
			"Parent directories of the destination will be created if they don't exist. "+
			"Example: source='config.json', destination='backup/config.json'"),
		mcp.WithString("source",
			mcp.Required(),
			mcp.Description("Source path of the file or directory to copy"),
		),
		mcp.WithString("destination",
			mcp.Required(),
			mcp.Description("Destination path where to copy the file or directory"),
		),
		mcp.WithBoolean("recursive",
			mcp.Description("Whether to copy directories recursively (defaults to true)"),
		),
	)

	reg.Add(s, copyFileTool, common.InstrumentedToolHandlerWithOperation("copy_file", "write", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCopyFile(ctx, request, sc)
		}))

	deleteFileTool := mcp.NewTool("delete_file",
		mcp.WithDescription("Delete a file or empty directory from the file system. "+
			"Use with caution as this operation cannot be undone. "+
			"For safety, this tool will not delete non-empty directories. "+
			"Only works within the allowed directory. "+
			"Example: path='old_file.txt' removes the specified file."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the file or empty directory to delete"),
		),
	)

	reg.Add(s, deleteFileTool, common.InstrumentedToolHandlerWithOperation("delete_file", "delete", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDeleteFile(ctx, request, sc)
		}))

	return nil
}

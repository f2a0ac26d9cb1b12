package file_tools

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/thuanphamchezzi/skydeckai-code/internal/server"
	"github.com/thuanphamchezzi/skydeckai-code/internal/tools/common"
	"github.com/thuanphamchezzi/skydeckai-code/internal/workspace"
)

// readSingleFile validates a path against the workspace and reads it as
// UTF-8 text.
func readSingleFile(ws *workspace.Workspace, path string) (string, error) {
	full, err := ws.Resolve(path)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(full)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("file does not exist: %s", full)
	}
	if err != nil {
		return "", fmt.Errorf("error reading file: %v", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("path is not a file: %s", full)
	}

	data, err := os.ReadFile(full)
	if err != nil {
		if os.IsPermission(err) {
			return "", fmt.Errorf("permission denied reading file: %s", full)
		}
		return "", fmt.Errorf("error reading file: %v", err)
	}

	if !utf8.Valid(data) {
		return "", fmt.Errorf("file is not a text file or has unknown encoding: %s", full)
	}

	return string(data), nil
}

func handleReadFile(_ context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	path, err := common.StringArg(args, "path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	content, err := readSingleFile(sc.Workspace(), path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(content), nil
}

func handleReadMultipleFiles(_ context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	raw, ok := args["paths"]
	if !ok {
		return mcp.NewToolResultError("paths list cannot be empty"), nil
	}
	items, ok := raw.([]interface{})
	if !ok {
		return mcp.NewToolResultError("paths must be a list of strings"), nil
	}
	if len(items) == 0 {
		return mcp.NewToolResultError("paths list cannot be empty"), nil
	}

	paths := make([]string, 0, len(items))
	for _, item := range items {
		path, ok := item.(string)
		if !ok {
			return mcp.NewToolResultError("all paths must be strings"), nil
		}
		paths = append(paths, path)
	}

	// Failed reads for individual files do not stop the operation; each
	// file's section reports either its content or the error.
	var b strings.Builder
	for _, path := range paths {
		b.WriteString(fmt.Sprintf("\n==> %s <==\n", path))
		content, err := readSingleFile(sc.Workspace(), path)
		if err != nil {
			b.WriteString(fmt.Sprintf("Error: %s\n", err))
			continue
		}
		b.WriteString(content)
	}

	return mcp.NewToolResultText(b.String()), nil
}

package dir_tools

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/thuanphamchezzi/skydeckai-code/internal/server"
	"github.com/thuanphamchezzi/skydeckai-code/internal/tools/common"
)

func handleListDirectory(_ context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	path, err := common.OptionalStringArg(args, "path", ".")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	full, err := sc.Workspace().Resolve(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	info, err := os.Stat(full)
	if os.IsNotExist(err) {
		return mcp.NewToolResultError(fmt.Sprintf("path does not exist: %s", path)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error listing directory: %v", err)), nil
	}
	if !info.IsDir() {
		return mcp.NewToolResultError(fmt.Sprintf("path is not a directory: %s", path)), nil
	}

	dirEntries, err := os.ReadDir(full)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("permission denied accessing: %s", path)), nil
	}

	lines := make([]string, 0, len(dirEntries))
	for _, entry := range dirEntries {
		entryInfo, err := entry.Info()
		if err != nil {
			continue
		}

		entryType := "[FILE]"
		if entry.IsDir() {
			entryType = "[DIR]"
		}
		modTime := entryInfo.ModTime().Format("2006-01-02 15:04:05")
		lines = append(lines, fmt.Sprintf("%s %-30s %8s %s",
			entryType, entry.Name(), humanSize(entryInfo.Size()), modTime))
	}

	sort.Strings(lines)
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

// humanSize renders a byte count as B, KB, or MB.
func humanSize(size int64) string {
	switch {
	case size >= 1024*1024:
		return fmt.Sprintf("%.1fMB", float64(size)/(1024*1024))
	case size >= 1024:
		return fmt.Sprintf("%.1fKB", float64(size)/1024)
	default:
		return fmt.Sprintf("%dB", size)
	}
}

func handleCreateDirectory(_ context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	path, err := common.StringArg(args, "path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if path == "" {
		return mcp.NewToolResultError("path must be provided"), nil
	}

	full, err := sc.Workspace().Resolve(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	_, statErr := os.Stat(full)
	alreadyExists := statErr == nil

	if err := os.MkdirAll(full, 0o755); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error creating directory: %v", err)), nil
	}

	if alreadyExists {
		return mcp.NewToolResultText(fmt.Sprintf("Directory already exists: %s", path)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Successfully created directory: %s", path)), nil
}

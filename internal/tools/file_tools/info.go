package file_tools

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/thuanphamchezzi/skydeckai-code/internal/server"
	"github.com/thuanphamchezzi/skydeckai-code/internal/tools/common"
)

const isoTimeFormat = "2006-01-02T15:04:05.999999"

func handleGetFileInfo(_ context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	path, err := common.StringArg(args, "path")
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
		return mcp.NewToolResultError(fmt.Sprintf("error getting file info: %v", err)), nil
	}

	fileType := "file"
	if info.IsDir() {
		fileType = "directory"
	}

	accessed, created := fileTimes(info)

	text := fmt.Sprintf(`Type: %s
Size: %s bytes
Created: %s
Modified: %s
Accessed: %s
Permissions: %s`,
		fileType,
		groupThousands(info.Size()),
		created.Format(isoTimeFormat),
		info.ModTime().Format(isoTimeFormat),
		accessed.Format(isoTimeFormat),
		info.Mode().String(),
	)

	return mcp.NewToolResultText(text), nil
}

// groupThousands formats n with comma separators (1234567 -> "1,234,567").
func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var out []byte
	lead := len(s) % 3
	if lead > 0 {
		out = append(out, s[:lead]...)
	}
	for i := lead; i < len(s); i += 3 {
		if len(out) > 0 {
			out = append(out, ',')
		}
		out = append(out, s[i:i+3]...)
	}
	return string(out)
}

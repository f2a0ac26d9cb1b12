package exec_tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/thuanphamchezzi/skydeckai-code/internal/server"
	"github.com/thuanphamchezzi/skydeckai-code/internal/tools/common"
)

const (
	defaultShellTimeout = 300
	maxShellTimeout     = 600
)

func handleExecuteShellScript(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	script, err := common.StringArg(args, "script")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if script == "" {
		return mcp.NewToolResultError("script must be provided"), nil
	}
	timeoutSecs, err := common.OptionalIntArg(args, "timeout", defaultShellTimeout)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if timeoutSecs < 1 {
		timeoutSecs = 1
	}
	if timeoutSecs > maxShellTimeout {
		timeoutSecs = maxShellTimeout
	}

	root := sc.Workspace().Root()
	tempFile := filepath.Join(root, fmt.Sprintf("tmp_script_%s.sh", uuid.NewString()[:8]))

	contents := "#!/bin/sh\n" + script
	if err := os.WriteFile(tempFile, []byte(contents), 0o755); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error executing shell script: %v", err)), nil
	}
	defer os.Remove(tempFile)

	res := runCommand(ctx, root, time.Duration(timeoutSecs)*time.Second, "/bin/sh", tempFile)
	return mcp.NewToolResultText(formatExecResult(res, "Script executed successfully with no output", "Script")), nil
}

package meta_tools

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/thuanphamchezzi/skydeckai-code/internal/server"
	"github.com/thuanphamchezzi/skydeckai-code/internal/tools/batch"
	"github.com/thuanphamchezzi/skydeckai-code/internal/tools/common"
)

func handleBatchTools(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext, dispatcher *batch.Dispatcher) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	description, err := common.StringArg(args, "description")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sequential, err := common.OptionalBoolArg(args, "sequential", false)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	invocations, err := batch.ParseInvocations(args["invocations"])
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	start := time.Now()
	report, err := dispatcher.Run(ctx, description, invocations, sequential)
	if err != nil {
		// Admission failures reject the whole batch before any tool runs
		return mcp.NewToolResultError(err.Error()), nil
	}

	status := "success"
	if !report.AllSucceeded() {
		status = "error"
	}
	sc.Metrics().RecordBatchDispatch(ctx, report.Mode(), status, len(invocations), time.Since(start))

	return mcp.NewToolResultText(report.Render()), nil
}

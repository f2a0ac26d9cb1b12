package meta_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/thuanphamchezzi/skydeckai-code/internal/server"
	"github.com/thuanphamchezzi/skydeckai-code/internal/tools/batch"
	"github.com/thuanphamchezzi/skydeckai-code/internal/tools/common"
	"github.com/thuanphamchezzi/skydeckai-code/internal/tools/registry"
)

// RegisterMetaTools registers the batch dispatcher front door and the
// think tool. The dispatcher runs against the shared registry, so
// batches can only reach tools that are themselves registered; in
// read-only mode that already excludes every mutating tool.
func RegisterMetaTools(s *mcpserver.MCPServer, reg *registry.Registry, sc *server.ServerContext, _ bool) error {
	dispatcher := batch.NewDispatcher(reg)

	batchTool := mcp.NewTool("batch_tools",
		mcp.WithDescription("Execute multiple tool invocations in a single request. "+
			"Invocations run in parallel by default, or in order when sequential "+
			"is set, in which case the first failure stops the remaining "+
			"invocations. The whole batch is validated before anything runs: an "+
			"unknown tool name rejects every invocation. Each invocation's "+
			"result is captured in a combined report. Note that all tools "+
			"operate relative to the current allowed directory."),
		mcp.WithString("description",
			mcp.Required(),
			mcp.Description("A short description of what this batch accomplishes"),
		),
		mcp.WithArray("invocations",
			mcp.Required(),
			mcp.Description("List of tool invocations to execute, each an object with a 'tool' "+
				"name and an 'arguments' object"),
		),
		mcp.WithBoolean("sequential",
			mcp.Description("Whether to run invocations in order, stopping at the first failure "+
				"(default: false, run in parallel)"),
		),
	)

	reg.Add(s, batchTool, common.InstrumentedToolHandler("batch_tools", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleBatchTools(ctx, request, sc, dispatcher)
		}))

	thinkTool := mcp.NewTool("think",
		mcp.WithDescription("Use the tool to think about something. It will not obtain new "+
			"information or make any changes to the repository, but just log the "+
			"thought. Use it when complex reasoning or brainstorming is needed. "+
			"The tool simply returns the thought so it appears in the "+
			"conversation transcript."),
		mcp.WithString("thought",
			mcp.Required(),
			mcp.Description("A thought to think about. This can be structured reasoning, "+
				"step-by-step analysis, policy verification, or any other mental process"),
		),
	)

	reg.Add(s, thinkTool, common.InstrumentedToolHandler("think", sc, handleThink))

	return nil
}

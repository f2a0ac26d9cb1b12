package meta_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/thuanphamchezzi/skydeckai-code/internal/tools/common"
)

func handleThink(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	thought, err := common.StringArg(request.GetArguments(), "thought")
	if err != nil || thought == "" {
		return mcp.NewToolResultError("Thought must be provided"), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"# Thought Process\n\n%s\n\n---\n*Note: This is a thinking tool used for reasoning and brainstorming. No changes were made to the repository.*",
		thought)), nil
}

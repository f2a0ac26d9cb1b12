package exec_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/thuanphamchezzi/skydeckai-code/internal/server"
	"github.com/thuanphamchezzi/skydeckai-code/internal/tools/common"
	"github.com/thuanphamchezzi/skydeckai-code/internal/tools/registry"
)

// RegisterExecTools registers the code and shell execution tools. Both
// run arbitrary programs, so they are unavailable in read-only mode.
func RegisterExecTools(s *mcpserver.MCPServer, reg *registry.Registry, sc *server.ServerContext, readOnly bool) error {
	if readOnly {
		return nil
	}

	executeCodeTool := mcp.NewTool("execute_code",
		mcp.WithDescription("Execute arbitrary code in various programming languages on the user's local machine "+
			"within the current working directory. Useful for quick prototyping, data transformations, or "+
			"demonstrating how code works with running examples. Returns text output including stdout, stderr, "+
			"and exit code of the execution. The output sections are clearly labeled with '=== stdout ===' and "+
			"'=== stderr ==='. Supported languages: python, javascript, ruby, php, go, rust. "+
			"Always review the code carefully before execution to prevent unintended consequences. "+
			"Examples: Python: code='print(sum(range(10)))'. "+
			"JavaScript: code='console.log(Array.from({length: 5}, (_, i) => i*2))'."),
		mcp.WithString("language",
			mcp.Required(),
			mcp.Description("Programming language to use. Must be one of: python, javascript, ruby, php, go, rust. "+
				"Each language requires the appropriate runtime to be installed on the user's machine."),
		),
		mcp.WithString("code",
			mcp.Required(),
			mcp.Description("Code to execute. The code will be saved to a temporary file and executed within "+
				"the allowed workspace. For Go and Rust, main function wrappers will be added automatically "+
				"if not present. For PHP, <?php will be prepended if not present."),
		),
		mcp.WithNumber("timeout",
			mcp.Description("Maximum execution time in seconds. Must be between 1 and 30 seconds. Default is 5."),
		),
	)

	reg.Add(s, executeCodeTool, common.InstrumentedToolHandlerWithOperation("execute_code", "execute", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleExecuteCode(ctx, request, sc)
		}))

	shellTool := mcp.NewTool("execute_shell_script",
		mcp.WithDescription("Execute a shell script (bash/sh) on the user's local machine within the current "+
			"working directory. Useful for file system operations, system configuration, running linters, or "+
			"version control operations. Returns text output including stdout, stderr, and exit code of the "+
			"execution. The output sections are clearly labeled with '=== stdout ===' and '=== stderr ==='. "+
			"The script is executed using /bin/sh for maximum compatibility across systems. "+
			"Always review the script carefully before execution to prevent unintended consequences. "+
			"Examples: script='echo \"Current directory:\" && pwd'. "+
			"script='git init && git add . && git commit -m \"Initial commit\"'."),
		mcp.WithString("script",
			mcp.Required(),
			mcp.Description("Shell script to execute. Can include any valid shell commands that would run "+
				"in a standard shell environment."),
		),
		mcp.WithNumber("timeout",
			mcp.Description("Maximum execution time in seconds. Default is 300 seconds (5 minutes), "+
				"with a maximum allowed value of 600 seconds (10 minutes)."),
		),
	)

	reg.Add(s, shellTool, common.InstrumentedToolHandlerWithOperation("execute_shell_script", "execute", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleExecuteShellScript(ctx, request, sc)
		}))

	return nil
}

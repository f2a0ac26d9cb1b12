package code_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/thuanphamchezzi/skydeckai-code/internal/server"
	"github.com/thuanphamchezzi/skydeckai-code/internal/tools/common"
	"github.com/thuanphamchezzi/skydeckai-code/internal/tools/registry"
)

// RegisterCodeTools registers the content search and codebase mapping
// tools. Both are read-only and available in every mode.
func RegisterCodeTools(s *mcpserver.MCPServer, reg *registry.Registry, sc *server.ServerContext, _ bool) error {
	searchTool := mcp.NewTool("search_code",
		mcp.WithDescription("Fast content search tool using regular expressions. "+
			"Use this to find function definitions, variable usages, import statements, or any text "+
			"pattern in source code files. Returns lines of code matching the specified pattern, "+
			"grouped by file with line numbers. Results are sorted by file modification time with "+
			"newest files first. Ignores binary files. Search is restricted to the allowed directory."),
		mcp.WithString("pattern",
			mcp.Required(),
			mcp.Description("Regular expression pattern to search for in file contents. "+
				"Examples: 'function\\s+\\w+' to find function declarations, "+
				"'import\\s+.*from' to find import statements."),
		),
		mcp.WithString("include",
			mcp.Description("File pattern to include in the search. Supports glob patterns. "+
				"Examples: '*.js' for all JavaScript files, '*.{ts,tsx}' for TypeScript files. Default is '*'."),
		),
		mcp.WithString("exclude",
			mcp.Description("File pattern to exclude from the search. Supports glob patterns. "+
				"Example: 'node_modules/**' to exclude node_modules."),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of matching results to return. Default is 100."),
		),
		mcp.WithBoolean("case_sensitive",
			mcp.Description("Whether to perform a case-sensitive search. Default is false."),
		),
		mcp.WithString("path",
			mcp.Description("Base directory to search from. Default is the root of the allowed directory."),
		),
	)

	reg.Add(s, searchTool, common.InstrumentedToolHandler("search_code", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSearchCode(ctx, request, sc)
		}))

	mapperTool := mcp.NewTool("codebase_mapper",
		mcp.WithDescription("Build a structural map of source code files in a directory. "+
			"This tool analyzes code structure to identify classes, functions, and methods. "+
			"Supported languages: Python, JavaScript, TypeScript, Java, C++, Ruby, Go, Rust, PHP, "+
			"C#, Kotlin. Returns a text-based tree structure showing classes and functions in the "+
			"codebase, along with statistics about found elements. Only analyzes files within the "+
			"allowed directory. Example: Enter '.' to analyze all source files in the current directory."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Root directory to analyze. Examples: '.' for current directory, "+
				"'src' for the src directory. Must be within the allowed workspace."),
		),
	)

	reg.Add(s, mapperTool, common.InstrumentedToolHandler("codebase_mapper", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCodebaseMapper(ctx, request, sc)
		}))

	return nil
}

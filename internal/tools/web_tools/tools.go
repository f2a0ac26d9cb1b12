package web_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/thuanphamchezzi/skydeckai-code/internal/server"
	"github.com/thuanphamchezzi/skydeckai-code/internal/tools/common"
	"github.com/thuanphamchezzi/skydeckai-code/internal/tools/registry"
)

// RegisterWebTools registers the web fetch and web search tools.
// Both are network reads, so they stay available in read-only mode.
func RegisterWebTools(s *mcpserver.MCPServer, reg *registry.Registry, sc *server.ServerContext, _ bool) error {
	webFetchTool := mcp.NewTool("web_fetch",
		mcp.WithDescription("Fetches content from a URL. Retrieves content from web pages, APIs, or other "+
			"HTTP/HTTPS resources. HTML pages are converted to markdown by default for "+
			"better readability. Binary content is reported by size and type, and any "+
			"content can optionally be saved to a file within the allowed directory. "+
			"Example: url='https://example.com/data.json'"),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("URL to fetch content from (must include http:// or https:// scheme)"),
		),
		mcp.WithObject("headers",
			mcp.Description("Optional HTTP headers to include in the request"),
		),
		mcp.WithNumber("timeout",
			mcp.Description("Maximum time to wait for a response in seconds (default: 10)"),
		),
		mcp.WithString("save_to_file",
			mcp.Description("Optional path to save the response content to, relative to the allowed directory"),
		),
		mcp.WithBoolean("convert_html_to_markdown",
			mcp.Description("Whether to convert HTML content to markdown (default: true)"),
		),
	)

	reg.Add(s, webFetchTool, common.InstrumentedToolHandlerWithOperation("web_fetch", "fetch", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleWebFetch(ctx, request, sc)
		}))

	webSearchTool := mcp.NewTool("web_search",
		mcp.WithDescription("Performs a web search and returns the search results. "+
			"Supports Bing and DuckDuckGo; in 'auto' mode engines are tried in order "+
			"until one returns results. Results include titles, URLs, and snippets "+
			"formatted as markdown. "+
			"Example: query='latest python release'"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("The search query to process"),
		),
		mcp.WithNumber("num_results",
			mcp.Description("Number of search results to return (default: 10, maximum: 20)"),
		),
		mcp.WithBoolean("convert_html_to_markdown",
			mcp.Description("Whether to convert HTML in titles and snippets to markdown (default: true)"),
		),
		mcp.WithString("search_engine",
			mcp.Description("Which search engine to use: 'auto' (default), 'bing', or 'duckduckgo'"),
		),
	)

	reg.Add(s, webSearchTool, common.InstrumentedToolHandlerWithOperation("web_search", "search", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleWebSearch(ctx, request, sc)
		}))

	return nil
}

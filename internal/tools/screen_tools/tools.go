package screen_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/thuanphamchezzi/skydeckai-code/internal/server"
	"github.com/thuanphamchezzi/skydeckai-code/internal/tools/common"
	"github.com/thuanphamchezzi/skydeckai-code/internal/tools/registry"
)

// RegisterScreenTools registers the screenshot tool. Capturing writes
// a PNG into the workspace, so the tool is skipped in read-only mode.
func RegisterScreenTools(s *mcpserver.MCPServer, reg *registry.Registry, sc *server.ServerContext, readOnly bool) error {
	if readOnly {
		return nil
	}

	captureTool := mcp.NewTool("capture_screenshot",
		mcp.WithDescription("Capture a screenshot of the current screen and save it to a file. "+
			"Captures the entire screen, a numbered display, or a rectangular region "+
			"of one, and saves it as a PNG inside the allowed directory. "+
			"Returns a JSON object with success status, the saved file path, and a "+
			"message, or a detailed error when the capture fails. "+
			"Example: output_path='screenshots/main_window.png'"),
		mcp.WithString("output_path",
			mcp.Description("Optional path where the screenshot should be saved, relative to the "+
				"allowed directory. If not provided, a timestamped file under "+
				"'screenshots/' is used."),
		),
		mcp.WithObject("capture_mode",
			mcp.Description("What to capture: type 'full' (default) for the whole display, or "+
				"'region' with a region object {left, top, width, height}. The "+
				"optional 'display' number selects a monitor, starting at 0."),
		),
	)

	reg.Add(s, captureTool, common.InstrumentedToolHandlerWithOperation("capture_screenshot", "write", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCaptureScreenshot(ctx, request, sc)
		}))

	return nil
}

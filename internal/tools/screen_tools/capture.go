package screen_tools

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kbinani/screenshot"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/thuanphamchezzi/skydeckai-code/internal/server"
	"github.com/thuanphamchezzi/skydeckai-code/internal/tools/common"
)

type captureResult struct {
	Success bool   `json:"success"`
	Path    string `json:"path,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func captureReport(res captureResult) *mcp.CallToolResult {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error capturing screenshot: %v", err))
	}
	return mcp.NewToolResultText(string(data))
}

func defaultScreenshotPath() string {
	return filepath.Join("screenshots",
		fmt.Sprintf("screenshot_%s.png", time.Now().Format("20060102_150405")))
}

// captureBounds works out the screen rectangle to grab based on the
// capture_mode argument: the whole named display, or a region of it.
func captureBounds(mode map[string]interface{}) (image.Rectangle, error) {
	displayCount := screenshot.NumActiveDisplays()
	if displayCount == 0 {
		return image.Rectangle{}, fmt.Errorf("no active displays found, screen capture is not available on this host")
	}

	displayIdx := 0
	if raw, ok := mode["display"]; ok {
		switch v := raw.(type) {
		case float64:
			displayIdx = int(v)
		case int:
			displayIdx = v
		default:
			return image.Rectangle{}, fmt.Errorf("display must be a number")
		}
	}
	if displayIdx < 0 || displayIdx >= displayCount {
		return image.Rectangle{}, fmt.Errorf("display %d does not exist, %d display(s) available", displayIdx, displayCount)
	}
	bounds := screenshot.GetDisplayBounds(displayIdx)

	modeType, _ := mode["type"].(string)
	switch modeType {
	case "", "full":
		return bounds, nil
	case "region":
		region, ok := mode["region"].(map[string]interface{})
		if !ok {
			return image.Rectangle{}, fmt.Errorf("capture_mode type 'region' requires a region object with left, top, width and height")
		}
		left, err1 := regionValue(region, "left")
		top, err2 := regionValue(region, "top")
		width, err3 := regionValue(region, "width")
		height, err4 := regionValue(region, "height")
		for _, err := range []error{err1, err2, err3, err4} {
			if err != nil {
				return image.Rectangle{}, err
			}
		}
		if width <= 0 || height <= 0 {
			return image.Rectangle{}, fmt.Errorf("region width and height must be positive")
		}
		rect := image.Rect(bounds.Min.X+left, bounds.Min.Y+top,
			bounds.Min.X+left+width, bounds.Min.Y+top+height)
		if !rect.In(bounds) {
			return image.Rectangle{}, fmt.Errorf("region exceeds the bounds of display %d (%dx%d)", displayIdx, bounds.Dx(), bounds.Dy())
		}
		return rect, nil
	default:
		return image.Rectangle{}, fmt.Errorf("unsupported capture_mode type: %s, use 'full' or 'region'", modeType)
	}
}

func regionValue(region map[string]interface{}, key string) (int, error) {
	raw, ok := region[key]
	if !ok {
		return 0, fmt.Errorf("region is missing required property: %s", key)
	}
	switch v := raw.(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	default:
		return 0, fmt.Errorf("region property %s must be a number", key)
	}
}

func handleCaptureScreenshot(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	outputPath, err := common.OptionalStringArg(args, "output_path", "")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if outputPath == "" {
		outputPath = defaultScreenshotPath()
	}
	if !strings.HasSuffix(strings.ToLower(outputPath), ".png") {
		outputPath += ".png"
	}

	fullPath, err := sc.Workspace().Resolve(outputPath)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	mode := map[string]interface{}{}
	if rawMode, ok := args["capture_mode"].(map[string]interface{}); ok {
		mode = rawMode
	}

	bounds, err := captureBounds(mode)
	if err != nil {
		return captureReport(captureResult{Error: err.Error()}), nil
	}

	img, err := screenshot.CaptureRect(bounds)
	if err != nil {
		return captureReport(captureResult{
			Error: fmt.Sprintf("failed to capture the screen: %v", err),
		}), nil
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return captureReport(captureResult{
			Error: fmt.Sprintf("failed to create output directory: %v", err),
		}), nil
	}
	out, err := os.Create(fullPath)
	if err != nil {
		return captureReport(captureResult{
			Error: fmt.Sprintf("failed to create output file: %v", err),
		}), nil
	}
	defer out.Close()

	if err := png.Encode(out, img); err != nil {
		return captureReport(captureResult{
			Error: fmt.Sprintf("failed to encode screenshot: %v", err),
		}), nil
	}

	return captureReport(captureResult{
		Success: true,
		Path:    outputPath,
		Message: fmt.Sprintf("Screenshot saved to %s (%dx%d)", outputPath, bounds.Dx(), bounds.Dy()),
	}), nil
}

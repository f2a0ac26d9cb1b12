package file_tools

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/thuanphamchezzi/skydeckai-code/internal/server"
	"github.com/thuanphamchezzi/skydeckai-code/internal/tools/common"
)

const (
	// maxImageFileSize caps how large an image file may be before reading.
	maxImageFileSize = 100 * 1024 * 1024
	// minImageWidth and maxImageWidth bound the output image width.
	minImageWidth = 20
	maxImageWidth = 800
	// jpegQuality is used when re-encoding resized JPEG images.
	jpegQuality = 85
)

func handleReadImageFile(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	path, err := common.StringArg(args, "path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	maxSize, err := common.OptionalIntArg(args, "max_size", maxImageFileSize)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	fullPath, err := sc.Workspace().Resolve(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	info, err := os.Stat(fullPath)
	if os.IsNotExist(err) {
		return mcp.NewToolResultError(fmt.Sprintf("file does not exist: %s", path)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error reading image file: %v", err)), nil
	}
	if !info.Mode().IsRegular() {
		return mcp.NewToolResultError(fmt.Sprintf("path is not a file: %s", path)), nil
	}
	if info.Size() > int64(maxSize) {
		return mcp.NewToolResultError(fmt.Sprintf("file size (%d bytes) exceeds maximum allowed size (%d bytes)", info.Size(), maxSize)), nil
	}

	data, err := os.ReadFile(fullPath)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error reading image file: %v", err)), nil
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("File is not a valid image: %s", path)), nil
	}

	encoded, outFormat, err := encodeImage(img, format)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error processing image file: %v", err)), nil
	}

	uri := fmt.Sprintf("data:image/%s;base64,%s", outFormat, base64.StdEncoding.EncodeToString(encoded))
	return mcp.NewToolResultText(uri), nil
}

// encodeImage resizes the image into the supported width range and
// encodes it. WebP inputs are re-encoded as PNG since the standard
// library has no WebP encoder.
func encodeImage(img image.Image, format string) ([]byte, string, error) {
	img = resizeToBounds(img)

	var buf bytes.Buffer
	switch format {
	case "jpeg":
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "jpeg", nil
	case "gif":
		if err := gif.Encode(&buf, img, nil); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "gif", nil
	default:
		if err := png.Encode(&buf, img); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "png", nil
	}
}

// resizeToBounds scales the image so its width falls within
// [minImageWidth, maxImageWidth], preserving aspect ratio.
func resizeToBounds(img image.Image) image.Image {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width == 0 || height == 0 {
		return img
	}

	targetWidth := width
	if width > maxImageWidth {
		targetWidth = maxImageWidth
	} else if width < minImageWidth {
		targetWidth = minImageWidth
	}
	if targetWidth == width {
		return img
	}

	targetHeight := int(float64(height) * float64(targetWidth) / float64(width))
	if targetHeight < 1 {
		targetHeight = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, targetWidth, targetHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

package web_tools

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/thuanphamchezzi/skydeckai-code/internal/server"
	"github.com/thuanphamchezzi/skydeckai-code/internal/tools/common"
)

const (
	defaultFetchTimeout = 10
	// maxFetchSize caps response bodies at 10MB.
	maxFetchSize   = 10 * 1024 * 1024
	fetchUserAgent = "SkyDeckAI-Web-Fetch/1.0"
)

func handleWebFetch(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	rawURL, err := common.StringArg(args, "url")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	timeoutSecs, err := common.OptionalIntArg(args, "timeout", defaultFetchTimeout)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	saveTo, err := common.OptionalStringArg(args, "save_to_file", "")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	convertMarkdown, err := common.OptionalBoolArg(args, "convert_html_to_markdown", true)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return mcp.NewToolResultError(fmt.Sprintf("invalid URL: %s, must include scheme (http/https) and domain", rawURL)), nil
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return mcp.NewToolResultError(fmt.Sprintf("unsupported URL scheme: %s, only http and https are supported", parsed.Scheme)), nil
	}

	var savePath string
	if saveTo != "" {
		savePath, err = sc.Workspace().Resolve(saveTo)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := os.MkdirAll(filepath.Dir(savePath), 0o755); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("error fetching URL (%s): %v", rawURL, err)), nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error fetching URL (%s): %v", rawURL, err)), nil
	}
	req.Header.Set("User-Agent", fetchUserAgent)
	if rawHeaders, ok := args["headers"].(map[string]interface{}); ok {
		for key, value := range rawHeaders {
			if s, ok := value.(string); ok {
				req.Header.Set(key, s)
			}
		}
	}

	client := &http.Client{Timeout: time.Duration(timeoutSecs) * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error fetching URL (%s): %v", rawURL, err)), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return mcp.NewToolResultError(fmt.Sprintf("error fetching URL (%s): HTTP %d", rawURL, resp.StatusCode)), nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchSize+1))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error fetching URL (%s): %v", rawURL, err)), nil
	}
	if len(body) > maxFetchSize {
		return mcp.NewToolResultError(fmt.Sprintf("response too large, maximum size is %dMB", maxFetchSize/(1024*1024))), nil
	}

	if savePath != "" {
		if err := os.WriteFile(savePath, body, 0o644); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("error saving content to %s: %v", saveTo, err)), nil
		}
	}

	contentType := strings.ToLower(resp.Header.Get("Content-Type"))

	if !utf8.Valid(body) {
		if savePath != "" {
			return mcp.NewToolResultText(fmt.Sprintf("Binary content saved to %s (size: %d bytes, type: %s)", saveTo, len(body), contentType)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Binary content received (size: %d bytes, type: %s)", len(body), contentType)), nil
	}

	text := string(body)
	isHTML := strings.Contains(contentType, "html") ||
		strings.HasPrefix(strings.TrimSpace(text), "<!DOCTYPE") ||
		strings.HasPrefix(strings.TrimSpace(text), "<html")

	converted := false
	if convertMarkdown && isHTML {
		converter := htmltomarkdown.NewConverter("", true, nil)
		if markdown, convErr := converter.ConvertString(text); convErr == nil {
			text = markdown
			converted = true
		}
	}

	saveInfo := ""
	if savePath != "" {
		saveInfo = fmt.Sprintf(", saved to %s", saveTo)
	}
	formatInfo := ""
	if converted {
		formatInfo = " (converted to markdown)"
	}

	return mcp.NewToolResultText(fmt.Sprintf("HTTP %d, %d bytes%s%s:\n\n%s",
		resp.StatusCode, len(body), saveInfo, formatInfo, text)), nil
}

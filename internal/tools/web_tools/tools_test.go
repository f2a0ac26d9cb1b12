package web_tools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thuanphamchezzi/skydeckai-code/internal/server"
	"github.com/thuanphamchezzi/skydeckai-code/internal/tools/registry"
	"github.com/thuanphamchezzi/skydeckai-code/internal/workspace"
)

func setup(t *testing.T) (*registry.Registry, string) {
	t.Helper()

	root := t.TempDir()
	sc, err := server.NewServerContext(context.Background(), workspace.NewAt(root))
	require.NoError(t, err)

	reg := registry.New()
	require.NoError(t, RegisterWebTools(mcpserver.NewMCPServer("test", "0.0.0"), reg, sc, false))
	return reg, root
}

func invoke(t *testing.T, reg *registry.Registry, tool string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()

	handler, ok := reg.Lookup(tool)
	require.True(t, ok)

	req := mcp.CallToolRequest{}
	req.Params.Name = tool
	req.Params.Arguments = args

	result, err := handler(context.Background(), req)
	require.NoError(t, err)
	return result
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestWebToolsAvailableInReadOnlyMode(t *testing.T) {
	sc, err := server.NewServerContext(context.Background(), workspace.NewAt(t.TempDir()))
	require.NoError(t, err)

	reg := registry.New()
	require.NoError(t, RegisterWebTools(mcpserver.NewMCPServer("test", "0.0.0"), reg, sc, true))
	assert.ElementsMatch(t, []string{"web_fetch", "web_search"}, reg.Names())
}

func TestWebFetchRejectsInvalidURL(t *testing.T) {
	reg, _ := setup(t)

	result := invoke(t, reg, "web_fetch", map[string]interface{}{
		"url": "example.com/no-scheme",
	})
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "must include scheme")
}

func TestWebFetchRejectsUnsupportedScheme(t *testing.T) {
	reg, _ := setup(t)

	result := invoke(t, reg, "web_fetch", map[string]interface{}{
		"url": "ftp://example.com/file.txt",
	})
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "unsupported URL scheme")
}

func TestWebFetchPlainText(t *testing.T) {
	reg, _ := setup(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("hello fetch"))
	}))
	defer srv.Close()

	result := invoke(t, reg, "web_fetch", map[string]interface{}{
		"url": srv.URL,
	})
	assert.False(t, result.IsError)
	text := resultText(t, result)
	assert.Contains(t, text, "HTTP 200")
	assert.Contains(t, text, "hello fetch")
}

func TestWebFetchConvertsHTMLToMarkdown(t *testing.T) {
	reg, _ := setup(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body><h1>Title</h1><p>Some <b>bold</b> text</p></body></html>"))
	}))
	defer srv.Close()

	result := invoke(t, reg, "web_fetch", map[string]interface{}{
		"url": srv.URL,
	})
	assert.False(t, result.IsError)
	text := resultText(t, result)
	assert.Contains(t, text, "(converted to markdown)")
	assert.Contains(t, text, "# Title")
	assert.Contains(t, text, "**bold**")
}

func TestWebFetchSendsCustomHeaders(t *testing.T) {
	reg, _ := setup(t)

	var gotHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("X-Custom")
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	result := invoke(t, reg, "web_fetch", map[string]interface{}{
		"url":     srv.URL,
		"headers": map[string]interface{}{"X-Custom": "custom-value"},
	})
	assert.False(t, result.IsError)
	assert.Equal(t, "custom-value", gotHeader)
}

func TestWebFetchReportsHTTPError(t *testing.T) {
	reg, _ := setup(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	result := invoke(t, reg, "web_fetch", map[string]interface{}{
		"url": srv.URL,
	})
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "HTTP 404")
}

func TestWebFetchSavesToFile(t *testing.T) {
	reg, root := setup(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("saved body"))
	}))
	defer srv.Close()

	result := invoke(t, reg, "web_fetch", map[string]interface{}{
		"url":          srv.URL,
		"save_to_file": "out/response.txt",
	})
	assert.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "saved to")

	data, err := os.ReadFile(filepath.Join(root, "out", "response.txt"))
	require.NoError(t, err)
	assert.Equal(t, "saved body", string(data))
}

func TestWebFetchBinaryContent(t *testing.T) {
	reg, root := setup(t)

	payload := []byte{0x89, 0x50, 0x4e, 0x47, 0x00, 0xff, 0xfe, 0x01}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	result := invoke(t, reg, "web_fetch", map[string]interface{}{
		"url":          srv.URL,
		"save_to_file": "blob.bin",
	})
	assert.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "Binary content saved to")

	data, err := os.ReadFile(filepath.Join(root, "blob.bin"))
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

func TestWebFetchRejectsSavePathOutsideWorkspace(t *testing.T) {
	reg, _ := setup(t)

	result := invoke(t, reg, "web_fetch", map[string]interface{}{
		"url":          "https://example.com/",
		"save_to_file": "../escape.txt",
	})
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "allowed directory")
}

func TestWebSearchRequiresQuery(t *testing.T) {
	reg, _ := setup(t)

	result := invoke(t, reg, "web_search", map[string]interface{}{
		"query": "",
	})
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "search query must be provided")
}

func TestProcessDuckDuckGoURL(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "redirect with uddg param",
			in:   "https://duckduckgo.com/l/?uddg=https%3A%2F%2Fgolang.org%2Fdoc%2F",
			want: "https://golang.org/doc/",
		},
		{
			name: "ad redirect with ad_domain",
			in:   "https://duckduckgo.com/y.js?ad_domain=example.com&other=1",
			want: "https://example.com",
		},
		{
			name: "ad redirect with u param",
			in:   "https://duckduckgo.com/y.js?u=https%3A%2F%2Fexample.org%2Fpage",
			want: "https://example.org/page",
		},
		{
			name: "direct link untouched",
			in:   "https://example.com/page",
			want: "https://example.com/page",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, processDuckDuckGoURL(tc.in))
		})
	}
}

func TestProcessBingURL(t *testing.T) {
	// base64("https://example.com/target") without padding issues
	encoded := "aHR0cHM6Ly9leGFtcGxlLmNvbS90YXJnZXQ="
	assert.Equal(t, "https://example.com/target",
		processBingURL("https://www.bing.com/ck/a?u="+encoded))

	assert.Equal(t, "https://example.com/direct",
		processBingURL("https://example.com/direct"))

	assert.Equal(t, "https://example.net/p",
		processBingURL("https://www.bing.com/ck/a?purl=https%3A%2F%2Fexample.net%2Fp"))
}

func TestFormatSearchResults(t *testing.T) {
	results := []searchResult{
		{Title: "First Result", Link: "https://example.com/1", Snippet: "A snippet"},
		{Title: "Second Result", Link: "https://example.com/2", Snippet: "Another snippet"},
	}
	out := formatSearchResults("test query", results, false, "Bing", "")

	assert.Contains(t, out, "# Web Search Results")
	assert.Contains(t, out, "**Query:** test query")
	assert.Contains(t, out, "**Source:** Bing")
	assert.Contains(t, out, "## 1. First Result")
	assert.Contains(t, out, "**URL:** https://example.com/1")
	assert.Contains(t, out, "## 2. Second Result")
	assert.Contains(t, out, "---")
}

func TestFormatSearchResultsIncludesWarning(t *testing.T) {
	out := formatSearchResults("q", nil, false, "DuckDuckGo HTML",
		"Warning: Google search engine is no longer supported due to blocking automated requests. Falling back to 'auto' mode.")
	assert.Contains(t, out, "**Warning: Google search engine is no longer supported")
}

func TestSearchFallback(t *testing.T) {
	out := searchFallback("missing", "")
	assert.Contains(t, out, "**Query:** missing")
	assert.Contains(t, out, "I couldn't retrieve search results at this time.")
	assert.Contains(t, out, "## Why search might be unavailable")
}

func TestExtractResultsFromDuckDuckGoHTML(t *testing.T) {
	html := `<html><body>
		<div class="web-result">
			<h2 class="result__title"><a class="result__a" href="https://duckduckgo.com/l/?uddg=https%3A%2F%2Fgolang.org%2F">The Go Programming Language</a></h2>
			<a class="result__snippet" href="#">Go is an open source programming language.</a>
		</div>
		<div class="web-result">
			<h2 class="result__title"><a class="result__a" href="https://duckduckgo.com/l/?uddg=https%3A%2F%2Fgolang.org%2F">Duplicate entry</a></h2>
			<a class="result__snippet" href="#">Same canonical URL, should be deduplicated.</a>
		</div>
	</body></html>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	results := extractResults(doc, searchEngines[0], 10, map[string]bool{})
	require.Len(t, results, 1)
	assert.Equal(t, "The Go Programming Language", results[0].Title)
	assert.Equal(t, "https://golang.org/", results[0].Link)
	assert.Equal(t, "Go is an open source programming language.", results[0].Snippet)
}

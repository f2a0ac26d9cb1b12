package code_tools

import (
	"context"
	"os"
	"path/filepath"
	"testing"

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
	require.NoError(t, RegisterCodeTools(mcpserver.NewMCPServer("test", "0.0.0"), reg, sc, false))
	return reg, root
}

func call(t *testing.T, reg *registry.Registry, tool string, args map[string]interface{}) *mcp.CallToolRequest {
	t.Helper()
	req := &mcp.CallToolRequest{}
	req.Params.Name = tool
	req.Params.Arguments = args
	return req
}

func invoke(t *testing.T, reg *registry.Registry, tool string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()

	handler, ok := reg.Lookup(tool)
	require.True(t, ok)

	result, err := handler(context.Background(), *call(t, reg, tool, args))
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

func write(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestSearchWithWalk(t *testing.T) {
	root := t.TempDir()
	write(t, root, "a.go", "package main\n\nfunc Hello() {}\n")
	write(t, root, "b.txt", "nothing here\n")

	matches, err := searchWithWalk(`func\s+\w+`, "*", "", 100, true, root, root)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "a.go", matches[0].path)
	assert.Equal(t, []string{"3: func Hello() {}"}, matches[0].lines)
}

func TestSearchWithWalkCaseInsensitive(t *testing.T) {
	root := t.TempDir()
	write(t, root, "x.go", "// ERROR handling\n")

	matches, err := searchWithWalk("error", "*", "", 100, false, root, root)
	require.NoError(t, err)
	require.Len(t, matches, 1)
}

func TestSearchWithWalkInclude(t *testing.T) {
	root := t.TempDir()
	write(t, root, "a.go", "target\n")
	write(t, root, "a.py", "target\n")

	matches, err := searchWithWalk("target", "*.go", "", 100, true, root, root)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "a.go", matches[0].path)
}

func TestSearchWithWalkExclude(t *testing.T) {
	root := t.TempDir()
	write(t, root, "a.go", "target\n")
	write(t, root, "a_test.go", "target\n")

	matches, err := searchWithWalk("target", "*", "*_test.go", 100, true, root, root)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "a.go", matches[0].path)
}

func TestSearchWithWalkMaxResults(t *testing.T) {
	root := t.TempDir()
	write(t, root, "a.txt", "hit\nhit\nhit\nhit\n")

	matches, err := searchWithWalk("hit", "*", "", 2, true, root, root)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Len(t, matches[0].lines, 2)
}

func TestSearchWithWalkInvalidRegex(t *testing.T) {
	root := t.TempDir()

	_, err := searchWithWalk("[unclosed", "*", "", 100, true, root, root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid regular expression")
}

func TestSearchCodeHandler(t *testing.T) {
	reg, root := setup(t)
	write(t, root, "main.go", "package main\n\nfunc run() error { return nil }\n")

	result := invoke(t, reg, "search_code", map[string]interface{}{"pattern": `func run`})
	assert.False(t, result.IsError)
	text := resultText(t, result)
	assert.Contains(t, text, "main.go")
	assert.Contains(t, text, "3: func run() error { return nil }")
}

func TestSearchCodeNoMatches(t *testing.T) {
	reg, root := setup(t)
	write(t, root, "main.go", "package main\n")

	result := invoke(t, reg, "search_code", map[string]interface{}{"pattern": "nonexistent_symbol"})
	assert.False(t, result.IsError)
	assert.Equal(t, "No matches found.", resultText(t, result))
}

func TestSearchCodePathValidation(t *testing.T) {
	reg, _ := setup(t)

	result := invoke(t, reg, "search_code", map[string]interface{}{
		"pattern": "x",
		"path":    "missing",
	})
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "path does not exist")
}

func TestDetectLanguage(t *testing.T) {
	assert.Equal(t, "go", detectLanguage("main.go"))
	assert.Equal(t, "python", detectLanguage("app.py"))
	assert.Equal(t, "typescript", detectLanguage("ui.TSX"))
	assert.Equal(t, "unknown", detectLanguage("notes.txt"))
}

func TestAnalyzeGoSource(t *testing.T) {
	src := []byte(`package demo

type Server struct{}

func (s *Server) Start(ctx int) error { return nil }

func NewServer(addr string) *Server { return nil }
`)
	symbols, err := analyzeGoSource("demo.go", src)
	require.NoError(t, err)
	require.Len(t, symbols, 2)

	assert.Equal(t, "Server", symbols[0].Name)
	assert.Equal(t, kindClass, symbols[0].Kind)
	require.Len(t, symbols[0].Children, 1)
	assert.Equal(t, "Start", symbols[0].Children[0].Name)
	assert.Equal(t, []string{"ctx"}, symbols[0].Children[0].Params)

	assert.Equal(t, "NewServer", symbols[1].Name)
	assert.Equal(t, []string{"addr"}, symbols[1].Params)
}

func TestAnalyzeGenericPython(t *testing.T) {
	src := `class Greeter:
    def greet(self, name):
        pass

def main():
    pass
`
	symbols := analyzeGenericSource("python", src)
	require.Len(t, symbols, 2)
	assert.Equal(t, "Greeter", symbols[0].Name)
	require.Len(t, symbols[0].Children, 1)
	assert.Equal(t, "greet", symbols[0].Children[0].Name)
	assert.Equal(t, []string{"self", "name"}, symbols[0].Children[0].Params)
	assert.Equal(t, "main", symbols[1].Name)
}

func TestCodebaseMapperHandler(t *testing.T) {
	reg, root := setup(t)
	write(t, root, "lib.py", "class Widget:\n    def render(self):\n        pass\n")

	result := invoke(t, reg, "codebase_mapper", map[string]interface{}{"path": "."})
	assert.False(t, result.IsError)
	text := resultText(t, result)
	assert.Contains(t, text, "===ANALYSIS STATISTICS===")
	assert.Contains(t, text, "Total classes found: 1")
	assert.Contains(t, text, "===REPOSITORY STRUCTURE===")
	assert.Contains(t, text, "class Widget")
	assert.Contains(t, text, "render(self)")
}

func TestCodebaseMapperNoSources(t *testing.T) {
	reg, root := setup(t)
	write(t, root, "notes.txt", "plain text\n")

	result := invoke(t, reg, "codebase_mapper", map[string]interface{}{"path": "."})
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "no source code files")
}

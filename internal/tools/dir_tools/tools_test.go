package dir_tools

import (
	"context"
	"encoding/json"
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
	require.NoError(t, RegisterDirTools(mcpserver.NewMCPServer("test", "0.0.0"), reg, sc, false))
	return reg, root
}

func call(t *testing.T, reg *registry.Registry, tool string, args map[string]interface{}) *mcp.CallToolResult {
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

func TestListDirectory(t *testing.T) {
	reg, root := setup(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "file.txt"), []byte("0123456789"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0o755))

	result := call(t, reg, "list_directory", map[string]interface{}{"path": "."})
	assert.False(t, result.IsError)
	text := resultText(t, result)
	assert.Contains(t, text, "[FILE] file.txt")
	assert.Contains(t, text, "[DIR] sub")
	assert.Contains(t, text, "10B")
}

func TestListDirectoryMissing(t *testing.T) {
	reg, _ := setup(t)

	result := call(t, reg, "list_directory", map[string]interface{}{"path": "nope"})
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "path does not exist")
}

func TestListDirectoryNotADirectory(t *testing.T) {
	reg, root := setup(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "f.txt"), []byte("x"), 0o644))

	result := call(t, reg, "list_directory", map[string]interface{}{"path": "f.txt"})
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "path is not a directory")
}

func TestCreateDirectoryNested(t *testing.T) {
	reg, root := setup(t)

	result := call(t, reg, "create_directory", map[string]interface{}{"path": "a/b/c"})
	assert.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "Successfully created directory: a/b/c")

	info, err := os.Stat(filepath.Join(root, "a", "b", "c"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestCreateDirectoryAlreadyExists(t *testing.T) {
	reg, root := setup(t)
	require.NoError(t, os.Mkdir(filepath.Join(root, "existing"), 0o755))

	result := call(t, reg, "create_directory", map[string]interface{}{"path": "existing"})
	assert.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "Directory already exists: existing")
}

func TestCreateDirectoryReadOnly(t *testing.T) {
	root := t.TempDir()
	sc, err := server.NewServerContext(context.Background(), workspace.NewAt(root))
	require.NoError(t, err)

	reg := registry.New()
	require.NoError(t, RegisterDirTools(mcpserver.NewMCPServer("test", "0.0.0"), reg, sc, true))

	assert.True(t, reg.Has("list_directory"))
	assert.True(t, reg.Has("directory_tree"))
	assert.False(t, reg.Has("create_directory"))
}

func TestDirectoryTree(t *testing.T) {
	reg, root := setup(t)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src", "pkg"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "pkg", "main.go"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("x"), 0o644))

	result := call(t, reg, "directory_tree", map[string]interface{}{"path": "."})
	assert.False(t, result.IsError)

	var tree treeNode
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &tree))
	assert.Equal(t, "directory", tree.Type)
	require.Len(t, tree.Children, 2)

	var names []string
	for _, child := range tree.Children {
		names = append(names, child.Name)
	}
	assert.Contains(t, names, "src")
	assert.Contains(t, names, "README.md")
}

func TestDirectoryTreeFilesHaveNoChildren(t *testing.T) {
	reg, root := setup(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "only.txt"), []byte("x"), 0o644))

	result := call(t, reg, "directory_tree", map[string]interface{}{"path": "."})
	text := resultText(t, result)

	var tree treeNode
	require.NoError(t, json.Unmarshal([]byte(text), &tree))
	require.Len(t, tree.Children, 1)
	assert.Equal(t, "file", tree.Children[0].Type)
	assert.Nil(t, tree.Children[0].Children)
}

func TestHumanSize(t *testing.T) {
	assert.Equal(t, "512B", humanSize(512))
	assert.Equal(t, "1.5KB", humanSize(1536))
	assert.Equal(t, "2.0MB", humanSize(2*1024*1024))
}

package file_tools

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeWhitespace(t *testing.T) {
	assert.Equal(t, "a b c", normalizeWhitespace("a   b\t c", false))
	assert.Equal(t, "    a b", normalizeWhitespace("    a   b", true))
	assert.Equal(t, "a b", normalizeWhitespace("    a   b", false))
	assert.Equal(t, "x\n  y z", normalizeWhitespace("x\n  y   z", true))
}

func TestFindBestMatchExact(t *testing.T) {
	start, end, confidence := findBestMatch("hello world", "world", true)
	assert.Equal(t, 6, start)
	assert.Equal(t, 11, end)
	assert.Equal(t, 1.0, confidence)
}

func TestFindBestMatchFuzzy(t *testing.T) {
	content := "func main() {\n\tfmt.Println(\"hi\")\n}\n"
	start, end, confidence := findBestMatch(content, "fmt.Println(\"hello\")", true)
	require.GreaterOrEqual(t, confidence, 0.5)
	assert.Contains(t, content[start:end], "fmt.Println")
}

func TestFindBestMatchNoPartial(t *testing.T) {
	_, _, confidence := findBestMatch("abc def", "zzz", false)
	assert.Equal(t, 0.0, confidence)
}

func TestApplyFileEditsExact(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "code.go")
	require.NoError(t, os.WriteFile(path, []byte("one\ntwo\nthree\n"), 0o644))

	output, err := applyFileEdits(path, []fileEdit{{OldText: "two", NewText: "2"}}, false,
		editOptions{preserveIndentation: true, normalizeWhitespace: true, partialMatch: true})
	require.NoError(t, err)
	assert.Contains(t, output, "=== Diff ===")
	assert.Contains(t, output, "-two")
	assert.Contains(t, output, "+2")
	assert.NotContains(t, output, "Failed Matches")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "one\n2\nthree\n", string(data))
}

func TestApplyFileEditsDryRun(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "code.go")
	require.NoError(t, os.WriteFile(path, []byte("one\ntwo\n"), 0o644))

	output, err := applyFileEdits(path, []fileEdit{{OldText: "two", NewText: "2"}}, true,
		editOptions{partialMatch: true})
	require.NoError(t, err)
	assert.Contains(t, output, "+2")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\n", string(data), "dry run must not modify the file")
}

func TestApplyFileEditsLowConfidence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "code.go")
	require.NoError(t, os.WriteFile(path, []byte("alpha\nbeta\ngamma\n"), 0o644))

	output, err := applyFileEdits(path, []fileEdit{{OldText: "completely unrelated text", NewText: "x"}}, false,
		editOptions{partialMatch: true})
	require.NoError(t, err)
	assert.Contains(t, output, "=== Failed Matches ===")
	assert.Contains(t, output, "completely unrelated text")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "alpha\nbeta\ngamma\n", string(data), "failed matches must not modify the file")
}

func TestApplyFileEditsPreservesIndent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "code.go")
	require.NoError(t, os.WriteFile(path, []byte("func f() {\n\tdoWork()\n}\n"), 0o644))

	_, err := applyFileEdits(path, []fileEdit{{OldText: "\tdoWork()", NewText: "doBetterWork()"}}, false,
		editOptions{preserveIndentation: true, partialMatch: true})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "func f() {\n\tdoBetterWork()\n}\n", string(data))
}

func TestEditFileHandler(t *testing.T) {
	reg, _, root := setup(t)
	writeFixture(t, root, "main.txt", "hello world\n")

	result := call(t, reg, "edit_file", map[string]interface{}{
		"path": "main.txt",
		"edits": []interface{}{
			map[string]interface{}{"oldText": "world", "newText": "there"},
		},
	})
	assert.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "=== Diff ===")

	data, err := os.ReadFile(filepath.Join(root, "main.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello there\n", string(data))
}

func TestEditFileValidation(t *testing.T) {
	reg, _, root := setup(t)
	writeFixture(t, root, "main.txt", "x\n")

	result := call(t, reg, "edit_file", map[string]interface{}{
		"path":  "main.txt",
		"edits": []interface{}{},
	})
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "edits must be a non-empty list")

	result = call(t, reg, "edit_file", map[string]interface{}{
		"path": "main.txt",
		"edits": []interface{}{
			map[string]interface{}{"oldText": "x"},
		},
	})
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "each edit must have oldText and newText")
}

func TestEditFileMissing(t *testing.T) {
	reg, _, _ := setup(t)

	result := call(t, reg, "edit_file", map[string]interface{}{
		"path": "ghost.txt",
		"edits": []interface{}{
			map[string]interface{}{"oldText": "a", "newText": "b"},
		},
	})
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "file does not exist")
}

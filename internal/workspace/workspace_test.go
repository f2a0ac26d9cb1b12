package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRelative(t *testing.T) {
	root := t.TempDir()
	ws := NewAt(root)

	tests := []struct {
		name string
		path string
		want string
	}{
		{
			name: "simple relative path",
			path: "notes.txt",
			want: filepath.Join(root, "notes.txt"),
		},
		{
			name: "nested relative path",
			path: "src/main.go",
			want: filepath.Join(root, "src", "main.go"),
		},
		{
			name: "dot resolves to root",
			path: ".",
			want: root,
		},
		{
			name: "redundant segments are normalized",
			path: "src/./internal/../main.go",
			want: filepath.Join(root, "src", "main.go"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ws.Resolve(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveAbsolute(t *testing.T) {
	root := t.TempDir()
	ws := NewAt(root)

	got, err := ws.Resolve(filepath.Join(root, "a", "b.txt"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "a", "b.txt"), got)

	// A relative path and the equivalent pre-joined absolute path
	// resolve identically.
	rel, err := ws.Resolve("a/b.txt")
	require.NoError(t, err)
	assert.Equal(t, got, rel)
}

func TestResolveRejectsEscapes(t *testing.T) {
	root := t.TempDir()
	ws := NewAt(root)

	tests := []struct {
		name string
		path string
	}{
		{name: "parent traversal", path: "../outside.txt"},
		{name: "nested traversal", path: "src/../../outside.txt"},
		{name: "absolute outside root", path: "/etc/passwd"},
		{name: "parent of root", path: filepath.Dir(root)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ws.Resolve(tt.path)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrAccessDenied)
		})
	}
}

func TestResolveSiblingPrefixNotAdmitted(t *testing.T) {
	// /tmp/xxx/project must not admit /tmp/xxx/project-evil even though
	// it shares the string prefix.
	base := t.TempDir()
	root := filepath.Join(base, "project")
	require.NoError(t, os.Mkdir(root, 0o755))

	ws := NewAt(root)
	_, err := ws.Resolve(filepath.Join(base, "project-evil"))
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestResolveEmptyPath(t *testing.T) {
	ws := NewAt(t.TempDir())
	_, err := ws.Resolve("")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestResolveDoesNotRequireExistence(t *testing.T) {
	ws := NewAt(t.TempDir())
	_, err := ws.Resolve("does/not/exist.txt")
	assert.NoError(t, err)
}

func TestContains(t *testing.T) {
	tests := []struct {
		name string
		root string
		path string
		want bool
	}{
		{name: "root itself", root: "/a/b", path: "/a/b", want: true},
		{name: "direct child", root: "/a/b", path: "/a/b/c", want: true},
		{name: "deep child", root: "/a/b", path: "/a/b/c/d/e", want: true},
		{name: "sibling with shared prefix", root: "/a/b", path: "/a/bc", want: false},
		{name: "parent", root: "/a/b", path: "/a", want: false},
		{name: "unrelated", root: "/a/b", path: "/x/y", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Contains(tt.root, tt.path))
		})
	}
}

func TestSetRoot(t *testing.T) {
	root := t.TempDir()
	next := t.TempDir()
	ws := NewAt(root)

	got, err := ws.SetRoot(next)
	require.NoError(t, err)
	assert.Equal(t, next, got)
	assert.Equal(t, next, ws.Root())

	// Resolution now happens against the new root.
	resolved, err := ws.Resolve("file.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(next, "file.txt"), resolved)
}

func TestSetRootValidation(t *testing.T) {
	root := t.TempDir()
	ws := NewAt(root)

	t.Run("relative path rejected", func(t *testing.T) {
		_, err := ws.SetRoot("relative/path")
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("missing directory rejected", func(t *testing.T) {
		_, err := ws.SetRoot(filepath.Join(root, "missing"))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("file rejected", func(t *testing.T) {
		file := filepath.Join(root, "f.txt")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
		_, err := ws.SetRoot(file)
		assert.ErrorIs(t, err, ErrNotDirectory)
	})

	t.Run("empty rejected", func(t *testing.T) {
		_, err := ws.SetRoot("")
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	// Failed updates leave the root untouched.
	assert.Equal(t, root, ws.Root())
}

func TestSetRootExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	ws := NewAt(t.TempDir())
	got, err := ws.SetRoot("~")
	require.NoError(t, err)
	assert.Equal(t, home, got)

	resolved, err := ws.Resolve(".")
	require.NoError(t, err)
	assert.Equal(t, home, resolved)
}

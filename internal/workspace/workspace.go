package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Workspace holds the allowed root directory and resolves user-supplied
// paths against it. It is threaded explicitly through the server context
// rather than held as package-level state, so tests can run concurrent
// workspaces with different roots.
//
// Reads vastly outnumber root updates, so a RWMutex guards the root. The
// lock makes concurrent Resolve/SetRoot data-race free; it deliberately
// does not define an ordering between a root update and invocations
// already in flight.
type Workspace struct {
	mu     sync.RWMutex
	root   string
	config *Config
}

// New creates a Workspace rooted at the directory recorded in config,
// falling back to the default root when the config has none.
func New(config *Config) *Workspace {
	root := config.AllowedRoot()
	if root == "" {
		root = DefaultRoot()
	}
	return &Workspace{root: root, config: config}
}

// NewAt creates a Workspace rooted at the given directory with no
// persistence. Intended for tests.
func NewAt(root string) *Workspace {
	return &Workspace{root: filepath.Clean(root)}
}

// DefaultRoot returns the root used when no directory has been persisted.
func DefaultRoot() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Last resort; a tool server with no home directory can still
		// operate on the process working directory.
		if wd, wdErr := os.Getwd(); wdErr == nil {
			return wd
		}
		return string(filepath.Separator)
	}
	return filepath.Join(home, "Desktop")
}

// Root returns the current canonical allowed root.
func (w *Workspace) Root() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.root
}

// Resolve turns a user-supplied path into a canonical absolute path
// inside the allowed root.
//
// Absolute paths are lexically normalized as-is; relative paths are
// joined onto the root first. The containment check compares on path
// segment boundaries, so a root of /a/b rejects /a/bc. Resolve performs
// no filesystem access: callers do their own existence and type checks.
func (w *Workspace) Resolve(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: path must be provided", ErrInvalidArgument)
	}

	root := w.Root()

	var full string
	if filepath.IsAbs(path) {
		full = filepath.Clean(path)
	} else {
		full = filepath.Join(root, path)
	}

	if !Contains(root, full) {
		return "", fmt.Errorf("%w: path (%s) must be within allowed directory (%s)", ErrAccessDenied, full, root)
	}
	return full, nil
}

// Contains reports whether path lies within root, comparing on path
// segment boundaries. Both arguments must already be absolute and
// lexically clean.
func Contains(root, path string) bool {
	if path == root {
		return true
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// SetRoot validates and replaces the allowed root, persisting the new
// value best-effort. A leading ~ expands to the invoking user's home
// directory. The result must be an absolute path naming an existing
// directory. SetRoot is the sole mutator of the root.
func (w *Workspace) SetRoot(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: directory must be provided", ErrInvalidArgument)
	}

	if path == "~" || strings.HasPrefix(path, "~"+string(filepath.Separator)) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("%w: cannot expand ~: no home directory", ErrInvalidArgument)
		}
		path = filepath.Join(home, path[1:])
	}

	if !filepath.IsAbs(path) {
		return "", fmt.Errorf("%w: directory must be an absolute path", ErrInvalidArgument)
	}
	path = filepath.Clean(path)

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("%w: path does not exist: %s", ErrNotFound, path)
	}
	if err != nil {
		return "", fmt.Errorf("checking directory %s: %w", path, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: path is not a directory: %s", ErrNotDirectory, path)
	}

	w.mu.Lock()
	w.root = path
	w.mu.Unlock()

	if w.config != nil {
		if err := w.config.SetAllowedRoot(path); err != nil {
			// Persistence is best-effort: the in-memory root is already
			// updated and the server keeps working.
			slog.Warn("failed to persist allowed directory", "path", path, "error", err)
		}
	}

	return path, nil
}

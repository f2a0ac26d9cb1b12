package workspace

import "errors"

// Sentinel errors for path resolution and root updates. Tool handlers
// match on these with errors.Is to decide how to phrase failures.
var (
	// ErrAccessDenied indicates a resolved path falls outside the allowed root.
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidArgument indicates a malformed input, such as a relative
	// path passed to SetRoot or an empty path passed to Resolve.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound indicates the target path does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNotDirectory indicates the target exists but is not a directory.
	ErrNotDirectory = errors.New("not a directory")
)

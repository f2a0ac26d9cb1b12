// Package workspace manages the sandbox root directory that every
// filesystem-touching tool operates beneath.
//
// A Workspace holds a single canonical absolute directory (the allowed
// root), resolves user-supplied paths against it, and rejects any path
// that escapes it. The root is persisted across server restarts through
// a small config store; persistence failures are treated as best-effort
// and never surfaced to tool callers.
package workspace

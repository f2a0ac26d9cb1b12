// Package dir_tools implements directory exploration tools: flat
// listings with sizes and timestamps, recursive JSON trees with a
// git-tracked fast path, and directory creation.
package dir_tools

// Package file_tools implements the file manipulation tools: reading,
// writing, editing with fuzzy matching, moving, copying, deleting,
// searching by name, file metadata, and image loading.
//
// All paths are resolved through the workspace before any filesystem
// access, so operations cannot escape the allowed directory.
package file_tools

// Package logging provides structured logging utilities for the server.
//
// This package centralizes logging patterns to ensure consistent, structured
// logging throughout the codebase using the standard library's slog package.
//
// The MCP stdio transport owns stdout, so Setup directs all log output to
// stderr. Attribute helpers keep key names uniform across tool packages:
//
//	logger := logging.WithTool(slog.Default(), "read_file")
//	logger.Info("file read",
//	    logging.Path(relPath),
//	    logging.Status(logging.StatusSuccess))
package logging

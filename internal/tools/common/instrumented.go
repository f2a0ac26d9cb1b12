package common

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/thuanphamchezzi/skydeckai-code/internal/instrumentation"
	"github.com/thuanphamchezzi/skydeckai-code/internal/server"
	"github.com/thuanphamchezzi/skydeckai-code/internal/workspace"
)

// deniedByWorkspace reports whether a failed invocation was rejected by
// the workspace boundary. Handlers surface resolver failures either as a
// wrapped error or as a tool-level error result carrying the resolver's
// message.
func deniedByWorkspace(result *mcp.CallToolResult, err error) bool {
	if errors.Is(err, workspace.ErrAccessDenied) {
		return true
	}
	if result == nil || !result.IsError {
		return false
	}
	for _, content := range result.Content {
		if text, ok := content.(mcp.TextContent); ok {
			return strings.HasPrefix(text.Text, workspace.ErrAccessDenied.Error())
		}
	}
	return false
}

// InstrumentedToolHandler wraps a tool handler with metrics and audit logging.
// It records tool invocation metrics and logs the invocation for audit purposes.
//
// Usage:
//
//	reg.Add(s, myTool, common.InstrumentedToolHandler("my_tool", sc, handler))
func InstrumentedToolHandler(
	toolName string,
	sc *server.ServerContext,
	handler func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error),
) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		// Get metrics and audit logger (may be nil if not configured)
		metrics := sc.Metrics()
		auditLogger := sc.AuditLogger()

		// Start timing and create invocation record
		start := time.Now()
		invocation := instrumentation.NewToolInvocation(toolName)

		// Record the path argument when present; most filesystem tools
		// take their target under "path"
		args := request.GetArguments()
		if path, ok := args["path"].(string); ok && path != "" {
			invocation.WithPath(path)
		}

		// Call the actual handler
		result, err := handler(ctx, request)
		duration := time.Since(start)

		// Determine status
		status := instrumentation.StatusSuccess
		if err != nil || (result != nil && result.IsError) {
			status = instrumentation.StatusError
			if err != nil {
				invocation.CompleteWithError(err)
			} else {
				invocation.Complete(false, nil)
			}
		} else {
			invocation.CompleteSuccess()
		}

		// Record metrics
		if metrics != nil {
			metrics.RecordToolInvocationWithPath(ctx, toolName, status, invocation.Path, duration)
			if status == instrumentation.StatusError && deniedByWorkspace(result, err) {
				metrics.RecordAccessDenied(ctx, toolName)
			}
		}

		// Log audit
		if auditLogger != nil {
			auditLogger.LogToolInvocation(invocation)
		}

		return result, err
	}
}

// InstrumentedToolHandlerWithOperation is like InstrumentedToolHandler but
// also tags the invocation with an operation type (read, write, list,
// move, delete, dispatch) for audit logs.
//
// Usage:
//
//	reg.Add(s, myTool, common.InstrumentedToolHandlerWithOperation("my_tool", "write", sc, handler))
func InstrumentedToolHandlerWithOperation(
	toolName string,
	operation string,
	sc *server.ServerContext,
	handler func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error),
) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		metrics := sc.Metrics()
		auditLogger := sc.AuditLogger()

		start := time.Now()
		invocation := instrumentation.NewToolInvocation(toolName).
			WithOperation(operation)

		args := request.GetArguments()
		if path, ok := args["path"].(string); ok && path != "" {
			invocation.WithPath(path)
		}

		result, err := handler(ctx, request)
		duration := time.Since(start)

		status := instrumentation.StatusSuccess
		if err != nil || (result != nil && result.IsError) {
			status = instrumentation.StatusError
			if err != nil {
				invocation.CompleteWithError(err)
			} else {
				invocation.Complete(false, nil)
			}
		} else {
			invocation.CompleteSuccess()
		}

		if metrics != nil {
			metrics.RecordToolInvocationWithPath(ctx, toolName, status, invocation.Path, duration)
			if status == instrumentation.StatusError && deniedByWorkspace(result, err) {
				metrics.RecordAccessDenied(ctx, toolName)
			}
		}

		if auditLogger != nil {
			auditLogger.LogToolInvocation(invocation)
		}

		return result, err
	}
}

// Package instrumentation provides OpenTelemetry metrics and audit logging
// for the skydeckai-code MCP server.
//
// This package enables production-grade observability through:
//   - OpenTelemetry metrics for MCP tool invocations, batch dispatches,
//     and workspace boundary enforcement
//   - Prometheus metrics export via /metrics endpoint on a dedicated port
//   - OTLP export support for modern observability platforms
//   - Structured audit logging of tool invocations
//
// # Metrics
//
// The package exposes the following metric categories:
//
// Server/HTTP Metrics:
//   - http_requests_total: Counter of HTTP requests by method, path, and status
//   - http_request_duration_seconds: Histogram of HTTP request durations
//   - active_sessions: Gauge of active client sessions
//
// MCP Tool Metrics:
//   - mcp_tool_invocations_total: Counter of MCP tool invocations by tool name and status
//   - mcp_tool_duration_seconds: Histogram of MCP tool execution durations
//
// Batch Dispatch Metrics:
//   - batch_dispatches_total: Counter of batch dispatches by mode and status
//   - batch_size: Histogram of invocations per batch
//
// Workspace Metrics:
//   - workspace_access_denied_total: Counter of path resolutions rejected by the boundary
//   - workspace_root_changes_total: Counter of workspace root updates
//
// # Configuration
//
// Instrumentation can be configured via environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: true)
//   - METRICS_EXPORTER: Metrics exporter type (prometheus, otlp, stdout, default: prometheus)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for metrics
//   - OTEL_SERVICE_NAME: Service name (default: skydeckai-code)
//   - METRICS_DETAILED_LABELS: Include high-cardinality path labels (default: false)
//   - AUDIT_LOGGING_ENABLED: Enable/disable audit logging (default: true)
//   - AUDIT_LOGGING_INCLUDE_PATHS: Include resolved paths in audit logs (default: false)
//
// # Example Usage
//
//	// Initialize instrumentation
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.Config{
//		ServiceName:    "skydeckai-code",
//		ServiceVersion: "0.1.0",
//		Enabled:        true,
//	})
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	// Get metrics recorder
//	recorder := provider.Metrics()
//
//	// Record an MCP tool invocation
//	recorder.RecordToolInvocation(ctx, "read_file", "success", time.Since(start))
//
//	// Record a batch dispatch
//	recorder.RecordBatchDispatch(ctx, "parallel", "success", 4, time.Since(start))
package instrumentation

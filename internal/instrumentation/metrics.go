package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys - using constants for consistency and DRY
const (
	// Common attributes (reused across metrics)
	attrMethod = "method"
	attrPath   = "path"
	attrStatus = "status"
	attrTool   = "tool"
	attrMode   = "mode"
)

// Metrics provides methods for recording observability metrics.
type Metrics struct {
	// HTTP metrics (streamable-http transport and metrics server)
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram
	activeSessions      metric.Int64UpDownCounter

	// MCP Tool metrics
	toolInvocationsTotal metric.Int64Counter
	toolDuration         metric.Float64Histogram

	// Batch dispatch metrics
	batchDispatchesTotal metric.Int64Counter
	batchSize            metric.Int64Histogram

	// Workspace metrics
	accessDeniedTotal metric.Int64Counter
	rootChangesTotal  metric.Int64Counter

	// Configuration
	// detailedLabels controls whether high-cardinality labels are included
	detailedLabels bool
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
// The detailedLabels parameter controls whether high-cardinality labels are included.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	m := &Metrics{
		detailedLabels: detailedLabels,
	}

	var err error

	// HTTP Metrics
	m.httpRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_requests_total counter: %w", err)
	}

	m.httpRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_request_duration_seconds histogram: %w", err)
	}

	m.activeSessions, err = meter.Int64UpDownCounter(
		"active_sessions",
		metric.WithDescription("Number of active client sessions"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create active_sessions gauge: %w", err)
	}

	// MCP Tool Metrics
	m.toolInvocationsTotal, err = meter.Int64Counter(
		"mcp_tool_invocations_total",
		metric.WithDescription("Total number of MCP tool invocations"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_invocations_total counter: %w", err)
	}

	m.toolDuration, err = meter.Float64Histogram(
		"mcp_tool_duration_seconds",
		metric.WithDescription("MCP tool execution duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_duration_seconds histogram: %w", err)
	}

	// Batch Dispatch Metrics
	m.batchDispatchesTotal, err = meter.Int64Counter(
		"batch_dispatches_total",
		metric.WithDescription("Total number of batch tool dispatches"),
		metric.WithUnit("{dispatch}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create batch_dispatches_total counter: %w", err)
	}

	m.batchSize, err = meter.Int64Histogram(
		"batch_size",
		metric.WithDescription("Number of invocations per batch dispatch"),
		metric.WithUnit("{invocation}"),
		metric.WithExplicitBucketBoundaries(1, 2, 5, 10, 20, 50),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create batch_size histogram: %w", err)
	}

	// Workspace Metrics
	m.accessDeniedTotal, err = meter.Int64Counter(
		"workspace_access_denied_total",
		metric.WithDescription("Total number of path resolutions rejected by the workspace boundary"),
		metric.WithUnit("{rejection}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace_access_denied_total counter: %w", err)
	}

	m.rootChangesTotal, err = meter.Int64Counter(
		"workspace_root_changes_total",
		metric.WithDescription("Total number of workspace root updates"),
		metric.WithUnit("{change}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace_root_changes_total counter: %w", err)
	}

	return m, nil
}

// RecordHTTPRequest records an HTTP request with method, path, status code, and duration.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m.httpRequestsTotal == nil || m.httpRequestDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	}

	m.httpRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.httpRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordToolInvocation records an MCP tool invocation with tool name, status, and duration.
//
// Parameters:
//   - toolName: Name of the MCP tool (e.g., "read_file", "batch_tools")
//   - status: Result status ("success" or "error")
//   - duration: Time taken for the tool execution
func (m *Metrics) RecordToolInvocation(ctx context.Context, toolName, status string, duration time.Duration) {
	if m.toolInvocationsTotal == nil || m.toolDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	}

	m.toolInvocationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.toolDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordToolInvocationWithPath records an MCP tool invocation with the target path.
// This is the detailed version that includes the path when detailedLabels is enabled.
// Paths are high-cardinality and are only attached when explicitly configured.
func (m *Metrics) RecordToolInvocationWithPath(ctx context.Context, toolName, status, path string, duration time.Duration) {
	if m.toolInvocationsTotal == nil || m.toolDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	}

	// Only add high-cardinality labels if explicitly enabled
	if m.detailedLabels && path != "" {
		attrs = append(attrs, attribute.String(attrPath, path))
	}

	m.toolInvocationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.toolDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordBatchDispatch records a batch dispatch with execution mode, overall status,
// invocation count, and duration.
//
// Parameters:
//   - mode: Execution mode ("sequential" or "parallel")
//   - status: Overall result ("success" if every invocation succeeded, "error" otherwise)
//   - size: Number of invocations submitted in the batch
//   - duration: Wall-clock time for the whole dispatch
func (m *Metrics) RecordBatchDispatch(ctx context.Context, mode, status string, size int, duration time.Duration) {
	if m.batchDispatchesTotal == nil || m.batchSize == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrMode, mode),
		attribute.String(attrStatus, status),
	}

	m.batchDispatchesTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.batchSize.Record(ctx, int64(size), metric.WithAttributes(attrs...))
	if m.toolDuration != nil {
		m.toolDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
			attribute.String(attrTool, "batch_tools"),
			attribute.String(attrStatus, status),
		))
	}
}

// RecordAccessDenied records a path resolution rejected by the workspace boundary.
func (m *Metrics) RecordAccessDenied(ctx context.Context, toolName string) {
	if m.accessDeniedTotal == nil {
		return // Instrumentation not initialized
	}

	m.accessDeniedTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrTool, toolName),
	))
}

// RecordRootChange records a workspace root update.
func (m *Metrics) RecordRootChange(ctx context.Context, status string) {
	if m.rootChangesTotal == nil {
		return // Instrumentation not initialized
	}

	m.rootChangesTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrStatus, status),
	))
}

// IncrementActiveSessions increments the active sessions counter.
func (m *Metrics) IncrementActiveSessions(ctx context.Context) {
	if m.activeSessions == nil {
		return // Instrumentation not initialized
	}

	m.activeSessions.Add(ctx, 1)
}

// DecrementActiveSessions decrements the active sessions counter.
func (m *Metrics) DecrementActiveSessions(ctx context.Context) {
	if m.activeSessions == nil {
		return // Instrumentation not initialized
	}

	m.activeSessions.Add(ctx, -1)
}

// Package server provides the MCP server context, health checks, and the
// dedicated metrics endpoint for the skydeckai-code application.
//
// # Key Components
//
// ServerContext holds the state every tool handler shares: the workspace
// sandbox that all filesystem paths are resolved against, the metrics
// recorder, and the audit logger. It also owns the shutdown lifecycle.
//
// MetricsServer exposes Prometheus metrics and health endpoints on a
// separate port from the MCP transport, so operational endpoints are
// never reachable through the tool surface.
//
// HealthChecker implements liveness (/healthz) and readiness (/readyz)
// probes, plus a detailed endpoint reporting uptime and the current
// workspace root.
package server

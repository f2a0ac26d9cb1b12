package server

import (
	"context"
	"sync"

	"github.com/thuanphamchezzi/skydeckai-code/internal/instrumentation"
	"github.com/thuanphamchezzi/skydeckai-code/internal/workspace"
)

// ServerContext holds the shared state for the MCP server: the workspace
// sandbox every filesystem tool resolves paths against, plus the
// instrumentation wiring.
type ServerContext struct {
	ctx       context.Context
	cancel    context.CancelFunc
	workspace *workspace.Workspace
	provider  *instrumentation.Provider
	audit     *instrumentation.AuditLogger
	version   string
	mu        sync.RWMutex
	shutdown  bool
}

// NewServerContext creates a new server context with the given workspace.
func NewServerContext(ctx context.Context, ws *workspace.Workspace) (*ServerContext, error) {
	shutdownCtx, cancel := context.WithCancel(ctx)

	return &ServerContext{
		ctx:       shutdownCtx,
		cancel:    cancel,
		workspace: ws,
		shutdown:  false,
	}, nil
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Workspace returns the workspace sandbox shared by all filesystem tools.
func (sc *ServerContext) Workspace() *workspace.Workspace {
	return sc.workspace
}

// SetInstrumentation attaches an instrumentation provider and audit logger.
// Both may be nil; accessors fall back to no-op implementations.
func (sc *ServerContext) SetInstrumentation(provider *instrumentation.Provider, audit *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.provider = provider
	sc.audit = audit
}

// Metrics returns the metrics recorder. Never returns nil; when no
// instrumentation provider is attached a no-op recorder is returned.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	if sc.provider == nil {
		return &instrumentation.Metrics{}
	}
	return sc.provider.Metrics()
}

// AuditLogger returns the audit logger, or nil if none is attached.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.audit
}

// SetVersion sets the server version reported by system tools.
func (sc *ServerContext) SetVersion(version string) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.version = version
}

// Version returns the server version.
func (sc *ServerContext) Version() string {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.version
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}

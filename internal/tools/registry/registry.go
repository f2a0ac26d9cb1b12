package registry

import (
	"context"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Handler is the signature shared by all tool handlers.
type Handler func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// Registry tracks every tool registered on the MCP server so that tools
// can be dispatched by name outside the protocol layer. The MCP server
// itself does not expose handler lookup, and the batch dispatcher needs
// it to fan invocations out to other tools.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	names    []string
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
	}
}

// Add registers the tool on the MCP server and retains the handler for
// later lookup. A nil server is allowed for tests that only need the
// lookup side. Registering the same name twice replaces the handler but
// keeps its original position in Names.
func (r *Registry) Add(s *mcpserver.MCPServer, tool mcp.Tool, handler Handler) {
	if s != nil {
		s.AddTool(tool, mcpserver.ToolHandlerFunc(handler))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.handlers[tool.Name]; !exists {
		r.names = append(r.names, tool.Name)
	}
	r.handlers[tool.Name] = handler
}

// Lookup returns the handler registered under name.
func (r *Registry) Lookup(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[name]
	return h, ok
}

// Has reports whether a tool is registered under name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.handlers[name]
	return ok
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.names))
	copy(names, r.names)
	return names
}

package batch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thuanphamchezzi/skydeckai-code/internal/tools/registry"
)

// spyRegistry builds a registry of stub tools that record how often they
// were invoked.
type spyRegistry struct {
	reg   *registry.Registry
	mu    sync.Mutex
	calls map[string]int
}

func newSpyRegistry() *spyRegistry {
	return &spyRegistry{
		reg:   registry.New(),
		calls: make(map[string]int),
	}
}

func (s *spyRegistry) record(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[name]++
}

func (s *spyRegistry) callCount(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[name]
}

func (s *spyRegistry) totalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.calls {
		total += n
	}
	return total
}

// addOK registers a tool whose result echoes its name.
func (s *spyRegistry) addOK(name string) {
	s.reg.Add(nil, mcp.NewTool(name), func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		s.record(name)
		return mcp.NewToolResultText("output of " + name), nil
	})
}

// addFailing registers a tool that returns a handler error.
func (s *spyRegistry) addFailing(name, message string) {
	s.reg.Add(nil, mcp.NewTool(name), func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		s.record(name)
		return nil, errors.New(message)
	})
}

// addToolError registers a tool that reports a tool-level error result.
func (s *spyRegistry) addToolError(name, message string) {
	s.reg.Add(nil, mcp.NewTool(name), func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		s.record(name)
		return mcp.NewToolResultError(message), nil
	})
}

// addPanicking registers a tool that panics.
func (s *spyRegistry) addPanicking(name string) {
	s.reg.Add(nil, mcp.NewTool(name), func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		s.record(name)
		panic("tool exploded")
	})
}

func TestRunValidation(t *testing.T) {
	spy := newSpyRegistry()
	spy.addOK("read_file")
	d := NewDispatcher(spy.reg)
	ctx := context.Background()

	tests := []struct {
		name        string
		description string
		invocations []Invocation
		wantErr     string
	}{
		{
			name:        "empty description",
			description: "",
			invocations: []Invocation{{Tool: "read_file"}},
			wantErr:     "description must be provided",
		},
		{
			name:        "no invocations",
			description: "gather info",
			wantErr:     "invocations list must not be empty",
		},
		{
			name:        "missing tool name",
			description: "gather info",
			invocations: []Invocation{{Tool: "read_file"}, {Tool: ""}},
			wantErr:     "tool name missing in invocation #2",
		},
		{
			name:        "unknown tool",
			description: "gather info",
			invocations: []Invocation{{Tool: "read_file"}, {Tool: "no_such_tool"}},
			wantErr:     "unknown tool 'no_such_tool' in invocation #2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.Run(ctx, tt.description, tt.invocations, false)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRunRejectsBatchBeforeAnyExecution(t *testing.T) {
	spy := newSpyRegistry()
	spy.addOK("read_file")
	spy.addOK("list_directory")
	d := NewDispatcher(spy.reg)

	invocations := []Invocation{
		{Tool: "read_file"},
		{Tool: "list_directory"},
		{Tool: "no_such_tool"},
	}

	_, err := d.Run(context.Background(), "mixed batch", invocations, false)
	require.ErrorIs(t, err, ErrUnknownTool)

	// Admission failure must not run any invocation, including valid ones
	assert.Zero(t, spy.totalCalls())
}

func TestRunParallelReportsInSubmissionOrder(t *testing.T) {
	reg := registry.New()

	// Every tool blocks until all three have started, so completion order
	// cannot match submission order by accident.
	var started atomic.Int32
	release := make(chan struct{})
	for i := 1; i <= 3; i++ {
		name := fmt.Sprintf("tool_%d", i)
		reg.Add(nil, mcp.NewTool(name), func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			if started.Add(1) == 3 {
				close(release)
			}
			<-release
			return mcp.NewToolResultText("done " + name), nil
		})
	}

	d := NewDispatcher(reg)
	report, err := d.Run(context.Background(), "ordered batch", []Invocation{
		{Tool: "tool_1"},
		{Tool: "tool_2"},
		{Tool: "tool_3"},
	}, false)
	require.NoError(t, err)

	require.Len(t, report.Results, 3)
	for i, result := range report.Results {
		assert.Equal(t, i, result.Index)
		assert.Equal(t, fmt.Sprintf("tool_%d", i+1), result.Tool)
		assert.True(t, result.Success)
	}
}

func TestRunParallelContinuesPastFailures(t *testing.T) {
	spy := newSpyRegistry()
	spy.addOK("read_file")
	spy.addFailing("write_file", "disk full")
	spy.addOK("list_directory")
	d := NewDispatcher(spy.reg)

	report, err := d.Run(context.Background(), "mixed results", []Invocation{
		{Tool: "read_file"},
		{Tool: "write_file"},
		{Tool: "list_directory"},
	}, false)
	require.NoError(t, err)

	require.Len(t, report.Results, 3)
	assert.True(t, report.Results[0].Success)
	assert.False(t, report.Results[1].Success)
	assert.Equal(t, "disk full", report.Results[1].Error)
	assert.True(t, report.Results[2].Success)
	assert.Zero(t, report.Skipped)
	assert.False(t, report.AllSucceeded())

	// Every tool ran despite the middle failure
	assert.Equal(t, 1, spy.callCount("read_file"))
	assert.Equal(t, 1, spy.callCount("list_directory"))
}

func TestRunSequentialHaltsOnFailure(t *testing.T) {
	spy := newSpyRegistry()
	spy.addOK("create_directory")
	spy.addFailing("write_file", "permission denied")
	spy.addOK("read_file")
	spy.addOK("list_directory")
	d := NewDispatcher(spy.reg)

	report, err := d.Run(context.Background(), "project setup", []Invocation{
		{Tool: "create_directory"},
		{Tool: "write_file"},
		{Tool: "read_file"},
		{Tool: "list_directory"},
	}, true)
	require.NoError(t, err)

	require.Len(t, report.Results, 2)
	assert.True(t, report.Results[0].Success)
	assert.False(t, report.Results[1].Success)
	assert.Equal(t, 2, report.Skipped)

	// Tools after the failure never ran
	assert.Zero(t, spy.callCount("read_file"))
	assert.Zero(t, spy.callCount("list_directory"))
}

func TestRunSequentialAllSucceed(t *testing.T) {
	spy := newSpyRegistry()
	spy.addOK("read_file")
	spy.addOK("list_directory")
	d := NewDispatcher(spy.reg)

	report, err := d.Run(context.Background(), "gather info", []Invocation{
		{Tool: "read_file"},
		{Tool: "list_directory"},
	}, true)
	require.NoError(t, err)

	require.Len(t, report.Results, 2)
	assert.Zero(t, report.Skipped)
	assert.True(t, report.AllSucceeded())
}

func TestRunToolLevelErrorIsFailure(t *testing.T) {
	spy := newSpyRegistry()
	spy.addToolError("edit_file", "no match found")
	d := NewDispatcher(spy.reg)

	report, err := d.Run(context.Background(), "apply edit", []Invocation{
		{Tool: "edit_file"},
	}, false)
	require.NoError(t, err)

	require.Len(t, report.Results, 1)
	assert.False(t, report.Results[0].Success)
	assert.Equal(t, "no match found", report.Results[0].Error)
}

func TestRunPanicIsIsolated(t *testing.T) {
	spy := newSpyRegistry()
	spy.addPanicking("screenshot")
	spy.addOK("read_file")
	d := NewDispatcher(spy.reg)

	report, err := d.Run(context.Background(), "capture state", []Invocation{
		{Tool: "screenshot"},
		{Tool: "read_file"},
	}, false)
	require.NoError(t, err)

	require.Len(t, report.Results, 2)
	assert.False(t, report.Results[0].Success)
	assert.Contains(t, report.Results[0].Error, "panic: tool exploded")
	assert.True(t, report.Results[1].Success)
}

func TestRenderReport(t *testing.T) {
	spy := newSpyRegistry()
	spy.addOK("read_file")
	spy.addFailing("write_file", "disk full")
	d := NewDispatcher(spy.reg)

	report, err := d.Run(context.Background(), "Gather system info", []Invocation{
		{Tool: "read_file"},
		{Tool: "write_file"},
	}, false)
	require.NoError(t, err)

	text := report.Render()
	assert.True(t, strings.HasPrefix(text, "Batch Operation: Gather system info\nExecution Mode: Parallel\n"))
	assert.Contains(t, text, "[1] read_file - SUCCESS\n")
	assert.Contains(t, text, "output of read_file")
	assert.Contains(t, text, "[2] write_file - ERROR\n")
	assert.Contains(t, text, "Error: disk full")

	// Each section header is underlined
	header := "[1] read_file - SUCCESS\n"
	assert.Contains(t, text, header+strings.Repeat("=", len(header)))
}

func TestRenderReportSequentialHalt(t *testing.T) {
	spy := newSpyRegistry()
	spy.addFailing("write_file", "permission denied")
	spy.addOK("read_file")
	d := NewDispatcher(spy.reg)

	report, err := d.Run(context.Background(), "Setup new project", []Invocation{
		{Tool: "write_file"},
		{Tool: "read_file"},
	}, true)
	require.NoError(t, err)

	text := report.Render()
	assert.Contains(t, text, "Execution Mode: Sequential")
	assert.Contains(t, text, "Execution stopped after failure. Remaining 1 tools were not executed.")
	assert.NotContains(t, text, "read_file - SUCCESS")
}

func TestParseInvocations(t *testing.T) {
	raw := []interface{}{
		map[string]interface{}{
			"tool":      "read_file",
			"arguments": map[string]interface{}{"path": "a.txt"},
		},
		map[string]interface{}{
			"tool": "list_directory",
		},
	}

	invocations, err := ParseInvocations(raw)
	require.NoError(t, err)
	require.Len(t, invocations, 2)
	assert.Equal(t, "read_file", invocations[0].Tool)
	assert.Equal(t, "a.txt", invocations[0].Arguments["path"])
	assert.Equal(t, "list_directory", invocations[1].Tool)
	assert.Nil(t, invocations[1].Arguments)
}

func TestParseInvocationsErrors(t *testing.T) {
	_, err := ParseInvocations("not an array")
	assert.ErrorContains(t, err, "invocations must be an array")

	_, err = ParseInvocations([]interface{}{"not an object"})
	assert.ErrorContains(t, err, "invocation #1 must be an object")
}

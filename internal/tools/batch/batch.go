package batch

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"golang.org/x/sync/errgroup"

	"github.com/thuanphamchezzi/skydeckai-code/internal/tools/registry"
)

// ErrUnknownTool is returned when a batch names a tool that is not
// registered. The whole batch is rejected before any invocation runs.
var ErrUnknownTool = errors.New("unknown tool")

// Invocation is a single tool call inside a batch.
type Invocation struct {
	Tool      string
	Arguments map[string]interface{}
}

// Dispatcher validates and executes batches of tool invocations against
// the tool registry. Invocations either all run concurrently (parallel
// mode) or run in order with execution halting on the first failure
// (sequential mode).
type Dispatcher struct {
	registry *registry.Registry
}

// NewDispatcher creates a Dispatcher backed by the given registry.
func NewDispatcher(reg *registry.Registry) *Dispatcher {
	return &Dispatcher{registry: reg}
}

// Run validates the batch and executes it. Validation failures (empty
// description, empty invocation list, missing or unknown tool names)
// reject the whole batch with an error before any tool runs. Individual
// tool failures never surface as an error from Run; they are captured
// in the report.
func (d *Dispatcher) Run(ctx context.Context, description string, invocations []Invocation, sequential bool) (*Report, error) {
	if description == "" {
		return nil, fmt.Errorf("description must be provided")
	}
	if len(invocations) == 0 {
		return nil, fmt.Errorf("invocations list must not be empty")
	}

	// Validate that all tools exist before running any
	handlers := make([]registry.Handler, len(invocations))
	for idx, invocation := range invocations {
		if invocation.Tool == "" {
			return nil, fmt.Errorf("tool name missing in invocation #%d", idx+1)
		}
		handler, ok := d.registry.Lookup(invocation.Tool)
		if !ok {
			return nil, fmt.Errorf("%w '%s' in invocation #%d", ErrUnknownTool, invocation.Tool, idx+1)
		}
		handlers[idx] = handler
	}

	report := &Report{
		Description: description,
		Sequential:  sequential,
	}

	if sequential {
		for idx, invocation := range invocations {
			result := d.executeOne(ctx, handlers[idx], invocation, idx)
			report.Results = append(report.Results, result)

			// A failure in sequential mode stops execution
			if !result.Success {
				report.Skipped = len(invocations) - idx - 1
				break
			}
		}
		return report, nil
	}

	results := make([]Result, len(invocations))
	var g errgroup.Group
	for idx, invocation := range invocations {
		g.Go(func() error {
			results[idx] = d.executeOne(ctx, handlers[idx], invocation, idx)
			return nil
		})
	}
	// executeOne never returns an error; Wait is purely a barrier so
	// every invocation finishes before the report is assembled
	_ = g.Wait()

	// Results are reported in submission order regardless of completion order
	report.Results = results
	return report, nil
}

// executeOne runs a single invocation with full isolation: handler
// errors, tool-level error results, and panics all become a failed
// Result without affecting the rest of the batch.
func (d *Dispatcher) executeOne(ctx context.Context, handler registry.Handler, invocation Invocation, index int) (result Result) {
	result = Result{
		Tool:  invocation.Tool,
		Index: index,
	}

	defer func() {
		if r := recover(); r != nil {
			result.Success = false
			result.Error = fmt.Sprintf("panic: %v", r)
		}
	}()

	args := invocation.Arguments
	if args == nil {
		args = map[string]interface{}{}
	}

	req := mcp.CallToolRequest{}
	req.Params.Name = invocation.Tool
	req.Params.Arguments = args

	toolResult, err := handler(ctx, req)
	if err != nil {
		result.Success = false
		result.Error = err.Error()
		return result
	}

	content := textContent(toolResult)
	if toolResult != nil && toolResult.IsError {
		result.Success = false
		result.Error = content
		return result
	}

	result.Success = true
	result.Content = content
	return result
}

// textContent flattens the text parts of a tool result into one string.
func textContent(result *mcp.CallToolResult) string {
	if result == nil {
		return ""
	}

	var out string
	for _, content := range result.Content {
		text, ok := content.(mcp.TextContent)
		if !ok {
			continue
		}
		if out != "" {
			out += "\n"
		}
		out += text.Text
	}
	return out
}

// ParseInvocations decodes the raw "invocations" argument of a batch
// request into Invocation values. The expected shape is an array of
// objects with a "tool" string and an "arguments" object.
func ParseInvocations(raw interface{}) ([]Invocation, error) {
	items, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("invocations must be an array")
	}

	invocations := make([]Invocation, 0, len(items))
	for idx, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("invocation #%d must be an object", idx+1)
		}

		invocation := Invocation{}
		if tool, ok := obj["tool"].(string); ok {
			invocation.Tool = tool
		}
		if args, ok := obj["arguments"].(map[string]interface{}); ok {
			invocation.Arguments = args
		}
		invocations = append(invocations, invocation)
	}

	return invocations, nil
}

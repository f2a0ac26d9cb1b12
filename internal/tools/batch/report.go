package batch

import (
	"fmt"
	"strings"
)

// Execution mode names as they appear in rendered reports.
const (
	ModeSequential = "Sequential"
	ModeParallel   = "Parallel"
)

// Result captures the outcome of one invocation in a batch.
type Result struct {
	Tool    string
	Index   int
	Success bool
	Content string
	Error   string
}

// Status returns "SUCCESS" or "ERROR" for report headers.
func (r Result) Status() string {
	if r.Success {
		return "SUCCESS"
	}
	return "ERROR"
}

// Report aggregates the results of a batch dispatch. Results are ordered
// by submission index. Skipped counts the invocations that never ran
// because a sequential batch halted on a failure.
type Report struct {
	Description string
	Sequential  bool
	Results     []Result
	Skipped     int
}

// Mode returns the execution mode name for the report header.
func (r *Report) Mode() string {
	if r.Sequential {
		return ModeSequential
	}
	return ModeParallel
}

// AllSucceeded reports whether every invocation that ran succeeded and
// none were skipped.
func (r *Report) AllSucceeded() bool {
	if r.Skipped > 0 {
		return false
	}
	for _, result := range r.Results {
		if !result.Success {
			return false
		}
	}
	return true
}

// Render formats the report as plain text: a header naming the batch and
// its execution mode, then one underlined section per invocation in
// submission order, and a trailing notice when a sequential batch
// stopped early.
func (r *Report) Render() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Batch Operation: %s\n", r.Description))
	b.WriteString(fmt.Sprintf("Execution Mode: %s\n", r.Mode()))

	for _, result := range r.Results {
		section := fmt.Sprintf("[%d] %s - %s\n", result.Index+1, result.Tool, result.Status())
		b.WriteString("\n" + section + strings.Repeat("=", len(section)) + "\n")

		if result.Success {
			b.WriteString(result.Content)
		} else {
			b.WriteString(fmt.Sprintf("Error: %s", result.Error))
		}
	}

	if r.Skipped > 0 {
		b.WriteString(fmt.Sprintf("\nExecution stopped after failure. Remaining %d tools were not executed.", r.Skipped))
	}

	return b.String()
}

// ParseReportHeader recovers the description and execution mode from a
// rendered report. It inverts the two header lines written by Render.
func ParseReportHeader(text string) (description string, sequential bool, err error) {
	lines := strings.SplitN(text, "\n", 3)
	if len(lines) < 2 || !strings.HasPrefix(lines[0], "Batch Operation: ") {
		return "", false, fmt.Errorf("malformed report header: missing batch operation line")
	}
	description = strings.TrimPrefix(lines[0], "Batch Operation: ")

	mode, ok := strings.CutPrefix(lines[1], "Execution Mode: ")
	if !ok {
		return "", false, fmt.Errorf("malformed report header: missing execution mode line")
	}
	switch mode {
	case ModeSequential:
		return description, true, nil
	case ModeParallel:
		return description, false, nil
	default:
		return "", false, fmt.Errorf("malformed report header: unknown execution mode %q", mode)
	}
}

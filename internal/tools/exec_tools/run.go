package exec_tools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// execResult captures the outcome of one subprocess run.
type execResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// runCommand runs a command in dir with a timeout, capturing stdout and
// stderr separately. A timeout is reported as exit code 124 with a
// message on stderr, matching the conventional timeout(1) behavior.
func runCommand(ctx context.Context, dir string, timeout time.Duration, name string, args ...string) execResult {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return execResult{
			Stderr:   fmt.Sprintf("Execution timed out after %d seconds", int(timeout.Seconds())),
			ExitCode: 124,
		}
	}

	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		} else {
			return execResult{
				Stderr:   err.Error(),
				ExitCode: 1,
			}
		}
	}

	return execResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	}
}

// formatExecResult renders stdout, stderr, and the exit code into the
// labeled sections the execution tools report.
func formatExecResult(res execResult, emptyMessage, exitNoun string) string {
	var sections []string
	if res.Stdout != "" {
		sections = append(sections, "=== stdout ===\n"+strings.TrimRight(res.Stdout, " \t\n"))
	}
	if res.Stderr != "" {
		sections = append(sections, "=== stderr ===\n"+strings.TrimRight(res.Stderr, " \t\n"))
	}
	if res.Stdout == "" && res.Stderr == "" {
		sections = append(sections, emptyMessage)
	}
	if res.ExitCode != 0 {
		sections = append(sections, fmt.Sprintf("\n%s exited with code %d", exitNoun, res.ExitCode))
	}
	return strings.Join(sections, "\n\n")
}

func commandAvailable(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

package exec_tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/thuanphamchezzi/skydeckai-code/internal/server"
	"github.com/thuanphamchezzi/skydeckai-code/internal/tools/common"
)

const (
	defaultCodeTimeout = 5
	maxCodeTimeout     = 30
)

type languageConfig struct {
	Extension    string
	Command      []string
	WrapperStart string
	WrapperEnd   string
}

var languageConfigs = map[string]languageConfig{
	"python":     {Extension: ".py", Command: []string{"python3"}},
	"javascript": {Extension: ".js", Command: []string{"node"}},
	"ruby":       {Extension: ".rb", Command: []string{"ruby"}},
	"php":        {Extension: ".php", Command: []string{"php"}},
	"go":         {Extension: ".go", Command: []string{"go", "run"}, WrapperStart: "package main\nfunc main() {", WrapperEnd: "}"},
	"rust":       {Extension: ".rs", Command: []string{"rustc"}, WrapperStart: "fn main() {", WrapperEnd: "}"},
}

func handleExecuteCode(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	language, err := common.StringArg(args, "language")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	code, err := common.StringArg(args, "code")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if language == "" || code == "" {
		return mcp.NewToolResultError("both language and code must be provided"), nil
	}
	timeoutSecs, err := common.OptionalIntArg(args, "timeout", defaultCodeTimeout)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if timeoutSecs < 1 {
		timeoutSecs = 1
	}
	if timeoutSecs > maxCodeTimeout {
		timeoutSecs = maxCodeTimeout
	}

	config, ok := languageConfigs[language]
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unsupported language: %s", language)), nil
	}
	if !commandAvailable(config.Command[0]) {
		return mcp.NewToolResultError(fmt.Sprintf("%s is not installed on the system", config.Command[0])), nil
	}

	root := sc.Workspace().Root()
	tempFile := filepath.Join(root, fmt.Sprintf("tmp_exec_%s%s", uuid.NewString()[:8], config.Extension))

	if err := os.WriteFile(tempFile, []byte(prepareCode(code, language, config)), 0o644); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error executing code: %v", err)), nil
	}
	defer os.Remove(tempFile)

	timeout := time.Duration(timeoutSecs) * time.Second

	var res execResult
	if language == "rust" {
		binary := strings.TrimSuffix(tempFile, config.Extension) + ".bin"
		compile := runCommand(ctx, root, timeout, "rustc", tempFile, "-o", binary)
		if compile.ExitCode != 0 {
			return mcp.NewToolResultText(formatExecResult(compile, "Code executed successfully with no output", "Process")), nil
		}
		defer os.Remove(binary)
		res = runCommand(ctx, root, timeout, binary)
	} else {
		cmdArgs := append(config.Command[1:], tempFile)
		res = runCommand(ctx, root, timeout, config.Command[0], cmdArgs...)
	}

	return mcp.NewToolResultText(formatExecResult(res, "Code executed successfully with no output", "Process")), nil
}

// prepareCode wraps snippets in the boilerplate the language needs to
// run standalone.
func prepareCode(code, language string, config languageConfig) string {
	switch language {
	case "go":
		if !strings.Contains(code, "package main") && !strings.Contains(code, "func main()") {
			return fmt.Sprintf("%s\n%s\n%s", config.WrapperStart, code, config.WrapperEnd)
		}
	case "rust":
		if !strings.Contains(code, "fn main()") {
			return fmt.Sprintf("%s\n%s\n%s", config.WrapperStart, code, config.WrapperEnd)
		}
	case "php":
		if !strings.Contains(code, "<?php") {
			return "<?php\n" + code
		}
	}
	return code
}

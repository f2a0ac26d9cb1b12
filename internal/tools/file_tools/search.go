package file_tools

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/thuanphamchezzi/skydeckai-code/internal/server"
	"github.com/thuanphamchezzi/skydeckai-code/internal/tools/common"
)

func handleSearchFiles(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	pattern, err := common.StringArg(args, "pattern")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if pattern == "" {
		return mcp.NewToolResultError("pattern must be provided"), nil
	}
	startPath, err := common.OptionalStringArg(args, "path", ".")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	includeHidden, err := common.OptionalBoolArg(args, "include_hidden", false)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	fullStart, err := sc.Workspace().Resolve(startPath)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	info, err := os.Stat(fullStart)
	if os.IsNotExist(err) {
		return mcp.NewToolResultError(fmt.Sprintf("start path does not exist: %s", startPath)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error searching files: %v", err)), nil
	}
	if !info.IsDir() {
		return mcp.NewToolResultError(fmt.Sprintf("start path is not a directory: %s", startPath)), nil
	}

	matches, gitErr := searchGitTracked(ctx, fullStart, pattern, includeHidden)
	if gitErr != nil {
		// Not a git repository or git unavailable; walk the tree instead
		matches, err = searchWalk(fullStart, sc.Workspace().Root(), pattern, includeHidden)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("error searching files: %v", err)), nil
		}
	}

	sort.Strings(matches)

	if len(matches) == 0 {
		return mcp.NewToolResultText("No matches found"), nil
	}
	return mcp.NewToolResultText(strings.Join(matches, "\n")), nil
}

// searchGitTracked lists git-tracked files and directories, which is
// much faster than walking large trees and skips ignored artifacts.
func searchGitTracked(ctx context.Context, dir, pattern string, includeHidden bool) ([]string, error) {
	pattern = strings.ToLower(pattern)

	filesCmd := exec.CommandContext(ctx, "git", "ls-files")
	filesCmd.Dir = dir
	filesOut, err := filesCmd.Output()
	if err != nil {
		return nil, err
	}

	dirsCmd := exec.CommandContext(ctx, "git", "ls-tree", "-d", "-r", "--name-only", "HEAD")
	dirsCmd.Dir = dir
	dirsOut, err := dirsCmd.Output()
	if err != nil {
		return nil, err
	}

	var matches []string
	for _, dirPath := range strings.Split(strings.TrimRight(string(dirsOut), "\n"), "\n") {
		if dirPath == "" {
			continue
		}
		if strings.Contains(strings.ToLower(dirPath), pattern) && (includeHidden || !hasHiddenComponent(dirPath)) {
			matches = append(matches, fmt.Sprintf("[DIR] %s", dirPath))
		}
	}
	for _, filePath := range strings.Split(strings.TrimRight(string(filesOut), "\n"), "\n") {
		if filePath == "" {
			continue
		}
		if strings.Contains(strings.ToLower(filePath), pattern) && (includeHidden || !hasHiddenComponent(filePath)) {
			matches = append(matches, fmt.Sprintf("[FILE] %s", filePath))
		}
	}
	return matches, nil
}

// searchWalk recursively matches file and directory names under start,
// reporting paths relative to the workspace root.
func searchWalk(start, root, pattern string, includeHidden bool) ([]string, error) {
	pattern = strings.ToLower(pattern)

	var matches []string
	err := filepath.WalkDir(start, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == start {
			return nil
		}

		name := d.Name()
		if !includeHidden && strings.HasPrefix(name, ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.Contains(strings.ToLower(name), pattern) {
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				rel = path
			}
			if includeHidden || !hasHiddenComponent(rel) {
				if d.IsDir() {
					matches = append(matches, fmt.Sprintf("[DIR] %s", rel))
				} else {
					matches = append(matches, fmt.Sprintf("[FILE] %s", rel))
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return matches, nil
}

func hasHiddenComponent(path string) bool {
	for _, part := range strings.Split(path, string(filepath.Separator)) {
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}

package code_tools

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gobwas/glob"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/thuanphamchezzi/skydeckai-code/internal/server"
	"github.com/thuanphamchezzi/skydeckai-code/internal/tools/common"
)

const defaultMaxResults = 100

type fileMatches struct {
	path    string
	modTime int64
	lines   []string
}

func handleSearchCode(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	pattern, err := common.StringArg(args, "pattern")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if pattern == "" {
		return mcp.NewToolResultError("pattern must be provided"), nil
	}
	include, err := common.OptionalStringArg(args, "include", "*")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	exclude, err := common.OptionalStringArg(args, "exclude", "")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	maxResults, err := common.OptionalIntArg(args, "max_results", defaultMaxResults)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	caseSensitive, err := common.OptionalBoolArg(args, "case_sensitive", false)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	path, err := common.OptionalStringArg(args, "path", ".")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	fullPath, err := sc.Workspace().Resolve(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	info, err := os.Stat(fullPath)
	if os.IsNotExist(err) {
		return mcp.NewToolResultError(fmt.Sprintf("path does not exist: %s", path)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error searching code: %v", err)), nil
	}
	if !info.IsDir() {
		return mcp.NewToolResultError(fmt.Sprintf("path is not a directory: %s", path)), nil
	}

	root := sc.Workspace().Root()

	matches, rgErr := searchWithRipgrep(ctx, pattern, include, exclude, maxResults, caseSensitive, fullPath, root)
	if rgErr != nil {
		matches, err = searchWithWalk(pattern, include, exclude, maxResults, caseSensitive, fullPath, root)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("error searching code: %v", err)), nil
		}
	}

	if len(matches) == 0 {
		return mcp.NewToolResultText("No matches found."), nil
	}

	// Newest files first
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].modTime > matches[j].modTime
	})

	var out []string
	for _, fm := range matches {
		mod := modTimeString(fm.path, root)
		out = append(out, fmt.Sprintf("\n%s (modified: %s)", fm.path, mod))
		out = append(out, fm.lines...)
	}
	return mcp.NewToolResultText(strings.TrimPrefix(strings.Join(out, "\n"), "\n")), nil
}

func modTimeString(rel, root string) string {
	info, err := os.Stat(filepath.Join(root, rel))
	if err != nil {
		return "unknown"
	}
	return info.ModTime().Format("2006-01-02 15:04:05")
}

// searchWithRipgrep shells out to rg when it is installed. Output lines
// arrive as file:line:content and are regrouped per file.
func searchWithRipgrep(ctx context.Context, pattern, include, exclude string, maxResults int, caseSensitive bool, fullPath, root string) ([]fileMatches, error) {
	cmd := []string{"--line-number"}
	if !caseSensitive {
		cmd = append(cmd, "--ignore-case")
	}
	if include != "" && include != "*" {
		cmd = append(cmd, "--glob", include)
	}
	if exclude != "" {
		cmd = append(cmd, "--glob", "!"+exclude)
	}
	cmd = append(cmd, "--max-count", strconv.Itoa(maxResults), pattern, fullPath)

	rg := exec.CommandContext(ctx, "rg", cmd...)
	out, err := rg.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 && len(exitErr.Stderr) == 0 {
			// rg exits 1 when nothing matched
			return nil, nil
		}
		return nil, err
	}

	grouped := map[string]*fileMatches{}
	var order []string
	for _, line := range strings.Split(strings.TrimRight(string(out), "\n"), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.SplitN(line, ":", 3)
		if len(parts) < 3 {
			continue
		}
		rel, relErr := filepath.Rel(root, parts[0])
		if relErr != nil {
			rel = parts[0]
		}
		fm, ok := grouped[rel]
		if !ok {
			var modTime int64
			if info, statErr := os.Stat(parts[0]); statErr == nil {
				modTime = info.ModTime().Unix()
			}
			fm = &fileMatches{path: rel, modTime: modTime}
			grouped[rel] = fm
			order = append(order, rel)
		}
		fm.lines = append(fm.lines, fmt.Sprintf("%s: %s", parts[1], parts[2]))
	}

	result := make([]fileMatches, 0, len(order))
	for _, rel := range order {
		result = append(result, *grouped[rel])
	}
	return result, nil
}

// searchWithWalk is the pure-Go fallback used when ripgrep is missing.
func searchWithWalk(pattern, include, exclude string, maxResults int, caseSensitive bool, fullPath, root string) ([]fileMatches, error) {
	if !caseSensitive {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid regular expression: %w", err)
	}

	includeGlob, err := glob.Compile(include, '/')
	if err != nil {
		return nil, fmt.Errorf("invalid include pattern: %w", err)
	}
	var excludeGlob glob.Glob
	if exclude != "" {
		excludeGlob, err = glob.Compile(exclude, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern: %w", err)
		}
	}

	grouped := map[string]*fileMatches{}
	var order []string
	matchCount := 0

	walkErr := filepath.WalkDir(fullPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if matchCount >= maxResults {
			return filepath.SkipAll
		}

		name := d.Name()
		rel, relErr := filepath.Rel(fullPath, path)
		if relErr != nil {
			rel = name
		}
		if !includeGlob.Match(name) && !includeGlob.Match(rel) {
			return nil
		}
		if excludeGlob != nil && (excludeGlob.Match(name) || excludeGlob.Match(rel)) {
			return nil
		}

		info, infoErr := d.Info()
		if infoErr != nil {
			return nil
		}

		lines, scanErr := scanFileForMatches(path, re, maxResults-matchCount)
		if scanErr != nil || len(lines) == 0 {
			return nil
		}
		matchCount += len(lines)

		display, relErr := filepath.Rel(root, path)
		if relErr != nil {
			display = path
		}
		fm, ok := grouped[display]
		if !ok {
			fm = &fileMatches{path: display, modTime: info.ModTime().Unix()}
			grouped[display] = fm
			order = append(order, display)
		}
		fm.lines = append(fm.lines, lines...)
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	result := make([]fileMatches, 0, len(order))
	for _, rel := range order {
		result = append(result, *grouped[rel])
	}
	return result, nil
}

func scanFileForMatches(path string, re *regexp.Regexp, limit int) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(data) {
		// Skip binary files
		return nil, nil
	}

	var lines []string
	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if re.MatchString(line) {
			lines = append(lines, fmt.Sprintf("%d: %s", lineNum, strings.TrimRight(line, " \t")))
			if len(lines) >= limit {
				break
			}
		}
	}
	return lines, scanner.Err()
}

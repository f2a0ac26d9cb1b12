package code_tools

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/thuanphamchezzi/skydeckai-code/internal/server"
	"github.com/thuanphamchezzi/skydeckai-code/internal/tools/common"
)

// languageByExtension maps source file extensions to language names.
var languageByExtension = map[string]string{
	".py":   "python",
	".js":   "javascript",
	".jsx":  "javascript",
	".mjs":  "javascript",
	".cjs":  "javascript",
	".ts":   "typescript",
	".tsx":  "typescript",
	".java": "java",
	".cpp":  "cpp",
	".hpp":  "cpp",
	".cc":   "cpp",
	".hh":   "cpp",
	".cxx":  "cpp",
	".hxx":  "cpp",
	".rb":   "ruby",
	".rake": "ruby",
	".go":   "go",
	".rs":   "rust",
	".php":  "php",
	".cs":   "csharp",
	".kt":   "kotlin",
	".kts":  "kotlin",
}

func detectLanguage(path string) string {
	if lang, ok := languageByExtension[strings.ToLower(filepath.Ext(path))]; ok {
		return lang
	}
	return "unknown"
}

// symbol is one structural element extracted from a source file.
type symbol struct {
	Name     string
	Kind     symbolKind
	Params   []string
	Children []*symbol
}

type symbolKind int

const (
	kindClass symbolKind = iota
	kindFunction
)

type fileAnalysis struct {
	Path     string
	Language string
	Symbols  []*symbol
}

type analysisError struct {
	Path  string
	Error string
}

func handleCodebaseMapper(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

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
		return mcp.NewToolResultError(fmt.Sprintf("error mapping codebase: %v", err)), nil
	}
	if !info.IsDir() {
		return mcp.NewToolResultError(fmt.Sprintf("path is not a directory: %s", path)), nil
	}

	files := collectSourceFiles(ctx, fullPath)
	if len(files) == 0 {
		return mcp.NewToolResultError("no source code files found to analyze"), nil
	}
	sort.Strings(files)

	var results []fileAnalysis
	var errs []analysisError
	for _, file := range files {
		rel, relErr := filepath.Rel(fullPath, file)
		if relErr != nil {
			rel = file
		}
		analysis, analyzeErr := analyzeSourceFile(file)
		if analyzeErr != nil {
			errs = append(errs, analysisError{Path: rel, Error: analyzeErr.Error()})
			continue
		}
		analysis.Path = rel
		results = append(results, analysis)
	}

	return mcp.NewToolResultText(formatAnalysis(results, len(files), errs)), nil
}

// collectSourceFiles prefers git-tracked files, falling back to a walk
// that skips hidden and build directories.
func collectSourceFiles(ctx context.Context, dir string) []string {
	var files []string

	cmd := exec.CommandContext(ctx, "git", "ls-files")
	cmd.Dir = dir
	if out, err := cmd.Output(); err == nil {
		for _, line := range strings.Split(strings.TrimRight(string(out), "\n"), "\n") {
			if line == "" {
				continue
			}
			full := filepath.Join(dir, line)
			if detectLanguage(full) != "unknown" {
				files = append(files, full)
			}
		}
	}
	if len(files) > 0 {
		return files
	}

	skipDirs := map[string]bool{
		".git": true, ".svn": true, "node_modules": true,
		"__pycache__": true, "build": true, "dist": true, "vendor": true,
	}
	filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		name := d.Name()
		if d.IsDir() {
			if path != dir && (strings.HasPrefix(name, ".") || skipDirs[name]) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}
		if detectLanguage(path) != "unknown" {
			files = append(files, path)
		}
		return nil
	})
	return files
}

func analyzeSourceFile(path string) (fileAnalysis, error) {
	language := detectLanguage(path)
	if language == "unknown" {
		return fileAnalysis{}, fmt.Errorf("unsupported file type: %s", filepath.Ext(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fileAnalysis{}, err
	}

	var symbols []*symbol
	if language == "go" {
		symbols, err = analyzeGoSource(path, data)
		if err != nil {
			return fileAnalysis{}, err
		}
	} else {
		symbols = analyzeGenericSource(language, string(data))
	}

	return fileAnalysis{Language: language, Symbols: symbols}, nil
}

func formatAnalysis(results []fileAnalysis, totalFiles int, errs []analysisError) string {
	classes := 0
	functions := 0
	for _, r := range results {
		c, f := countSymbols(r.Symbols)
		classes += c
		functions += f
	}

	var sections []string
	sections = append(sections, "\n===ANALYSIS STATISTICS===\n")
	sections = append(sections, fmt.Sprintf("Total files analyzed: %d", totalFiles))
	sections = append(sections, fmt.Sprintf("Total errors: %d", len(errs)))
	sections = append(sections, fmt.Sprintf("Total classes found: %d", classes))
	sections = append(sections, fmt.Sprintf("Total functions found: %d", functions))

	if len(errs) > 0 {
		sections = append(sections, "\n===ERRORS===")
		for _, e := range errs {
			firstLine := strings.SplitN(e.Error, "\n", 2)[0]
			sections = append(sections, fmt.Sprintf("%s: %s", e.Path, firstLine))
		}
	}

	sections = append(sections, "\n===REPOSITORY STRUCTURE===")
	sections = append(sections, renderStructure(results))
	return strings.Join(sections, "\n")
}

func countSymbols(symbols []*symbol) (classes, functions int) {
	for _, s := range symbols {
		switch s.Kind {
		case kindClass:
			classes++
		case kindFunction:
			functions++
		}
		c, f := countSymbols(s.Children)
		classes += c
		functions += f
	}
	return classes, functions
}

func renderStructure(results []fileAnalysis) string {
	sorted := make([]fileAnalysis, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	var lines []string
	for _, r := range sorted {
		if len(r.Symbols) == 0 {
			continue
		}
		lines = append(lines, "\n"+r.Path)
		lines = append(lines, renderSymbols(r.Symbols, "")...)
	}
	if len(lines) == 0 {
		return "No significant code structure found."
	}
	return strings.Join(lines, "\n")
}

func renderSymbols(symbols []*symbol, prefix string) []string {
	var lines []string
	for i, s := range symbols {
		last := i == len(symbols)-1
		branch := "├── "
		childPrefix := prefix + "│   "
		if last {
			branch = "└── "
			childPrefix = prefix + "    "
		}

		label := s.Name
		switch s.Kind {
		case kindClass:
			label = "class " + s.Name
		case kindFunction:
			label = fmt.Sprintf("%s(%s)", s.Name, strings.Join(s.Params, ", "))
		}
		lines = append(lines, prefix+branch+label)
		lines = append(lines, renderSymbols(s.Children, childPrefix)...)
	}
	return lines
}

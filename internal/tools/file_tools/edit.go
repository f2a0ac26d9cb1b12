package file_tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/thuanphamchezzi/skydeckai-code/internal/server"
	"github.com/thuanphamchezzi/skydeckai-code/internal/tools/common"
)

// matchConfidenceThreshold is the minimum similarity ratio required for a
// fuzzy match to be applied.
const matchConfidenceThreshold = 0.8

type fileEdit struct {
	OldText string
	NewText string
}

type failedMatch struct {
	OldText    string  `json:"oldText"`
	Confidence float64 `json:"confidence"`
	BestMatch  string  `json:"bestMatch"`
}

func handleEditFile(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	path, err := common.StringArg(args, "path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	edits, err := parseEdits(args["edits"])
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	dryRun, err := common.OptionalBoolArg(args, "dryRun", false)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	opts := editOptions{preserveIndentation: true, normalizeWhitespace: true, partialMatch: true}
	if rawOpts, ok := args["options"].(map[string]interface{}); ok {
		if v, ok := rawOpts["preserveIndentation"].(bool); ok {
			opts.preserveIndentation = v
		}
		if v, ok := rawOpts["normalizeWhitespace"].(bool); ok {
			opts.normalizeWhitespace = v
		}
		if v, ok := rawOpts["partialMatch"].(bool); ok {
			opts.partialMatch = v
		}
	}

	fullPath, err := sc.Workspace().Resolve(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if _, statErr := os.Stat(fullPath); os.IsNotExist(statErr) {
		return mcp.NewToolResultError(fmt.Sprintf("file does not exist: %s", path)), nil
	}

	output, err := applyFileEdits(fullPath, edits, dryRun, opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error editing file: %v", err)), nil
	}
	return mcp.NewToolResultText(output), nil
}

func parseEdits(raw interface{}) ([]fileEdit, error) {
	list, ok := raw.([]interface{})
	if !ok || len(list) == 0 {
		return nil, fmt.Errorf("edits must be a non-empty list")
	}
	edits := make([]fileEdit, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("each edit must have oldText and newText properties")
		}
		oldText, okOld := m["oldText"].(string)
		newText, okNew := m["newText"].(string)
		if !okOld || !okNew {
			return nil, fmt.Errorf("each edit must have oldText and newText properties")
		}
		edits = append(edits, fileEdit{OldText: oldText, NewText: newText})
	}
	return edits, nil
}

type editOptions struct {
	preserveIndentation bool
	normalizeWhitespace bool
	partialMatch        bool
}

// applyFileEdits applies each edit in order, falling back to fuzzy
// line-window matching when an exact match is not found. It returns a
// unified diff of the changes plus details for any edits that could not
// be matched with sufficient confidence.
func applyFileEdits(fullPath string, edits []fileEdit, dryRun bool, opts editOptions) (string, error) {
	data, err := os.ReadFile(fullPath)
	if err != nil {
		return "", err
	}
	content := string(data)
	modified := content

	var failures []failedMatch
	for _, edit := range edits {
		oldText := edit.OldText
		newText := edit.NewText
		if opts.normalizeWhitespace {
			oldText = normalizeWhitespace(oldText, opts.preserveIndentation)
			newText = normalizeWhitespace(newText, opts.preserveIndentation)
		}

		start, end, confidence := findBestMatch(modified, oldText, opts.partialMatch)
		if confidence >= matchConfidenceThreshold {
			replacement := newText
			if opts.preserveIndentation {
				replacement = preserveIndent(modified[start:end], newText)
			}
			modified = modified[:start] + replacement + modified[end:]
		} else {
			best := ""
			if start >= 0 && end > start {
				best = modified[start:end]
			}
			failures = append(failures, failedMatch{OldText: edit.OldText, Confidence: confidence, BestMatch: best})
		}
	}

	diff := createUnifiedDiff(content, modified, filepath.Base(fullPath))

	if !dryRun && len(failures) == 0 {
		if err := os.WriteFile(fullPath, []byte(modified), 0o644); err != nil {
			return "", err
		}
	}

	var sb strings.Builder
	if len(failures) > 0 {
		encoded, err := json.MarshalIndent(failures, "", "  ")
		if err != nil {
			return "", err
		}
		sb.WriteString("=== Failed Matches ===\n")
		sb.Write(encoded)
		sb.WriteString("\n\n")
	}
	sb.WriteString("=== Diff ===\n")
	sb.WriteString(diff)
	return sb.String(), nil
}

// normalizeWhitespace collapses runs of spaces and tabs inside each line
// while optionally keeping the leading indentation intact.
func normalizeWhitespace(text string, preserveIndentation bool) string {
	lines := strings.Split(text, "\n")
	normalized := make([]string, len(lines))
	for i, line := range lines {
		indent := ""
		if preserveIndentation {
			indent = line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		}
		normalized[i] = indent + strings.Join(strings.Fields(line), " ")
	}
	return strings.Join(normalized, "\n")
}

// findBestMatch locates oldText within content. An exact substring match
// wins immediately. Otherwise, when partial matching is allowed, it
// slides a window of the same line count across the content and scores
// each window by the average per-line similarity ratio. Returns the
// start and end byte offsets of the best window plus its confidence.
func findBestMatch(content, oldText string, partialMatch bool) (int, int, float64) {
	if idx := strings.Index(content, oldText); idx >= 0 {
		return idx, idx + len(oldText), 1.0
	}
	if !partialMatch {
		return -1, -1, 0
	}

	contentLines := strings.Split(content, "\n")
	patternLines := strings.Split(oldText, "\n")
	if len(patternLines) == 0 || len(contentLines) < len(patternLines) {
		return -1, -1, 0
	}

	bestScore := 0.0
	bestStartLine := -1
	for i := 0; i+len(patternLines) <= len(contentLines); i++ {
		score := 0.0
		for j, patternLine := range patternLines {
			score += similarityRatio(contentLines[i+j], patternLine)
		}
		score /= float64(len(patternLines))
		if score > bestScore {
			bestScore = score
			bestStartLine = i
		}
	}

	if bestStartLine < 0 {
		return -1, -1, 0
	}

	start := 0
	for i := 0; i < bestStartLine; i++ {
		start += len(contentLines[i]) + 1
	}
	end := start
	for i := bestStartLine; i < bestStartLine+len(patternLines); i++ {
		end += len(contentLines[i]) + 1
	}
	// Drop the trailing newline unless the window reaches end of content
	if end > len(content) {
		end = len(content)
	} else {
		end--
	}
	return start, end, bestScore
}

// similarityRatio computes a character-level similarity between two
// lines using the difflib sequence matcher.
func similarityRatio(a, b string) float64 {
	if a == b {
		return 1.0
	}
	matcher := difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, ""))
	return matcher.Ratio()
}

// preserveIndent re-indents newText so its first line keeps the
// indentation of the matched region's first line.
func preserveIndent(matched, newText string) string {
	matchedFirst := strings.SplitN(matched, "\n", 2)[0]
	indent := matchedFirst[:len(matchedFirst)-len(strings.TrimLeft(matchedFirst, " \t"))]
	if indent == "" {
		return newText
	}
	lines := strings.Split(newText, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		stripped := strings.TrimLeft(line, " \t")
		if i == 0 {
			lines[i] = indent + stripped
		} else {
			lines[i] = indent + line[:len(line)-len(stripped)] + stripped
		}
	}
	return strings.Join(lines, "\n")
}

func createUnifiedDiff(original, modified, filename string) string {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(modified),
		FromFile: "a/" + filename,
		ToFile:   "b/" + filename,
		Context:  0,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return ""
	}
	return text
}

package dir_tools

import (
	"context"
	"encoding/json"
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

// treeNode is one entry in the JSON directory tree. Directories always
// carry a children array, possibly empty, while files carry none.
type treeNode struct {
	Name     string      `json:"name"`
	Type     string      `json:"type"`
	Children []*treeNode `json:"children,omitempty"`
}

func (n *treeNode) MarshalJSON() ([]byte, error) {
	if n.Type == "directory" {
		children := n.Children
		if children == nil {
			children = []*treeNode{}
		}
		return json.Marshal(struct {
			Name     string      `json:"name"`
			Type     string      `json:"type"`
			Children []*treeNode `json:"children"`
		}{n.Name, n.Type, children})
	}
	return json.Marshal(struct {
		Name string `json:"name"`
		Type string `json:"type"`
	}{n.Name, n.Type})
}

func newDirNode(name string) *treeNode {
	return &treeNode{Name: name, Type: "directory", Children: []*treeNode{}}
}

func handleDirectoryTree(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	path, err := common.OptionalStringArg(args, "path", ".")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	full, err := sc.Workspace().Resolve(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	info, err := os.Stat(full)
	if os.IsNotExist(err) {
		return mcp.NewToolResultError(fmt.Sprintf("path does not exist: %s", path)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error building directory tree: %v", err)), nil
	}
	if !info.IsDir() {
		return mcp.NewToolResultError(fmt.Sprintf("path is not a directory: %s", path)), nil
	}

	tree, gitErr := buildGitTree(ctx, full)
	if gitErr != nil {
		tree, err = buildDirectoryTree(full)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("error building directory tree: %v", err)), nil
		}
	}

	encoded, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error building directory tree: %v", err)), nil
	}
	return mcp.NewToolResultText(string(encoded)), nil
}

// buildGitTree assembles the tree from git-tracked files only, so
// ignored artifacts and untracked clutter stay out of the view.
func buildGitTree(ctx context.Context, dir string) (*treeNode, error) {
	cmd := exec.CommandContext(ctx, "git", "ls-files")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return nil, err
	}

	rootName := filepath.Base(dir)
	if rootName == "" {
		rootName = dir
	}
	root := newDirNode(rootName)

	files := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	sort.Strings(files)

	dirNodes := map[string]*treeNode{"": root}
	for _, file := range files {
		if file == "" {
			continue
		}
		parts := strings.Split(file, "/")
		parentPath := ""
		parent := root
		for _, segment := range parts[:len(parts)-1] {
			childPath := segment
			if parentPath != "" {
				childPath = parentPath + "/" + segment
			}
			node, ok := dirNodes[childPath]
			if !ok {
				node = newDirNode(segment)
				parent.Children = append(parent.Children, node)
				dirNodes[childPath] = node
			}
			parent = node
			parentPath = childPath
		}
		parent.Children = append(parent.Children, &treeNode{Name: parts[len(parts)-1], Type: "file"})
	}

	sortTree(root)
	return root, nil
}

// sortTree orders each directory's children with subdirectories first,
// then files, each group alphabetically.
func sortTree(node *treeNode) {
	sort.SliceStable(node.Children, func(i, j int) bool {
		a, b := node.Children[i], node.Children[j]
		if a.Type != b.Type {
			return a.Type == "directory"
		}
		return a.Name < b.Name
	})
	for _, child := range node.Children {
		if child.Type == "directory" {
			sortTree(child)
		}
	}
}

// buildDirectoryTree walks the filesystem when git is unavailable.
func buildDirectoryTree(dir string) (*treeNode, error) {
	name := filepath.Base(dir)
	if name == "" {
		name = dir
	}
	node := newDirNode(name)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("error processing directory %s: %w", dir, err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].Name()) < strings.ToLower(entries[j].Name())
	})

	for _, entry := range entries {
		if entry.IsDir() {
			child, err := buildDirectoryTree(filepath.Join(dir, entry.Name()))
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, child)
		} else {
			node.Children = append(node.Children, &treeNode{Name: entry.Name(), Type: "file"})
		}
	}
	return node, nil
}

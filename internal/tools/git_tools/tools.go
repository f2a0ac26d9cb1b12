package git_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/thuanphamchezzi/skydeckai-code/internal/server"
	"github.com/thuanphamchezzi/skydeckai-code/internal/tools/common"
	"github.com/thuanphamchezzi/skydeckai-code/internal/tools/registry"
)

type gitHandler func(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error)

func addGitTool(s *mcpserver.MCPServer, reg *registry.Registry, sc *server.ServerContext, tool mcp.Tool, operation string, handler gitHandler) {
	reg.Add(s, tool, common.InstrumentedToolHandlerWithOperation(tool.Name, operation, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handler(ctx, request, sc)
		}))
}

// RegisterGitTools registers the git repository tools. Inspection tools
// (status, diffs, log, show) are always available; tools that modify
// the repository are skipped in read-only mode.
func RegisterGitTools(s *mcpserver.MCPServer, reg *registry.Registry, sc *server.ServerContext, readOnly bool) error {
	repoPathParam := mcp.WithString("repo_path",
		mcp.Required(),
		mcp.Description("Path to git repository"),
	)

	addGitTool(s, reg, sc, mcp.NewTool("git_status",
		mcp.WithDescription("Shows the working tree status of a git repository. "+
			"Returns information about staged, unstaged, and untracked files. "+
			"Repository must be within the allowed directory."),
		repoPathParam,
	), "read", handleGitStatus)

	addGitTool(s, reg, sc, mcp.NewTool("git_diff_unstaged",
		mcp.WithDescription("Shows changes in working directory not yet staged for commit. "+
			"Returns a unified diff format of all unstaged changes. "+
			"Repository must be within the allowed directory."),
		repoPathParam,
	), "read", handleGitDiffUnstaged)

	addGitTool(s, reg, sc, mcp.NewTool("git_diff_staged",
		mcp.WithDescription("Shows changes staged for commit. "+
			"Returns a unified diff format of all staged changes. "+
			"Repository must be within the allowed directory."),
		repoPathParam,
	), "read", handleGitDiffStaged)

	addGitTool(s, reg, sc, mcp.NewTool("git_diff",
		mcp.WithDescription("Shows differences between branches or commits. "+
			"Returns a unified diff format comparing current state with target. "+
			"Repository must be within the allowed directory."),
		repoPathParam,
		mcp.WithString("target",
			mcp.Required(),
			mcp.Description("Target branch or commit to compare with"),
		),
	), "read", handleGitDiff)

	addGitTool(s, reg, sc, mcp.NewTool("git_log",
		mcp.WithDescription("Shows the commit logs. "+
			"Returns information about recent commits including hash, author, date, and message. "+
			"Repository must be within the allowed directory."),
		repoPathParam,
		mcp.WithNumber("max_count",
			mcp.Description("Maximum number of commits to show. Default is 10."),
		),
	), "read", handleGitLog)

	addGitTool(s, reg, sc, mcp.NewTool("git_show",
		mcp.WithDescription("Shows the contents of a commit. "+
			"Returns detailed information about a specific commit including the changes it introduced. "+
			"Repository must be within the allowed directory."),
		repoPathParam,
		mcp.WithString("revision",
			mcp.Required(),
			mcp.Description("The revision (commit hash, branch name, tag) to show"),
		),
	), "read", handleGitShow)

	if readOnly {
		return nil
	}

	addGitTool(s, reg, sc, mcp.NewTool("git_init",
		mcp.WithDescription("Initialize a new Git repository. "+
			"Creates a new Git repository in the specified directory. "+
			"If the directory doesn't exist, it will be created. "+
			"Directory must be within the allowed directory."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path where to initialize the repository"),
		),
		mcp.WithString("initial_branch",
			mcp.Description("Name of the initial branch (defaults to 'main')"),
		),
	), "write", handleGitInit)

	addGitTool(s, reg, sc, mcp.NewTool("git_add",
		mcp.WithDescription("Adds file contents to the staging area. "+
			"Stages specified files for the next commit. "+
			"Repository must be within the allowed directory."),
		repoPathParam,
		mcp.WithArray("files",
			mcp.Required(),
			mcp.Description("List of file paths to stage"),
		),
	), "write", handleGitAdd)

	addGitTool(s, reg, sc, mcp.NewTool("git_commit",
		mcp.WithDescription("Records changes to the repository. "+
			"Commits all staged changes with the provided message. "+
			"Repository must be within the allowed directory."),
		repoPathParam,
		mcp.WithString("message",
			mcp.Required(),
			mcp.Description("Commit message"),
		),
	), "write", handleGitCommit)

	addGitTool(s, reg, sc, mcp.NewTool("git_reset",
		mcp.WithDescription("Unstages all staged changes. "+
			"Removes all files from the staging area. "+
			"Repository must be within the allowed directory."),
		repoPathParam,
	), "write", handleGitReset)

	addGitTool(s, reg, sc, mcp.NewTool("git_create_branch",
		mcp.WithDescription("Creates a new branch. "+
			"Creates a new branch from the specified base branch or current HEAD. "+
			"Repository must be within the allowed directory."),
		repoPathParam,
		mcp.WithString("branch_name",
			mcp.Required(),
			mcp.Description("Name of the new branch"),
		),
		mcp.WithString("base_branch",
			mcp.Description("Starting point for the new branch (optional)"),
		),
	), "write", handleGitCreateBranch)

	addGitTool(s, reg, sc, mcp.NewTool("git_checkout",
		mcp.WithDescription("Switches branches. "+
			"Checks out the specified branch. "+
			"Repository must be within the allowed directory."),
		repoPathParam,
		mcp.WithString("branch_name",
			mcp.Required(),
			mcp.Description("Name of branch to checkout"),
		),
	), "write", handleGitCheckout)

	return nil
}

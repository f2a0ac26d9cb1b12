package git_tools

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/thuanphamchezzi/skydeckai-code/internal/server"
	"github.com/thuanphamchezzi/skydeckai-code/internal/tools/common"
)

func handleGitInit(_ context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	path, err := common.StringArg(args, "path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	initialBranch, err := common.OptionalStringArg(args, "initial_branch", "main")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	full, err := sc.Workspace().Resolve(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := os.MkdirAll(full, 0o755); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error initializing repository at '%s': %v", full, err)), nil
	}

	_, err = gogit.PlainInitWithOptions(full, &gogit.PlainInitOptions{
		InitOptions: gogit.InitOptions{
			DefaultBranch: plumbing.NewBranchReferenceName(initialBranch),
		},
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error initializing repository at '%s': %v", full, err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Initialized empty Git repository in %s with initial branch '%s'", path, initialBranch)), nil
}

func handleGitStatus(_ context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	repoPath, err := common.StringArg(args, "repo_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	repo, full, err := openRepo(sc.Workspace(), repoPath)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	wt, err := repo.Worktree()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error getting repository status at '%s': %v", full, err)), nil
	}
	status, err := wt.Status()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error getting repository status at '%s': %v", full, err)), nil
	}

	text := status.String()
	if text == "" {
		text = "working tree clean"
	}
	return mcp.NewToolResultText("Repository status:\n" + text), nil
}

// gitDiffCommand shells out to git for patch output. Patch rendering of
// the worktree against the index is not something the object model
// exposes directly.
func gitDiffCommand(ctx context.Context, dir string, extraArgs ...string) (string, error) {
	cmdArgs := append([]string{"diff"}, extraArgs...)
	cmd := exec.CommandContext(ctx, "git", cmdArgs...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func handleGitDiffUnstaged(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	repoPath, err := common.StringArg(args, "repo_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	_, full, err := openRepo(sc.Workspace(), repoPath)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	diff, err := gitDiffCommand(ctx, full)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error getting unstaged changes: %v", err)), nil
	}
	if diff == "" {
		return mcp.NewToolResultText("No unstaged changes found."), nil
	}
	return mcp.NewToolResultText("Unstaged changes:\n" + diff), nil
}

func handleGitDiffStaged(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	repoPath, err := common.StringArg(args, "repo_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	_, full, err := openRepo(sc.Workspace(), repoPath)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	diff, err := gitDiffCommand(ctx, full, "--cached")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error getting staged changes at '%s': %v", full, err)), nil
	}
	if diff == "" {
		return mcp.NewToolResultText("No staged changes found."), nil
	}
	return mcp.NewToolResultText("Staged changes:\n" + diff), nil
}

func handleGitDiff(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	repoPath, err := common.StringArg(args, "repo_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	target, err := common.StringArg(args, "target")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	repo, full, err := openRepo(sc.Workspace(), repoPath)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !hasCommits(repo) {
		return mcp.NewToolResultError(fmt.Sprintf("cannot diff against '%s' in repository at '%s': no commits exist yet", target, full)), nil
	}

	diff, err := gitDiffCommand(ctx, full, target)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error getting diff at '%s': %v", full, err)), nil
	}
	if diff == "" {
		return mcp.NewToolResultText(fmt.Sprintf("No differences found with %s.", target)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Diff with %s:\n%s", target, diff)), nil
}

func handleGitAdd(_ context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	repoPath, err := common.StringArg(args, "repo_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	files, err := common.StringSliceArg(args, "files")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	repo, full, err := openRepo(sc.Workspace(), repoPath)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	wt, err := repo.Worktree()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error staging files at '%s': %v", full, err)), nil
	}
	for _, file := range files {
		if _, err := wt.Add(file); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("error staging files at '%s': %v", full, err)), nil
		}
	}

	return mcp.NewToolResultText("Successfully staged the following files:\n" + strings.Join(files, ", ")), nil
}

func handleGitCommit(_ context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	repoPath, err := common.StringArg(args, "repo_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	message, err := common.StringArg(args, "message")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	repo, full, err := openRepo(sc.Workspace(), repoPath)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	wt, err := repo.Worktree()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error committing changes at '%s': %v", full, err)), nil
	}
	status, err := wt.Status()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error committing changes at '%s': %v", full, err)), nil
	}

	staged := false
	for _, fileStatus := range status {
		if fileStatus.Staging != gogit.Unmodified && fileStatus.Staging != gogit.Untracked {
			staged = true
			break
		}
	}
	if !staged {
		if hasCommits(repo) {
			return mcp.NewToolResultText("No changes staged for commit."), nil
		}
		return mcp.NewToolResultText("No files staged for initial commit."), nil
	}

	hash, err := wt.Commit(message, &gogit.CommitOptions{Author: commitSignature()})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error committing changes at '%s': %v", full, err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Changes committed successfully with hash %s", hash.String())), nil
}

func handleGitReset(_ context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	repoPath, err := common.StringArg(args, "repo_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	repo, full, err := openRepo(sc.Workspace(), repoPath)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if !hasCommits(repo) {
		// No HEAD to reset to, clear the index instead
		idx, err := repo.Storer.Index()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("error unstaging changes at '%s': %v", full, err)), nil
		}
		idx.Entries = nil
		if err := repo.Storer.SetIndex(idx); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("error unstaging changes at '%s': %v", full, err)), nil
		}
		return mcp.NewToolResultText("Successfully unstaged all changes (new repository)"), nil
	}

	wt, err := repo.Worktree()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error unstaging changes at '%s': %v", full, err)), nil
	}
	head, err := repo.Head()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error unstaging changes at '%s': %v", full, err)), nil
	}
	if err := wt.Reset(&gogit.ResetOptions{Mode: gogit.MixedReset, Commit: head.Hash()}); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error unstaging changes at '%s': %v", full, err)), nil
	}
	return mcp.NewToolResultText("Successfully unstaged all changes"), nil
}

func handleGitLog(_ context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	repoPath, err := common.StringArg(args, "repo_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	maxCount, err := common.OptionalIntArg(args, "max_count", 10)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	repo, full, err := openRepo(sc.Workspace(), repoPath)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !hasCommits(repo) {
		return mcp.NewToolResultText("No commits yet - this is a new repository."), nil
	}

	iter, err := repo.Log(&gogit.LogOptions{})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error getting commit logs at '%s': %v", full, err)), nil
	}
	defer iter.Close()

	var entries []string
	for len(entries) < maxCount {
		commit, iterErr := iter.Next()
		if iterErr != nil {
			break
		}
		entries = append(entries, formatCommit(commit))
	}
	if len(entries) == 0 {
		return mcp.NewToolResultText("No commits found in repository."), nil
	}
	return mcp.NewToolResultText("Commit history:\n" + strings.Join(entries, "\n")), nil
}

func handleGitCreateBranch(_ context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	repoPath, err := common.StringArg(args, "repo_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	branchName, err := common.StringArg(args, "branch_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	baseBranch, err := common.OptionalStringArg(args, "base_branch", "")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	repo, full, err := openRepo(sc.Workspace(), repoPath)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !hasCommits(repo) {
		return mcp.NewToolResultText(fmt.Sprintf("Cannot create branch '%s' - no commits exist yet. Make an initial commit first.", branchName)), nil
	}

	var baseHash plumbing.Hash
	baseName := baseBranch
	if baseBranch != "" {
		ref, refErr := repo.Reference(plumbing.NewBranchReferenceName(baseBranch), true)
		if refErr != nil {
			return mcp.NewToolResultError(fmt.Sprintf("error creating branch at '%s': %v", full, refErr)), nil
		}
		baseHash = ref.Hash()
	} else {
		head, headErr := repo.Head()
		if headErr != nil {
			return mcp.NewToolResultError(fmt.Sprintf("error creating branch at '%s': %v", full, headErr)), nil
		}
		baseHash = head.Hash()
		baseName = head.Name().Short()
	}

	ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(branchName), baseHash)
	if err := repo.Storer.SetReference(ref); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error creating branch at '%s': %v", full, err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Created branch '%s' from '%s'", branchName, baseName)), nil
}

func handleGitCheckout(_ context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	repoPath, err := common.StringArg(args, "repo_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	branchName, err := common.StringArg(args, "branch_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	repo, full, err := openRepo(sc.Workspace(), repoPath)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !hasCommits(repo) {
		return mcp.NewToolResultText(fmt.Sprintf("Cannot checkout branch '%s' - no commits exist yet. Make an initial commit first.", branchName)), nil
	}

	wt, err := repo.Worktree()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error switching branches at '%s': %v", full, err)), nil
	}
	if err := wt.Checkout(&gogit.CheckoutOptions{Branch: plumbing.NewBranchReferenceName(branchName)}); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error switching branches at '%s': %v", full, err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Successfully switched to branch '%s'", branchName)), nil
}

func handleGitShow(_ context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	repoPath, err := common.StringArg(args, "repo_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	revision, err := common.StringArg(args, "revision")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	repo, full, err := openRepo(sc.Workspace(), repoPath)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !hasCommits(repo) {
		return mcp.NewToolResultText(fmt.Sprintf("Cannot show revision '%s' - no commits exist yet.", revision)), nil
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(revision))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error showing commit at '%s': %v", full, err)), nil
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error showing commit at '%s': %v", full, err)), nil
	}

	var sb strings.Builder
	sb.WriteString(formatCommit(commit))

	commitTree, err := commit.Tree()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error showing commit at '%s': %v", full, err)), nil
	}
	var parentTree *object.Tree
	if commit.NumParents() > 0 {
		parent, parentErr := commit.Parent(0)
		if parentErr != nil {
			return mcp.NewToolResultError(fmt.Sprintf("error showing commit at '%s': %v", full, parentErr)), nil
		}
		parentTree, err = parent.Tree()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("error showing commit at '%s': %v", full, err)), nil
		}
	}

	changes, err := object.DiffTree(parentTree, commitTree)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error showing commit at '%s': %v", full, err)), nil
	}
	patch, err := changes.Patch()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error showing commit at '%s': %v", full, err)), nil
	}
	sb.WriteString("\n")
	sb.WriteString(patch.String())

	return mcp.NewToolResultText(sb.String()), nil
}

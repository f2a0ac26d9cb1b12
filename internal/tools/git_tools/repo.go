package git_tools

import (
	"fmt"
	"os"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/thuanphamchezzi/skydeckai-code/internal/workspace"
)

// openRepo resolves repoPath against the workspace and opens the
// repository there.
func openRepo(ws *workspace.Workspace, repoPath string) (*gogit.Repository, string, error) {
	full, err := ws.Resolve(repoPath)
	if err != nil {
		return nil, "", err
	}
	repo, err := gogit.PlainOpen(full)
	if err == gogit.ErrRepositoryNotExists {
		return nil, "", fmt.Errorf("not a valid git repository: %s", full)
	}
	if err != nil {
		return nil, "", fmt.Errorf("error accessing git repository at '%s': %w", full, err)
	}
	return repo, full, nil
}

// hasCommits reports whether HEAD resolves to a commit.
func hasCommits(repo *gogit.Repository) bool {
	_, err := repo.Head()
	return err == nil
}

// commitSignature builds the author used when the repository has no
// user configured. Environment overrides mirror git's own variables.
func commitSignature() *object.Signature {
	name := os.Getenv("GIT_AUTHOR_NAME")
	if name == "" {
		name = "skydeckai-code"
	}
	email := os.Getenv("GIT_AUTHOR_EMAIL")
	if email == "" {
		email = "skydeckai-code@localhost"
	}
	return &object.Signature{Name: name, Email: email, When: time.Now()}
}

func formatCommit(commit *object.Commit) string {
	return fmt.Sprintf("Commit: %s\nAuthor: %s <%s>\nDate: %s\nMessage: %s\n",
		commit.Hash.String(),
		commit.Author.Name,
		commit.Author.Email,
		commit.Author.When.Format("2006-01-02 15:04:05 -0700"),
		commit.Message,
	)
}

// Package git_tools implements git repository tools backed by go-git:
// init, status, staging, commits, branches, logs, and commit display.
// Patch output for the diff tools shells out to the git CLI.
package git_tools

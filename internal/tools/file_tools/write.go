package file_tools

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/thuanphamchezzi/skydeckai-code/internal/server"
	"github.com/thuanphamchezzi/skydeckai-code/internal/tools/common"
)

func handleWriteFile(_ context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	path, err := common.StringArg(args, "path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := common.StringArg(args, "content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	full, err := sc.Workspace().Resolve(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error writing file: %v", err)), nil
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error writing file: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Successfully wrote to %s", path)), nil
}

func handleMoveFile(_ context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	source, err := common.StringArg(args, "source")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	destination, err := common.StringArg(args, "destination")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	fullSource, err := sc.Workspace().Resolve(source)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	fullDestination, err := sc.Workspace().Resolve(destination)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if _, err := os.Stat(fullSource); os.IsNotExist(err) {
		return mcp.NewToolResultError(fmt.Sprintf("source path does not exist: %s", source)), nil
	}
	if _, err := os.Stat(fullDestination); err == nil {
		return mcp.NewToolResultError(fmt.Sprintf("destination already exists: %s", destination)), nil
	}

	if err := os.MkdirAll(filepath.Dir(fullDestination), 0o755); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error moving file: %v", err)), nil
	}
	if err := os.Rename(fullSource, fullDestination); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error moving file: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Successfully moved %s to %s", source, destination)), nil
}

func handleCopyFile(_ context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	source, err := common.StringArg(args, "source")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	destination, err := common.StringArg(args, "destination")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	recursive, err := common.OptionalBoolArg(args, "recursive", true)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	fullSource, err := sc.Workspace().Resolve(source)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	fullDestination, err := sc.Workspace().Resolve(destination)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	info, err := os.Stat(fullSource)
	if os.IsNotExist(err) {
		return mcp.NewToolResultError(fmt.Sprintf("source path does not exist: %s", source)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error copying: %v", err)), nil
	}
	if _, err := os.Stat(fullDestination); err == nil {
		return mcp.NewToolResultError(fmt.Sprintf("destination already exists: %s", destination)), nil
	}

	if err := os.MkdirAll(filepath.Dir(fullDestination), 0o755); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error copying: %v", err)), nil
	}

	if info.IsDir() {
		if !recursive {
			return mcp.NewToolResultError(fmt.Sprintf("source is a directory, set recursive to true to copy it: %s", source)), nil
		}
		if err := copyDir(fullSource, fullDestination); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("error copying directory: %v", err)), nil
		}
	} else {
		if err := copyFile(fullSource, fullDestination, info.Mode()); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("error copying file: %v", err)), nil
		}
	}

	return mcp.NewToolResultText(fmt.Sprintf("Successfully copied %s to %s", source, destination)), nil
}

func copyFile(source, destination string, mode os.FileMode) error {
	in, err := os.Open(source)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(destination, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode.Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func copyDir(source, destination string) error {
	return filepath.Walk(source, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(source, path)
		if err != nil {
			return err
		}
		target := filepath.Join(destination, rel)

		if info.IsDir() {
			return os.MkdirAll(target, info.Mode().Perm())
		}
		return copyFile(path, target, info.Mode())
	})
}

func handleDeleteFile(_ context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	path, err := common.StringArg(args, "path")
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
		return mcp.NewToolResultError(fmt.Sprintf("error deleting %s: %v", path, err)), nil
	}

	if info.IsDir() {
		entries, err := os.ReadDir(full)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("error deleting %s: %v", path, err)), nil
		}
		if len(entries) > 0 {
			return mcp.NewToolResultError(fmt.Sprintf("cannot delete non-empty directory: %s", path)), nil
		}
		if err := os.Remove(full); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("error deleting %s: %v", path, err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Successfully deleted empty directory: %s", path)), nil
	}

	if err := os.Remove(full); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error deleting %s: %v", path, err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Successfully deleted file: %s", path)), nil
}

package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the skydeckai-code application
var rootCmd = &cobra.Command{
	Use:   "skydeckai-code",
	Short: "MCP server with software development tools for AI assistants",
	Long: `skydeckai-code is an MCP (Model Context Protocol) server that gives AI
assistants a workspace-sandboxed toolbox: file and directory operations,
code search and analysis, git, shell and code execution, web fetch and
search, screenshots, and system information.

All filesystem tools operate inside a single allowed directory, and write
operations are disabled unless explicitly enabled.`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "skydeckai-code version %s\n" .Version}}`)

	// A .env next to the binary supplements the environment; its absence
	// is not an error
	_ = godotenv.Load()

	// If no subcommand is provided, run the serve command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
}

package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/thuanphamchezzi/skydeckai-code/internal/instrumentation"
	"github.com/thuanphamchezzi/skydeckai-code/internal/logging"
	"github.com/thuanphamchezzi/skydeckai-code/internal/server"
	"github.com/thuanphamchezzi/skydeckai-code/internal/tools/code_tools"
	"github.com/thuanphamchezzi/skydeckai-code/internal/tools/dir_tools"
	"github.com/thuanphamchezzi/skydeckai-code/internal/tools/exec_tools"
	"github.com/thuanphamchezzi/skydeckai-code/internal/tools/file_tools"
	"github.com/thuanphamchezzi/skydeckai-code/internal/tools/git_tools"
	"github.com/thuanphamchezzi/skydeckai-code/internal/tools/meta_tools"
	"github.com/thuanphamchezzi/skydeckai-code/internal/tools/path_tools"
	"github.com/thuanphamchezzi/skydeckai-code/internal/tools/registry"
	"github.com/thuanphamchezzi/skydeckai-code/internal/tools/screen_tools"
	"github.com/thuanphamchezzi/skydeckai-code/internal/tools/system_tools"
	"github.com/thuanphamchezzi/skydeckai-code/internal/tools/web_tools"
	"github.com/thuanphamchezzi/skydeckai-code/internal/workspace"
)

// MetricsConfig holds configuration for the metrics server
type MetricsConfig struct {
	// Enabled determines whether to start the metrics server (default: true)
	Enabled bool

	// Addr is the address for the metrics server (e.g., ":9090")
	Addr string
}

func newServeCmd() *cobra.Command {
	var (
		debugMode      bool
		transport      string
		httpAddr       string
		yolo           bool
		directory      string
		metricsEnabled bool
		metricsAddr    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server to provide software
development tools for AI assistants.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP transport

Safety Mode:
  By default, the server operates in read-only mode, providing only safe
  operations. Use --yolo to enable write operations (file writes, shell
  and code execution, git mutations, etc.)

Workspace:
  All filesystem tools operate inside a single allowed directory. The
  directory comes from --directory, falling back to the last directory
  persisted by update_allowed_directory, then to a default.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			metricsConfig := MetricsConfig{
				Enabled: metricsEnabled,
				Addr:    metricsAddr,
			}
			loadMetricsEnvVars(cmd, &metricsConfig)
			return runServe(transport, debugMode, httpAddr, yolo, directory, metricsConfig)
		},
	}

	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&transport, "transport", "stdio", "Transport type: stdio or streamable-http")
	cmd.Flags().StringVar(&httpAddr, "http-addr", ":8080", "HTTP server address (for streamable-http transport)")
	cmd.Flags().BoolVar(&yolo, "yolo", false, "Enable write operations (file writes, command execution, git mutations, etc.). Default is read-only mode.")
	cmd.Flags().StringVar(&directory, "directory", "", "Allowed root directory for all filesystem tools. Can also use AIDD_ALLOWED_DIRECTORY env var. Defaults to the persisted workspace configuration.")
	cmd.Flags().BoolVar(&metricsEnabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port (non-stdio transports only). Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", ":9090", "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

// loadMetricsEnvVars loads metrics configuration from environment variables.
// Environment variables only override flag values when the flag was not
// explicitly set.
func loadMetricsEnvVars(cmd *cobra.Command, config *MetricsConfig) {
	if !cmd.Flags().Changed("metrics-enabled") {
		if raw := os.Getenv("METRICS_ENABLED"); raw != "" {
			if enabled, err := strconv.ParseBool(raw); err == nil {
				config.Enabled = enabled
			}
		}
	}
	if !cmd.Flags().Changed("metrics-addr") {
		if addr := os.Getenv("METRICS_ADDR"); addr != "" {
			config.Addr = addr
		}
	}
}

func runServe(transport string, debugMode bool, httpAddr string, yolo bool, directory string, metricsConfig MetricsConfig) error {
	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// stdio transport owns stdout for the protocol; all logging goes to
	// stderr either way
	logger := logging.Setup(debugMode)

	// Initialize instrumentation provider
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error during instrumentation shutdown: %v", err)
		}
	}()

	// Start metrics server if enabled and not in stdio mode
	var metricsServer *server.MetricsServer
	if transport != "stdio" && metricsConfig.Enabled && provider.Enabled() {
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    metricsConfig.Addr,
			Enabled:                 true,
			InstrumentationProvider: provider,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}
		go func() {
			if err := metricsServer.Start(); err != nil && err != http.ErrServerClosed {
				log.Printf("Metrics server stopped with error: %v", err)
			}
		}()
		log.Printf("Metrics server started on %s", metricsServer.Addr())
	}

	// Build the workspace: flag wins, then env var, then the persisted
	// configuration, then the built-in default
	ws, err := buildWorkspace(directory)
	if err != nil {
		return err
	}

	serverContext, err := server.NewServerContext(shutdownCtx, ws)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	serverContext.SetVersion(version)
	if provider.Enabled() {
		serverContext.SetInstrumentation(provider, instrumentation.NewAuditLoggerWithConfig(logger, instrConfig.AuditLogging))
	}
	defer func() {
		if metricsServer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				log.Printf("Error during metrics server shutdown: %v", err)
			}
		}
		if err := serverContext.Shutdown(); err != nil {
			log.Printf("Error during server context shutdown: %v", err)
		}
	}()

	// Create MCP server
	mcpSrv := mcpserver.NewMCPServer("skydeckai-code", version,
		mcpserver.WithToolCapabilities(true),
	)

	// readOnly is the inverse of yolo
	readOnly := !yolo
	if readOnly {
		logger.Info("starting server in read-only mode (use --yolo to enable write operations)",
			logging.Root(ws.Root()))
	} else {
		logger.Info("starting server with write operations enabled (--yolo flag is set)",
			logging.Root(ws.Root()))
	}

	// Register all tools
	if _, err := registerAllTools(mcpSrv, serverContext, readOnly); err != nil {
		return err
	}

	// Start the appropriate server based on transport type
	switch transport {
	case "stdio":
		return runStdioServer(mcpSrv)
	case "streamable-http":
		return runStreamableHTTPServer(shutdownCtx, mcpSrv, serverContext, httpAddr, metricsConfig)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http)", transport)
	}
}

// buildWorkspace resolves the allowed root from the explicit flag, the
// AIDD_ALLOWED_DIRECTORY env var, or the persisted configuration.
func buildWorkspace(directory string) (*workspace.Workspace, error) {
	if directory == "" {
		directory = os.Getenv("AIDD_ALLOWED_DIRECTORY")
	}

	config, err := workspace.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load workspace configuration: %w", err)
	}

	ws := workspace.New(config)
	if directory != "" {
		if _, err := ws.SetRoot(directory); err != nil {
			return nil, fmt.Errorf("invalid allowed directory %q: %w", directory, err)
		}
	}
	return ws, nil
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	err := <-serverDone
	if err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

func runStreamableHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, serverContext *server.ServerContext, addr string, metricsConfig MetricsConfig) error {
	streamable := mcpserver.NewStreamableHTTPServer(mcpSrv)

	healthChecker := server.NewHealthChecker(serverContext)
	healthChecker.SetReady(true)

	mux := http.NewServeMux()
	mux.Handle("/mcp", server.InstrumentationMiddleware(serverContext.Metrics(), streamable))
	healthChecker.RegisterHealthEndpoints(mux)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	fmt.Printf("Streamable HTTP server starting on %s\n", addr)
	fmt.Printf("  HTTP endpoint: /mcp\n")
	fmt.Printf("  Health endpoints: /healthz, /readyz\n")
	if metricsConfig.Enabled {
		fmt.Printf("  Metrics endpoint: %s/metrics\n", metricsConfig.Addr)
	}

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		fmt.Println("Shutdown signal received, stopping HTTP server...")
		healthChecker.SetReady(false)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
		fmt.Println("HTTP server stopped normally")
	}

	fmt.Println("HTTP server gracefully stopped")
	return nil
}

// registerAllTools registers every tool family on the MCP server and
// returns the shared registry the batch dispatcher runs against.
func registerAllTools(mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) (*registry.Registry, error) {
	reg := registry.New()

	type toolRegistration struct {
		name     string
		register func() error
	}

	registrations := []toolRegistration{
		{
			name: "Path",
			register: func() error {
				return path_tools.RegisterPathTools(mcpSrv, reg, sc, readOnly)
			},
		},
		{
			name: "File",
			register: func() error {
				return file_tools.RegisterFileTools(mcpSrv, reg, sc, readOnly)
			},
		},
		{
			name: "Directory",
			register: func() error {
				return dir_tools.RegisterDirTools(mcpSrv, reg, sc, readOnly)
			},
		},
		{
			name: "Code",
			register: func() error {
				return code_tools.RegisterCodeTools(mcpSrv, reg, sc, readOnly)
			},
		},
		{
			name: "Execution",
			register: func() error {
				return exec_tools.RegisterExecTools(mcpSrv, reg, sc, readOnly)
			},
		},
		{
			name: "Git",
			register: func() error {
				return git_tools.RegisterGitTools(mcpSrv, reg, sc, readOnly)
			},
		},
		{
			name: "Web",
			register: func() error {
				return web_tools.RegisterWebTools(mcpSrv, reg, sc, readOnly)
			},
		},
		{
			name: "System",
			register: func() error {
				return system_tools.RegisterSystemTools(mcpSrv, reg, sc, readOnly)
			},
		},
		{
			name: "Screen",
			register: func() error {
				return screen_tools.RegisterScreenTools(mcpSrv, reg, sc, readOnly)
			},
		},
		// Meta tools go last so the batch dispatcher sees every other tool
		{
			name: "Meta",
			register: func() error {
				return meta_tools.RegisterMetaTools(mcpSrv, reg, sc, readOnly)
			},
		},
	}

	for _, r := range registrations {
		if err := r.register(); err != nil {
			return nil, fmt.Errorf("failed to register %s tools: %w", r.name, err)
		}
	}

	return reg, nil
}

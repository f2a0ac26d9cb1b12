package system_tools

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/shirou/gopsutil/v4/process"

	"github.com/thuanphamchezzi/skydeckai-code/internal/server"
	"github.com/thuanphamchezzi/skydeckai-code/internal/tools/common"
)

type activeApp struct {
	Name          string  `json:"name"`
	InstanceCount int     `json:"instance_count"`
	PID           int32   `json:"pid,omitempty"`
	Username      string  `json:"username,omitempty"`
	Started       string  `json:"started,omitempty"`
	CPUPercent    string  `json:"cpu_percent,omitempty"`
	MemoryPercent float32 `json:"memory_percent,omitempty"`
}

type activeAppsReport struct {
	Success  bool        `json:"success"`
	Platform string      `json:"platform"`
	AppCount int         `json:"app_count,omitempty"`
	Error    string      `json:"error,omitempty"`
	Apps     []activeApp `json:"apps"`
}

// systemProcessNames are housekeeping processes that never represent an
// application the user is working with.
var systemProcessNames = map[string]bool{
	"systemd": true, "init": true, "kthreadd": true, "login": true,
	"dbus-daemon": true, "sshd": true, "cron": true, "ps": true,
}

func collectActiveApps(ctx context.Context, withDetails bool) ([]activeApp, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing processes: %w", err)
	}

	byName := map[string]*activeApp{}
	for _, proc := range procs {
		name, err := proc.NameWithContext(ctx)
		if err != nil || name == "" {
			continue
		}
		// Kernel threads have no command line
		cmdline, err := proc.CmdlineWithContext(ctx)
		if err != nil || cmdline == "" {
			continue
		}
		if systemProcessNames[name] {
			continue
		}

		app, seen := byName[name]
		if !seen {
			app = &activeApp{Name: name}
			byName[name] = app
		}
		app.InstanceCount++
		if seen || !withDetails {
			continue
		}

		app.PID = proc.Pid
		if username, err := proc.UsernameWithContext(ctx); err == nil {
			app.Username = username
		}
		if created, err := proc.CreateTimeWithContext(ctx); err == nil {
			app.Started = time.UnixMilli(created).Format("2006-01-02 15:04:05")
		}
		if cpuPct, err := proc.CPUPercentWithContext(ctx); err == nil {
			app.CPUPercent = fmt.Sprintf("%.1f%%", cpuPct)
		}
		if memPct, err := proc.MemoryPercentWithContext(ctx); err == nil {
			app.MemoryPercent = memPct
		}
	}

	apps := make([]activeApp, 0, len(byName))
	for _, app := range byName {
		apps = append(apps, *app)
	}
	sort.Slice(apps, func(i, j int) bool {
		return strings.ToLower(apps[i].Name) < strings.ToLower(apps[j].Name)
	})
	return apps, nil
}

func handleGetActiveApps(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	withDetails, err := common.OptionalBoolArg(args, "with_details", false)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	report := activeAppsReport{Platform: runtime.GOOS, Apps: []activeApp{}}

	apps, err := collectActiveApps(ctx, withDetails)
	if err != nil {
		report.Error = fmt.Sprintf("error listing active applications: %v", err)
	} else if len(apps) == 0 {
		report.Error = "No active applications could be detected. This might be due to insufficient permissions to inspect processes."
	} else {
		report.Success = true
		report.AppCount = len(apps)
		report.Apps = apps
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error listing active applications: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

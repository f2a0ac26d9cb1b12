package system_tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/thuanphamchezzi/skydeckai-code/internal/server"
)

type osInfo struct {
	OS           string `json:"os"`
	OSVersion    string `json:"os_version"`
	Architecture string `json:"architecture"`
	GoVersion    string `json:"go_version"`
}

type cpuInfo struct {
	PhysicalCores int    `json:"physical_cores"`
	LogicalCores  int    `json:"logical_cores"`
	TotalCPUUsage string `json:"total_cpu_usage"`
}

type memoryInfo struct {
	Total          string `json:"total"`
	Available      string `json:"available"`
	UsedPercentage string `json:"used_percentage"`
}

type diskInfo struct {
	Total          string `json:"total"`
	Free           string `json:"free"`
	UsedPercentage string `json:"used_percentage"`
}

type systemInfo struct {
	WorkingDirectory string     `json:"working_directory"`
	System           osInfo     `json:"system"`
	WifiNetwork      string     `json:"wifi_network"`
	CPU              cpuInfo    `json:"cpu"`
	Memory           memoryInfo `json:"memory"`
	Disk             diskInfo   `json:"disk"`
}

// humanBytes scales a byte count into a short human readable string,
// e.g. 1253656678 becomes "1.17GB".
func humanBytes(n uint64) string {
	value := float64(n)
	for _, unit := range []string{"", "K", "M", "G", "T"} {
		if value < 1024 {
			return fmt.Sprintf("%.2f%sB", value, unit)
		}
		value /= 1024
	}
	return fmt.Sprintf("%.2fPB", value)
}

// wifiNetworkName queries the platform's network manager for the SSID
// of the current WiFi connection. Returns "Not available" when the
// host has no WiFi or the lookup fails.
func wifiNetworkName(ctx context.Context) string {
	switch runtime.GOOS {
	case "linux":
		out, err := exec.CommandContext(ctx, "nmcli", "-t", "-f", "active,ssid", "dev", "wifi").Output()
		if err != nil {
			return "Not available"
		}
		for _, line := range strings.Split(string(out), "\n") {
			if strings.HasPrefix(line, "yes:") {
				return strings.TrimPrefix(line, "yes:")
			}
		}
	case "darwin":
		out, err := exec.CommandContext(ctx, "networksetup", "-getairportnetwork", "en0").Output()
		if err != nil {
			return "Not available"
		}
		if _, ssid, found := strings.Cut(string(out), ": "); found {
			return strings.TrimSpace(ssid)
		}
	case "windows":
		out, err := exec.CommandContext(ctx, "netsh", "wlan", "show", "interfaces").Output()
		if err != nil {
			return "Not available"
		}
		for _, line := range strings.Split(string(out), "\n") {
			if strings.Contains(line, "SSID") && !strings.Contains(line, "BSSID") {
				if _, ssid, found := strings.Cut(line, ":"); found {
					return strings.TrimSpace(ssid)
				}
			}
		}
	}
	return "Not available"
}

func collectSystemInfo(ctx context.Context, workingDir string) (*systemInfo, error) {
	info := &systemInfo{
		WorkingDirectory: workingDir,
		System: osInfo{
			OS:           runtime.GOOS,
			Architecture: runtime.GOARCH,
			GoVersion:    runtime.Version(),
		},
		WifiNetwork: wifiNetworkName(ctx),
	}

	if hostInfo, err := host.InfoWithContext(ctx); err == nil {
		info.System.OSVersion = hostInfo.PlatformVersion
		if info.System.OSVersion == "" {
			info.System.OSVersion = hostInfo.KernelVersion
		}
	}

	physical, err := cpu.CountsWithContext(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("reading CPU counts: %w", err)
	}
	logical, err := cpu.CountsWithContext(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("reading CPU counts: %w", err)
	}
	info.CPU = cpuInfo{
		PhysicalCores: physical,
		LogicalCores:  logical,
		TotalCPUUsage: "0.0%",
	}
	if percents, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(percents) > 0 {
		info.CPU.TotalCPUUsage = fmt.Sprintf("%.1f%%", percents[0])
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading memory statistics: %w", err)
	}
	info.Memory = memoryInfo{
		Total:          humanBytes(vm.Total),
		Available:      humanBytes(vm.Available),
		UsedPercentage: fmt.Sprintf("%.1f%%", vm.UsedPercent),
	}

	usage, err := disk.UsageWithContext(ctx, "/")
	if err != nil {
		return nil, fmt.Errorf("reading disk usage: %w", err)
	}
	info.Disk = diskInfo{
		Total:          humanBytes(usage.Total),
		Free:           humanBytes(usage.Free),
		UsedPercentage: fmt.Sprintf("%.1f%%", usage.UsedPercent),
	}

	return info, nil
}

func handleGetSystemInfo(ctx context.Context, _ mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	info, err := collectSystemInfo(ctx, sc.Workspace().Root())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error collecting system information: %v", err)), nil
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error collecting system information: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

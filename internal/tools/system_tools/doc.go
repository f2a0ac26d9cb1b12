// Package system_tools implements host inspection tools backed by
// gopsutil: overall system information and the active process listing.
package system_tools

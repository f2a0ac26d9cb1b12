// Package exec_tools implements the code and shell execution tools.
// Snippets are written to uniquely named temp files inside the allowed
// directory, run with a bounded timeout, and cleaned up afterwards.
package exec_tools

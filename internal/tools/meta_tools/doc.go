// Package meta_tools implements tools about tools: the batch dispatch
// front door and the side-effect-free think tool.
package meta_tools

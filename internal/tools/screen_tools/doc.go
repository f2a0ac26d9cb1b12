// Package screen_tools implements display capture. Screenshots are
// grabbed with the cross-platform screenshot library and written as
// PNG files inside the allowed directory.
package screen_tools

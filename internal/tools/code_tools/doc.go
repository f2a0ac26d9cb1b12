// Package code_tools implements source code intelligence tools: regex
// content search with a ripgrep fast path, and a structural codebase
// mapper that extracts classes, functions, and methods per language.
package code_tools

// Package batch dispatches groups of tool invocations against the tool
// registry.
//
// A batch is validated as a whole before anything runs: every named tool
// must be registered, otherwise the batch is rejected and no invocation
// executes. Parallel batches run every invocation concurrently and wait
// for all of them; sequential batches run in order and halt on the first
// failure, reporting how many invocations were skipped. Each invocation
// is isolated, so a failing or panicking tool never affects its
// siblings. Results are always reported in submission order as a plain
// text report.
package batch

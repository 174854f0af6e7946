// Package logging assembles structured slog loggers and formatting helpers used
// across the cratekit tools.
//
// It owns the console and JSON handlers, routes console output to stderr and a
// JSON copy into the log directory, and exposes context-aware helpers so tool
// code automatically tags log lines with the run ID and tool name. The package
// also provides a no-op logger for tests and retention pruning for old logs.
package logging

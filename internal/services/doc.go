// Package services defines shared utilities consumed by the cratekit tools and
// their external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers and tool names for logging.
//   - Structured error markers plus the Wrap helper so callers can classify a
//     failure (bad input, configuration, external tool) without string matching.
//
// Use these helpers when wiring a new tool so error handling and log
// correlation stay uniform across the CLI.
package services

// Package preflight provides readiness checks for the directories, external
// binaries and LLM endpoint that cratekit depends on.
//
// The "cratekit doctor" command renders every check as a table. The
// transcribe command uses CheckSystemDeps to fail fast when ffmpeg or uvx is
// missing.
package preflight

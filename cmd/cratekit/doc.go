// Package main hosts the cratekit CLI entrypoint and command graph.
//
// The Cobra command tree exposes each library tool (inspect, duplicates,
// rename, transcribe) plus doctor and configuration scaffolding. Running
// cratekit without arguments on a terminal opens the interactive menu, which
// drives the same runners as the subcommands.
//
// Keep this package lean: tool behaviour lives in the internal packages and
// the commands here only resolve configuration, build loggers and render
// reports.
package main

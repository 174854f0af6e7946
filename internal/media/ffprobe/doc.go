// Package ffprobe provides a typed wrapper around ffprobe JSON output for
// audio files.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: individual audio stream properties and per-stream tags
//   - Format: container-level metadata including the tag dictionary
//
// Primary entry points:
//   - Inspect: executes ffprobe and returns parsed Result
//   - Parse: decodes an ffprobe JSON payload
//
// Tag lookups are case-insensitive because containers disagree on key case
// (ID3 reports "title", Vorbis comments often "TITLE").
package ffprobe

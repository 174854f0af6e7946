// Package dedupe finds byte-identical audio files under a directory and moves
// every copy but one into a timestamped quarantine batch.
//
// Resolve hashes each track, groups tracks by digest in discovery order, picks
// a keeper per group with a filename-quality heuristic (no copy marker, then
// shortest name, then lexical order), and renames the rest into
// <trash_root>/<run timestamp>/. Nothing is ever deleted. Per-file problems are
// recorded on the Report as ScanWarning or MoveError entries and the run keeps
// going; only an invalid root or a cancelled context ends Resolve early.
package dedupe

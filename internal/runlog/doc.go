// Package runlog writes the per-run logs of the duplicates and rename tools.
//
// Each run produces a JSON file with the full report and a plain-text
// rendition meant for reading in an editor, named
// duplicates_<timestamp>.{json,txt} or renamed_<timestamp>.{json,txt} in
// the log directory. Files are written atomically.
package runlog

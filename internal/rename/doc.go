// Package rename renames audio files to a tag-derived pattern such as
// "Artist - Title.mp3".
//
// Artist and title come from the tags package. When either is missing and a
// Suggester is configured, the LLM proposes them from the filename instead;
// those targets get " (n)" suffixes on collision while tag-driven targets are
// skipped. Every file ends up either in Report.Renamed or in Report.Skipped
// with a reason.
package rename

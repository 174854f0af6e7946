package runlog

import (
	"fmt"
	"strings"

	"cratekit/internal/rename"
)

// WriteRename writes the JSON and text logs for a rename run.
func WriteRename(dir string, report *rename.Report) (Paths, error) {
	if report == nil {
		return Paths{}, fmt.Errorf("runlog: nil rename report")
	}
	return write(dir, renamedPrefix, report.StartedAt, report, RenderRename(report))
}

// RenderRename renders the human-readable rename log.
func RenderRename(report *rename.Report) string {
	var b strings.Builder
	b.WriteString("Rename Report\n")
	if report.DryRun {
		b.WriteString("Mode     : dry run (nothing was renamed)\n")
	}
	fmt.Fprintf(&b, "Folder   : %s\n", report.Root)
	fmt.Fprintf(&b, "Run      : %s (%s)\n", report.StartedAt.Format(TimestampLayout), report.RunID)
	fmt.Fprintf(&b, "Renamed  : %d file(s)\n", len(report.Renamed))
	fmt.Fprintf(&b, "Skipped  : %d file(s)\n", len(report.Skipped))
	if report.Cancelled {
		b.WriteString("Status   : cancelled before completion\n")
	}
	separator(&b)

	for i, entry := range report.Renamed {
		fmt.Fprintf(&b, "[%d] %s\n", i+1, entry.Original)
		fmt.Fprintf(&b, "    → %s\n", entry.NewPath)
		fmt.Fprintf(&b, "    Tags: %s - %s", entry.Artist, entry.Title)
		if entry.Source == rename.SourceAI {
			b.WriteString(" (AI)")
		}
		b.WriteString("\n\n")
	}

	if len(report.Skipped) == 0 {
		b.WriteString("No files were skipped.\n")
		return b.String()
	}
	b.WriteString("Skipped files:\n")
	for i, entry := range report.Skipped {
		fmt.Fprintf(&b, "[%d] %s (Reason: %s)\n", i+1, entry.Original, entry.Reason)
	}
	return b.String()
}

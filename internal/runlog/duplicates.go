package runlog

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"cratekit/internal/dedupe"
)

// WriteDuplicates writes the JSON and text logs for a duplicates run.
func WriteDuplicates(dir string, report *dedupe.Report) (Paths, error) {
	if report == nil {
		return Paths{}, fmt.Errorf("runlog: nil duplicates report")
	}
	return write(dir, duplicatesPrefix, report.StartedAt, report, RenderDuplicates(report))
}

// RenderDuplicates renders the human-readable duplicates log.
func RenderDuplicates(report *dedupe.Report) string {
	var b strings.Builder
	removals := report.Removals()

	b.WriteString("Duplicate Report\n")
	if report.DryRun {
		b.WriteString("Mode     : dry run (nothing was moved)\n")
	}
	fmt.Fprintf(&b, "Folder   : %s\n", report.Root)
	fmt.Fprintf(&b, "Run      : %s (%s)\n", report.StartedAt.Format(TimestampLayout), report.RunID)
	if report.QuarantineDir != "" {
		fmt.Fprintf(&b, "Trash    : %s\n", report.QuarantineDir)
	}
	fmt.Fprintf(&b, "Scanned  : %d file(s)\n", report.FilesScanned)
	fmt.Fprintf(&b, "Found    : %d duplicate(s) in %d group(s)\n", len(removals), report.GroupsFound)
	if report.DryRun {
		fmt.Fprintf(&b, "Planned  : %d file(s), %s\n", report.FilesPlanned, humanize.IBytes(uint64(max(report.BytesPlanned, 0))))
	} else {
		fmt.Fprintf(&b, "Moved    : %d file(s), %s reclaimed\n", report.FilesMoved, humanize.IBytes(uint64(max(report.BytesReclaimed, 0))))
	}
	if report.Cancelled {
		b.WriteString("Status   : cancelled before completion\n")
	}
	separator(&b)

	if len(removals) == 0 {
		b.WriteString("No duplicates were detected in this run.\n")
	}
	for i, rec := range removals {
		fmt.Fprintf(&b, "[%d] HASH     : %s\n", i+1, rec.Digest)
		fmt.Fprintf(&b, "    ORIGINAL : %s\n", rec.Keeper)
		fmt.Fprintf(&b, "    DUPLICATE: %s\n", rec.Path)
		switch rec.Role {
		case dedupe.RoleMoved:
			fmt.Fprintf(&b, "    MOVED TO : %s\n", rec.Destination)
		case dedupe.RolePlanned:
			fmt.Fprintf(&b, "    WOULD MOVE TO: %s\n", rec.Destination)
		case dedupe.RoleFailed:
			fmt.Fprintf(&b, "    NOT MOVED: %s\n", rec.Error)
		}
		b.WriteString("\n")
	}

	if len(report.Warnings) > 0 {
		b.WriteString("Warnings:\n")
		for i, w := range report.Warnings {
			fmt.Fprintf(&b, "[%d] %s\n", i+1, w.Error())
		}
		b.WriteString("\n")
	}
	if len(report.Errors) > 0 {
		b.WriteString("Errors:\n")
		for i, e := range report.Errors {
			fmt.Fprintf(&b, "[%d] %s\n", i+1, e.Error())
		}
	}
	return b.String()
}

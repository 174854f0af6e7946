package transcribe

import (
	"fmt"
	"math"
	"strings"

	"cratekit/internal/language"
	"cratekit/internal/services/whisperx"
)

// FormatTimestamp renders seconds as mm:ss.mmm. Minutes keep counting past 59
// so long mixes stay sortable.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	ms := int64(math.Round(seconds * 1000))
	return fmt.Sprintf("%02d:%02d.%03d", ms/60000, (ms%60000)/1000, ms%1000)
}

// RenderText builds the plain-text transcript file.
func RenderText(source string, transcript whisperx.Transcript, summary string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Transcript: %s\n", source)
	fmt.Fprintf(&b, "Language: %s\n", language.DisplayName(transcript.Language))
	b.WriteString(strings.Repeat("-", 60))
	b.WriteString("\n")
	written := 0
	for _, seg := range transcript.Segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		fmt.Fprintf(&b, "[%s -> %s] %s\n", FormatTimestamp(seg.Start), FormatTimestamp(seg.End), text)
		written++
	}
	if written == 0 {
		b.WriteString("No speech was detected.\n")
	}
	if summary = strings.TrimSpace(summary); summary != "" {
		b.WriteString("\nSummary:\n")
		b.WriteString(summary)
		b.WriteString("\n")
	}
	return b.String()
}

package runlog

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"cratekit/internal/fileutil"
)

// TimestampLayout is the run timestamp used in log file names.
const TimestampLayout = "2006-01-02_15-04-05"

const (
	duplicatesPrefix = "duplicates"
	renamedPrefix    = "renamed"
	separatorWidth   = 60
	maxNameAttempts  = 100
)

// Paths are the files written for one run.
type Paths struct {
	JSON string `json:"json"`
	Text string `json:"text"`
}

// write stores payload and text under <prefix>_<timestamp>. A second run in
// the same second gets a " (n)" suffix instead of overwriting.
func write(dir, prefix string, started time.Time, payload any, text string) (Paths, error) {
	if strings.TrimSpace(dir) == "" {
		return Paths{}, fmt.Errorf("runlog: log directory not configured")
	}
	encoded, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return Paths{}, fmt.Errorf("runlog: encode %s report: %w", prefix, err)
	}
	base := fmt.Sprintf("%s_%s", prefix, started.Format(TimestampLayout))
	jsonPath, err := fileutil.UniquePathFunc(dir, base+".json", maxNameAttempts, func(candidate string) (bool, error) {
		for _, ext := range []string{".json", ".txt"} {
			taken, err := fileutil.PathExists(strings.TrimSuffix(candidate, ".json") + ext)
			if err != nil || taken {
				return taken, err
			}
		}
		return false, nil
	})
	if err != nil {
		return Paths{}, fmt.Errorf("runlog: choose name: %w", err)
	}
	jsonName := filepath.Base(jsonPath)
	textName := strings.TrimSuffix(jsonName, ".json") + ".txt"

	if err := fileutil.WriteFileAtomic(dir, jsonName, append(encoded, '\n')); err != nil {
		return Paths{}, fmt.Errorf("runlog: write %s: %w", jsonName, err)
	}
	if err := fileutil.WriteFileAtomic(dir, textName, []byte(text)); err != nil {
		return Paths{}, fmt.Errorf("runlog: write %s: %w", textName, err)
	}
	return Paths{JSON: jsonPath, Text: filepath.Join(dir, textName)}, nil
}

func separator(b *strings.Builder) {
	b.WriteString(strings.Repeat("-", separatorWidth))
	b.WriteString("\n\n")
}

package rename

import "time"

// Source of the artist/title used for a rename.
const (
	SourceTags = "tags"
	SourceAI   = "ai"
)

// Skip reasons.
const (
	ReasonMissingTags    = "missing tags"
	ReasonEmptyName      = "empty name after sanitize"
	ReasonAlreadyCorrect = "already formatted correctly"
	ReasonTargetExists   = "target file already exists"
)

// Renamed describes one file that was (or in dry-run would be) renamed.
type Renamed struct {
	Original string `json:"original"`
	NewPath  string `json:"new_path"`
	Artist   string `json:"artist"`
	Title    string `json:"title"`
	Source   string `json:"source"`
}

// Skipped describes one file left untouched.
type Skipped struct {
	Original string `json:"original"`
	Reason   string `json:"reason"`
}

// Report summarizes one rename run.
type Report struct {
	RunID        string    `json:"run_id"`
	Root         string    `json:"root"`
	Pattern      string    `json:"pattern"`
	DryRun       bool      `json:"dry_run"`
	Cancelled    bool      `json:"cancelled,omitempty"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
	FilesScanned int       `json:"files_scanned"`
	Renamed      []Renamed `json:"renamed"`
	Skipped      []Skipped `json:"skipped"`
}

// Duration returns the wall time of the run.
func (r *Report) Duration() time.Duration {
	if r == nil || r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// CountBySource returns how many renames used the given source.
func (r *Report) CountBySource(source string) int {
	n := 0
	for _, entry := range r.Renamed {
		if entry.Source == source {
			n++
		}
	}
	return n
}

package dedupe

import (
	"encoding/json"
	"fmt"
	"time"
)

// Role describes what happened to a file in a duplicate group.
type Role string

const (
	RoleKept    Role = "kept"
	RoleMoved   Role = "moved"
	RoleFailed  Role = "failed"
	RolePlanned Role = "planned"
)

// DispositionRecord is the outcome for one member of a duplicate group.
type DispositionRecord struct {
	Path        string `json:"path"`
	RelPath     string `json:"rel_path"`
	Digest      string `json:"digest"`
	Size        int64  `json:"size"`
	Role        Role   `json:"role"`
	Keeper      string `json:"keeper,omitempty"`
	Destination string `json:"destination,omitempty"`
	Error       string `json:"error,omitempty"`
}

// ScanWarning records a file or directory that was excluded from the run.
type ScanWarning struct {
	Path string
	Op   string
	Err  error
}

func (w ScanWarning) Error() string {
	return fmt.Sprintf("%s %s: %v", w.Op, w.Path, w.Err)
}

func (w ScanWarning) Unwrap() error { return w.Err }

func (w ScanWarning) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Path  string `json:"path"`
		Op    string `json:"op"`
		Error string `json:"error"`
	}{w.Path, w.Op, errorText(w.Err)})
}

// MoveError records a non-keeper that could not be quarantined. The file
// stays at Path.
type MoveError struct {
	Path        string
	Destination string
	Err         error
}

func (e MoveError) Error() string {
	if e.Destination == "" {
		return fmt.Sprintf("move %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("move %s -> %s: %v", e.Path, e.Destination, e.Err)
}

func (e MoveError) Unwrap() error { return e.Err }

func (e MoveError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Path        string `json:"path"`
		Destination string `json:"destination,omitempty"`
		Error       string `json:"error"`
	}{e.Path, e.Destination, errorText(e.Err)})
}

// Group is one set of byte-identical files.
type Group struct {
	Digest  string   `json:"digest"`
	Size    int64    `json:"size"`
	Keeper  string   `json:"keeper"`
	Members []string `json:"members"`
}

// Report summarizes one Resolve call.
type Report struct {
	RunID          string              `json:"run_id"`
	Root           string              `json:"root"`
	Algorithm      string              `json:"algorithm"`
	QuarantineDir  string              `json:"quarantine_dir,omitempty"`
	DryRun         bool                `json:"dry_run"`
	Cancelled      bool                `json:"cancelled"`
	StartedAt      time.Time           `json:"started_at"`
	FinishedAt     time.Time           `json:"finished_at"`
	FilesScanned   int                 `json:"files_scanned"`
	GroupsFound    int                 `json:"groups_found"`
	FilesMoved     int                 `json:"files_moved"`
	FilesPlanned   int                 `json:"files_planned,omitempty"`
	BytesReclaimed int64               `json:"bytes_reclaimed"`
	BytesPlanned   int64               `json:"bytes_planned,omitempty"`
	Groups         []Group             `json:"groups"`
	Records        []DispositionRecord `json:"records"`
	Warnings       []ScanWarning       `json:"warnings"`
	Errors         []MoveError         `json:"errors"`
}

// Duration returns the wall time of the run.
func (r *Report) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Removals returns the records for non-keepers in report order.
func (r *Report) Removals() []DispositionRecord {
	out := make([]DispositionRecord, 0, len(r.Records))
	for _, rec := range r.Records {
		if rec.Role != RoleKept {
			out = append(out, rec)
		}
	}
	return out
}

// RecordsByRole returns the records with the given role.
func (r *Report) RecordsByRole(role Role) []DispositionRecord {
	var out []DispositionRecord
	for _, rec := range r.Records {
		if rec.Role == role {
			out = append(out, rec)
		}
	}
	return out
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

package runlog

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cratekit/internal/dedupe"
	"cratekit/internal/rename"
)

var started = time.Date(2024, 5, 1, 21, 30, 15, 0, time.Local)

func sampleDuplicates() *dedupe.Report {
	return &dedupe.Report{
		RunID:          "run-1",
		Root:           "/music",
		Algorithm:      "md5",
		QuarantineDir:  "/trash/2024-05-01_21-30-15",
		StartedAt:      started,
		FinishedAt:     started.Add(time.Second),
		FilesScanned:   3,
		GroupsFound:    1,
		FilesMoved:     1,
		BytesReclaimed: 2048,
		Records: []dedupe.DispositionRecord{
			{Path: "/music/Song.mp3", Digest: "abc", Role: dedupe.RoleKept},
			{Path: "/music/Song - Copy (1).mp3", Digest: "abc", Role: dedupe.RoleMoved, Keeper: "/music/Song.mp3", Destination: "/trash/2024-05-01_21-30-15/Song - Copy (1).mp3"},
		},
		Warnings: []dedupe.ScanWarning{{Path: "/music/locked.mp3", Op: "hash", Err: errors.New("permission denied")}},
		Errors:   []dedupe.MoveError{},
	}
}

func TestRenderDuplicates(t *testing.T) {
	text := RenderDuplicates(sampleDuplicates())
	for _, want := range []string{
		"Duplicate Report\n",
		"Folder   : /music\n",
		"Run      : 2024-05-01_21-30-15 (run-1)\n",
		"Found    : 1 duplicate(s) in 1 group(s)\n",
		"Moved    : 1 file(s), 2.0 KiB reclaimed\n",
		strings.Repeat("-", 60),
		"[1] HASH     : abc\n",
		"    ORIGINAL : /music/Song.mp3\n",
		"    DUPLICATE: /music/Song - Copy (1).mp3\n",
		"    MOVED TO : /trash/2024-05-01_21-30-15/Song - Copy (1).mp3\n",
		"Warnings:\n[1] hash /music/locked.mp3: permission denied\n",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("duplicates log missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "No duplicates") {
		t.Fatalf("unexpected empty marker:\n%s", text)
	}
}

func TestRenderDuplicatesEmpty(t *testing.T) {
	report := &dedupe.Report{Root: "/music", StartedAt: started}
	if text := RenderDuplicates(report); !strings.Contains(text, "No duplicates were detected in this run.") {
		t.Fatalf("missing empty marker:\n%s", text)
	}
}

func TestWriteDuplicatesAtomicAndUnique(t *testing.T) {
	dir := t.TempDir()
	report := sampleDuplicates()

	first, err := WriteDuplicates(dir, report)
	if err != nil {
		t.Fatalf("WriteDuplicates: %v", err)
	}
	if filepath.Base(first.JSON) != "duplicates_2024-05-01_21-30-15.json" || filepath.Base(first.Text) != "duplicates_2024-05-01_21-30-15.txt" {
		t.Fatalf("unexpected paths %+v", first)
	}
	raw, err := os.ReadFile(first.JSON)
	if err != nil {
		t.Fatal(err)
	}
	var decoded struct {
		RunID   string `json:"run_id"`
		Records []struct {
			Role string `json:"role"`
		} `json:"records"`
		Warnings []struct {
			Error string `json:"error"`
		} `json:"warnings"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.RunID != "run-1" || len(decoded.Records) != 2 || decoded.Warnings[0].Error != "permission denied" {
		t.Fatalf("unexpected json %+v", decoded)
	}

	second, err := WriteDuplicates(dir, report)
	if err != nil {
		t.Fatalf("WriteDuplicates second: %v", err)
	}
	if filepath.Base(second.JSON) != "duplicates_2024-05-01_21-30-15 (1).json" {
		t.Fatalf("second run should not overwrite, got %q", second.JSON)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Fatalf("temporary file left behind: %s", e.Name())
		}
	}
}

func TestRenderRename(t *testing.T) {
	report := &rename.Report{
		RunID:     "run-2",
		Root:      "/music",
		StartedAt: started,
		Renamed: []rename.Renamed{
			{Original: "/music/track01.mp3", NewPath: "/music/Moby - Porcelain.mp3", Artist: "Moby", Title: "Porcelain", Source: rename.SourceTags},
			{Original: "/music/x.mp3", NewPath: "/music/Bicep - Glue.mp3", Artist: "Bicep", Title: "Glue", Source: rename.SourceAI},
		},
		Skipped: []rename.Skipped{{Original: "/music/y.mp3", Reason: rename.ReasonMissingTags}},
	}
	text := RenderRename(report)
	for _, want := range []string{
		"Rename Report\n",
		"Renamed  : 2 file(s)\n",
		"Skipped  : 1 file(s)\n",
		"[1] /music/track01.mp3\n    → /music/Moby - Porcelain.mp3\n    Tags: Moby - Porcelain\n",
		"    Tags: Bicep - Glue (AI)\n",
		"Skipped files:\n[1] /music/y.mp3 (Reason: missing tags)\n",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("rename log missing %q:\n%s", want, text)
		}
	}

	report.Skipped = nil
	if text := RenderRename(report); !strings.Contains(text, "No files were skipped.") {
		t.Fatalf("missing no-skip marker:\n%s", text)
	}
}

func TestWriteRequiresDir(t *testing.T) {
	if _, err := WriteRename("", &rename.Report{}); err == nil {
		t.Fatal("expected error for empty log dir")
	}
}

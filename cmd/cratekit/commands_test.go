package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"cratekit/internal/services"
)

func TestInspectListsTags(t *testing.T) {
	env := setupCLITestEnv(t, "")
	writeFile(t, filepath.Join(env.libraryDir, "a.mp3"), taggedMP3("Daft Punk", "One More Time"))
	writeFile(t, filepath.Join(env.libraryDir, "junk.mp3"), []byte("not audio"))
	writeFile(t, filepath.Join(env.libraryDir, "notes.txt"), []byte("ignored"))

	out, _, err := runCLI(t, []string{"inspect", env.libraryDir}, env.configPath, "")
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	requireContains(t, out, "Daft Punk")
	requireContains(t, out, "One More Time")
	requireContains(t, out, "No readable tags found")
	requireContains(t, out, "2 file(s) inspected")
}

func TestInspectJSON(t *testing.T) {
	env := setupCLITestEnv(t, "")
	writeFile(t, filepath.Join(env.libraryDir, "a.mp3"), taggedMP3("Bicep", "Glue"))

	out, _, err := runCLI(t, []string{"inspect", "--json", env.libraryDir}, env.configPath, "")
	if err != nil {
		t.Fatalf("inspect --json: %v", err)
	}
	var rows []inspectRow
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(rows) != 1 || rows[0].Tags == nil {
		t.Fatalf("unexpected rows: %+v", rows)
	}
	if rows[0].Tags.Artist != "Bicep" || rows[0].Tags.Title != "Glue" {
		t.Fatalf("unexpected tags: %+v", rows[0].Tags)
	}
}

func TestDuplicatesMovesCopies(t *testing.T) {
	env := setupCLITestEnv(t, "")
	keep := filepath.Join(env.libraryDir, "Song.mp3")
	dupe := filepath.Join(env.libraryDir, "Song - Copy (1).mp3")
	other := filepath.Join(env.libraryDir, "Other.mp3")
	writeFile(t, keep, []byte("same bytes"))
	writeFile(t, dupe, []byte("same bytes"))
	writeFile(t, other, []byte("different bytes"))

	out, _, err := runCLI(t, []string{"duplicates", "--no-progress", env.libraryDir}, env.configPath, "")
	if err != nil {
		t.Fatalf("duplicates: %v", err)
	}
	requireContains(t, out, "Moved 1 file(s)")
	requireContains(t, out, "Song - Copy (1).mp3")

	if !fileExists(keep) || !fileExists(other) {
		t.Fatal("keeper or unique file was moved")
	}
	if fileExists(dupe) {
		t.Fatal("duplicate still in library")
	}
	if logs := globLogs(t, env.logDir, "duplicates_*.txt"); len(logs) != 1 {
		t.Fatalf("expected one duplicates text log, got %v", logs)
	}
	if logs := globLogs(t, env.logDir, "duplicates_*.json"); len(logs) != 1 {
		t.Fatalf("expected one duplicates json log, got %v", logs)
	}
}

func TestDuplicatesDryRunJSON(t *testing.T) {
	env := setupCLITestEnv(t, "")
	dupe := filepath.Join(env.libraryDir, "b", "Track.mp3")
	writeFile(t, filepath.Join(env.libraryDir, "a", "Track.mp3"), []byte("same"))
	writeFile(t, dupe, []byte("same"))

	out, _, err := runCLI(t, []string{"duplicates", "--dry-run", "--json", env.libraryDir}, env.configPath, "")
	if err != nil {
		t.Fatalf("duplicates --dry-run: %v", err)
	}
	var payload duplicatesOutput
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if payload.Report == nil || !payload.Report.DryRun {
		t.Fatalf("expected dry-run report, got %+v", payload.Report)
	}
	if payload.Report.FilesPlanned != 1 || payload.Report.FilesMoved != 0 {
		t.Fatalf("planned=%d moved=%d", payload.Report.FilesPlanned, payload.Report.FilesMoved)
	}
	if !fileExists(dupe) {
		t.Fatal("dry run moved a file")
	}
	if payload.Logs.Text == "" || !fileExists(payload.Logs.Text) {
		t.Fatalf("expected text log, got %+v", payload.Logs)
	}
	entries, err := os.ReadDir(env.trashDir)
	if err != nil {
		t.Fatalf("read trash: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("dry run created trash entries: %v", entries)
	}
}

func TestDuplicatesInvalidRoot(t *testing.T) {
	env := setupCLITestEnv(t, "")

	_, _, err := runCLI(t, []string{"duplicates", filepath.Join(env.libraryDir, "missing")}, env.configPath, "")
	if err == nil {
		t.Fatal("expected error for missing root")
	}
	if !errors.Is(err, services.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if code := services.ExitCode(err); code != 2 {
		t.Fatalf("exit code = %d, want 2", code)
	}
}

func TestRenameFromTags(t *testing.T) {
	env := setupCLITestEnv(t, "")
	writeFile(t, filepath.Join(env.libraryDir, "track01.mp3"), taggedMP3("Daft Punk", "One More Time"))
	writeFile(t, filepath.Join(env.libraryDir, "untagged.mp3"), []byte("no tags here"))

	out, _, err := runCLI(t, []string{"rename", env.libraryDir}, env.configPath, "")
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	requireContains(t, out, "Renamed 1 file(s) (1 from tags, 0 from AI), skipped 1")
	requireContains(t, out, "missing tags")

	if !fileExists(filepath.Join(env.libraryDir, "Daft Punk - One More Time.mp3")) {
		t.Fatal("expected renamed file")
	}
	if fileExists(filepath.Join(env.libraryDir, "track01.mp3")) {
		t.Fatal("original name still present")
	}
	if !fileExists(filepath.Join(env.libraryDir, "untagged.mp3")) {
		t.Fatal("untagged file should be left alone")
	}
	if logs := globLogs(t, env.logDir, "renamed_*.txt"); len(logs) != 1 {
		t.Fatalf("expected one rename log, got %v", logs)
	}
}

func TestRenameDryRunLeavesFiles(t *testing.T) {
	env := setupCLITestEnv(t, "")
	original := filepath.Join(env.libraryDir, "track01.mp3")
	writeFile(t, original, taggedMP3("Bicep", "Glue"))

	out, _, err := runCLI(t, []string{"rename", "--dry-run", env.libraryDir}, env.configPath, "")
	if err != nil {
		t.Fatalf("rename --dry-run: %v", err)
	}
	requireContains(t, out, "Would rename 1 file(s)")
	requireContains(t, out, "Bicep - Glue.mp3")
	if !fileExists(original) {
		t.Fatal("dry run renamed the file")
	}
}

func TestTranscribeRequiresBinaries(t *testing.T) {
	env := setupCLITestEnv(t, "")
	source := filepath.Join(env.libraryDir, "memo.wav")
	writeFile(t, source, []byte("RIFF"))

	_, _, err := runCLI(t, []string{"transcribe", source}, env.configPath, "")
	if err == nil {
		t.Fatal("expected transcribe to fail without ffmpeg and uvx")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
	requireContains(t, err.Error(), "missing required binaries")
}

func TestDoctorReportsMissingBinaries(t *testing.T) {
	env := setupCLITestEnv(t, "")

	out, _, err := runCLI(t, []string{"doctor"}, env.configPath, "")
	if err != nil {
		t.Fatalf("doctor: %v", err)
	}
	requireContains(t, out, "Trash directory")
	requireContains(t, out, "Not configured")
	requireContains(t, out, "FFmpeg")
	requireContains(t, out, "2 issue(s) found")
	requireContains(t, out, env.configPath)
}

func TestRootWithoutTerminalShowsHelp(t *testing.T) {
	env := setupCLITestEnv(t, "")

	out, _, err := runCLI(t, nil, env.configPath, "")
	if err != nil {
		t.Fatalf("root: %v", err)
	}
	requireContains(t, out, "duplicates")
	requireContains(t, out, "transcribe")
}

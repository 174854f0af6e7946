package rename_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"cratekit/internal/rename"
	"cratekit/internal/services"
	"cratekit/internal/services/llm"
	"cratekit/internal/tags"
)

type fakeTags map[string]tags.Tags

func (f fakeTags) Read(_ context.Context, path string) (tags.Tags, error) {
	t, ok := f[filepath.Base(path)]
	if !ok {
		return tags.Tags{}, tags.ErrNoTags
	}
	return t, nil
}

type fakeSuggester struct {
	names map[string]llm.TrackName
	calls []string
}

func (f *fakeSuggester) SuggestTrackName(_ context.Context, filename, _, _ string) (llm.TrackName, error) {
	f.calls = append(f.calls, filename)
	name, ok := f.names[filename]
	if !ok {
		return llm.TrackName{}, errors.New("model unavailable")
	}
	return name, nil
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(filepath.Base(path)), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newRenamer(reader rename.TagReader, suggester rename.Suggester, dryRun bool) *rename.Renamer {
	fixed := time.Date(2024, 5, 1, 21, 30, 15, 0, time.Local)
	opts := rename.Options{
		Tags:             reader,
		TitleCaseAllCaps: true,
		DryRun:           dryRun,
		Now:              func() time.Time { return fixed },
		NewRunID:         func() string { return "run-1" },
	}
	if suggester != nil {
		opts.Suggester = suggester
	}
	return rename.New(opts)
}

func skippedReasons(report *rename.Report) map[string]string {
	out := make(map[string]string, len(report.Skipped))
	for _, s := range report.Skipped {
		out[filepath.Base(s.Original)] = s.Reason
	}
	return out
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func TestRunRenamesFromTags(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "track01.mp3"))
	writeFile(t, filepath.Join(root, "sub", "x.wav"))

	reader := fakeTags{
		"track01.mp3": {Artist: "DAFT PUNK", Title: "One More Time"},
		"x.wav":       {Artist: "Bicep", Title: "Glue: Live?"},
	}
	report, err := newRenamer(reader, nil, false).Run(context.Background(), root)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(report.Renamed) != 2 || len(report.Skipped) != 0 {
		t.Fatalf("renamed=%d skipped=%v", len(report.Renamed), report.Skipped)
	}
	if got := listDir(t, root); got[0] != "Daft Punk - One More Time.mp3" {
		t.Fatalf("root entries = %v", got)
	}
	if got := listDir(t, filepath.Join(root, "sub")); len(got) != 1 || got[0] != "Bicep - Glue- Live-.wav" {
		t.Fatalf("sub entries = %v", got)
	}
	for _, r := range report.Renamed {
		if r.Source != rename.SourceTags {
			t.Fatalf("source = %q, want tags", r.Source)
		}
	}
	if report.RunID != "run-1" || report.FilesScanned != 2 {
		t.Fatalf("unexpected report header %+v", report)
	}
}

func TestRunSkipReasons(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "daft punk - around the world.mp3"))
	writeFile(t, filepath.Join(root, "untagged.mp3"))
	writeFile(t, filepath.Join(root, "dots.mp3"))
	writeFile(t, filepath.Join(root, "clash.mp3"))
	writeFile(t, filepath.Join(root, "Moby - Porcelain.mp3"))

	reader := fakeTags{
		"daft punk - around the world.mp3": {Artist: "Daft Punk", Title: "Around The World"},
		"dots.mp3":                         {Artist: "...", Title: "Song"},
		"clash.mp3":                        {Artist: "Moby", Title: "Porcelain"},
		"Moby - Porcelain.mp3":             {Artist: "Moby", Title: "Porcelain"},
	}
	report, err := newRenamer(reader, nil, false).Run(context.Background(), root)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := map[string]string{
		"daft punk - around the world.mp3": rename.ReasonAlreadyCorrect,
		"untagged.mp3":                     rename.ReasonMissingTags,
		"dots.mp3":                         rename.ReasonEmptyName,
		"clash.mp3":                        rename.ReasonTargetExists,
		"Moby - Porcelain.mp3":             rename.ReasonAlreadyCorrect,
	}
	got := skippedReasons(report)
	for name, reason := range want {
		if got[name] != reason {
			t.Fatalf("%s: reason %q, want %q (all: %v)", name, got[name], reason, got)
		}
	}
	if len(report.Renamed) != 0 {
		t.Fatalf("expected no renames, got %+v", report.Renamed)
	}
	if _, err := os.Stat(filepath.Join(root, "clash.mp3")); err != nil {
		t.Fatalf("skipped file should stay in place: %v", err)
	}
}

func TestRunAIFallbackUniquifies(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Bicep - Glue.mp3"))
	writeFile(t, filepath.Join(root, "01_bicep_glue_320k.mp3"))
	writeFile(t, filepath.Join(root, "mystery.mp3"))

	reader := fakeTags{
		"Bicep - Glue.mp3":       {Artist: "Bicep", Title: "Glue"},
		"01_bicep_glue_320k.mp3": {Artist: "Bicep"},
	}
	suggester := &fakeSuggester{names: map[string]llm.TrackName{
		"01_bicep_glue_320k.mp3": {Artist: "Bicep", Title: "Glue"},
	}}
	report, err := newRenamer(reader, suggester, false).Run(context.Background(), root)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(report.Renamed) != 1 {
		t.Fatalf("expected one rename, got %+v", report.Renamed)
	}
	got := report.Renamed[0]
	if got.Source != rename.SourceAI || filepath.Base(got.NewPath) != "Bicep - Glue (1).mp3" {
		t.Fatalf("unexpected rename %+v", got)
	}
	if reasons := skippedReasons(report); reasons["mystery.mp3"] != rename.ReasonMissingTags {
		t.Fatalf("mystery.mp3 reason = %q", reasons["mystery.mp3"])
	}
	if len(suggester.calls) != 2 {
		t.Fatalf("suggester called %d times, want 2", len(suggester.calls))
	}
	if report.CountBySource(rename.SourceAI) != 1 {
		t.Fatalf("CountBySource(ai) = %d", report.CountBySource(rename.SourceAI))
	}
}

func TestRunDryRunLeavesFilesAndReservesNames(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.mp3"))
	writeFile(t, filepath.Join(root, "b.mp3"))

	reader := fakeTags{
		"a.mp3": {Artist: "Moby", Title: "Porcelain"},
		"b.mp3": {Artist: "Moby", Title: "Porcelain"},
	}
	report, err := newRenamer(reader, nil, true).Run(context.Background(), root)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !report.DryRun || len(report.Renamed) != 1 {
		t.Fatalf("expected one planned rename, got %+v", report.Renamed)
	}
	if reasons := skippedReasons(report); reasons["b.mp3"] != rename.ReasonTargetExists {
		t.Fatalf("b.mp3 reason = %q", reasons["b.mp3"])
	}
	if got := listDir(t, root); len(got) != 2 || got[0] != "a.mp3" || got[1] != "b.mp3" {
		t.Fatalf("dry run changed the directory: %v", got)
	}
}

func TestRunInvalidRoot(t *testing.T) {
	_, err := newRenamer(fakeTags{}, nil, false).Run(context.Background(), filepath.Join(t.TempDir(), "missing"))
	if !errors.Is(err, services.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRunCancelled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.mp3"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report, err := newRenamer(fakeTags{"a.mp3": {Artist: "A", Title: "B"}}, nil, false).Run(ctx, root)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if report == nil || !report.Cancelled || len(report.Renamed) != 0 {
		t.Fatalf("unexpected report %+v", report)
	}
}

func TestFormat(t *testing.T) {
	f := rename.Fields{Artist: "Moby", Title: "Porcelain", Year: 1999, Track: 3}
	cases := map[string]string{
		"":                            "Moby - Porcelain",
		"{track} {artist} - {title}":  "03 Moby - Porcelain",
		"{artist} - {title} ({year})": "Moby - Porcelain (1999)",
		"{album} {artist} - {title}":  "Moby - Porcelain",
	}
	for pattern, want := range cases {
		if got := rename.Format(pattern, f); got != want {
			t.Fatalf("Format(%q) = %q, want %q", pattern, got, want)
		}
	}
}

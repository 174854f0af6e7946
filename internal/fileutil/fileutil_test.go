package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
)

func TestHashFileAlgorithms(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.mp3")
	if err := os.WriteFile(path, []byte("hello world"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		algo string
		want string
	}{
		{"", "5eb63bbbe01eeed093cb22bb8f5acdc3"},
		{DigestMD5, "5eb63bbbe01eeed093cb22bb8f5acdc3"},
		{DigestSHA256, "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"},
	}
	for _, tt := range tests {
		got, n, err := HashFile(path, tt.algo)
		if err != nil {
			t.Fatalf("HashFile(%q): %v", tt.algo, err)
		}
		if got != tt.want {
			t.Fatalf("HashFile(%q) = %s, want %s", tt.algo, got, tt.want)
		}
		if n != 11 {
			t.Fatalf("HashFile(%q) read %d bytes, want 11", tt.algo, n)
		}
	}

	m1, _, err := HashFile(path, DigestMurmur3)
	if err != nil {
		t.Fatalf("murmur3: %v", err)
	}
	if len(m1) != 32 {
		t.Fatalf("expected 128-bit murmur3 digest, got %q", m1)
	}
	m2, _, _ := HashFile(path, DigestMurmur3)
	if m1 != m2 {
		t.Fatalf("murmur3 digest not stable: %s vs %s", m1, m2)
	}
}

func TestHashFileUnknownAlgorithm(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.mp3")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := HashFile(path, "crc32"); err == nil {
		t.Fatal("expected error for unknown algorithm")
	}
}

func TestMoveFileRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.mp3")
	dst := filepath.Join(dir, "dst.mp3")
	if err := os.WriteFile(src, []byte("src"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dst, []byte("dst"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := MoveFile(src, dst)
	if !errors.Is(err, ErrDestinationExists) {
		t.Fatalf("expected ErrDestinationExists, got %v", err)
	}
	got, _ := os.ReadFile(dst)
	if string(got) != "dst" {
		t.Fatalf("destination overwritten: %q", got)
	}
	if _, err := os.Stat(src); err != nil {
		t.Fatalf("source should remain: %v", err)
	}
}

func TestMoveFileCrossDevice(t *testing.T) {
	old := renameFunc
	renameFunc = func(oldpath, newpath string) error {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: syscall.EXDEV}
	}
	defer func() { renameFunc = old }()

	dir := t.TempDir()
	src := filepath.Join(dir, "src.mp3")
	if err := os.WriteFile(src, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	err := MoveFile(src, filepath.Join(dir, "dst.mp3"))
	if !IsCrossDevice(err) {
		t.Fatalf("expected CrossDeviceError, got %T %v", err, err)
	}
	if !errors.Is(err, syscall.EXDEV) {
		t.Fatalf("expected EXDEV to unwrap, got %v", err)
	}
	if _, err := os.Stat(src); err != nil {
		t.Fatalf("source should remain after failed move: %v", err)
	}
}

func TestMoveFileSuccess(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.mp3")
	dst := filepath.Join(dir, "sub", "dst.mp3")
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(src, []byte("payload"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := MoveFile(src, dst); err != nil {
		t.Fatalf("MoveFile: %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatalf("expected source gone, got %v", err)
	}
	got, err := os.ReadFile(dst)
	if err != nil || string(got) != "payload" {
		t.Fatalf("unexpected destination content %q err=%v", got, err)
	}
}

func TestUniquePath(t *testing.T) {
	dir := t.TempDir()
	got, err := UniquePath(dir, "Song.mp3", 5)
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(dir, "Song.mp3") {
		t.Fatalf("expected free name unchanged, got %s", got)
	}

	for _, name := range []string{"Song.mp3", "Song (1).mp3"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	got, err = UniquePath(dir, "Song.mp3", 5)
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(dir, "Song (2).mp3") {
		t.Fatalf("expected Song (2).mp3, got %s", got)
	}
}

func TestUniquePathExhausted(t *testing.T) {
	always := func(string) (bool, error) { return true, nil }
	_, err := UniquePathFunc("/q", "Song.mp3", 3, always)
	if !errors.Is(err, ErrCollisionExhausted) {
		t.Fatalf("expected ErrCollisionExhausted, got %v", err)
	}
}

func TestUniquePathFuncReservations(t *testing.T) {
	reserved := map[string]bool{
		filepath.Join("/q", "track.mp3"):     true,
		filepath.Join("/q", "track (1).mp3"): true,
	}
	exists := func(p string) (bool, error) { return reserved[p], nil }
	got, err := UniquePathFunc("/q", "track.mp3", 10, exists)
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join("/q", "track (2).mp3") {
		t.Fatalf("unexpected candidate %s", got)
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	if err := WriteFileAtomic(dir, "run.txt", []byte("first")); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := WriteFileAtomic(dir, "run.txt", []byte("second")); err != nil {
		t.Fatalf("second write: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(dir, "run.txt"))
	if err != nil || string(got) != "second" {
		t.Fatalf("unexpected content %q err=%v", got, err)
	}
	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Fatalf("temp file left behind: %s", e.Name())
		}
	}
}

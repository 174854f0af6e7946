package main

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type cliTestEnv struct {
	configPath    string
	trashDir      string
	logDir        string
	transcriptDir string
	libraryDir    string
}

// setupCLITestEnv writes a config pointing every directory into a temp tree.
// PATH is emptied so no external binary is ever found.
func setupCLITestEnv(t *testing.T, extra string) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	binDir := filepath.Join(base, "bin")
	for _, dir := range []string{homeDir, binDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("PATH", binDir)
	t.Setenv("CRATEKIT_LLM_API_KEY", "")
	t.Setenv("OPENROUTER_API_KEY", "")
	t.Setenv("HF_TOKEN", "")

	env := &cliTestEnv{
		configPath:    filepath.Join(base, "config.toml"),
		trashDir:      filepath.Join(base, "trash"),
		logDir:        filepath.Join(base, "logs"),
		transcriptDir: filepath.Join(base, "transcripts"),
		libraryDir:    filepath.Join(base, "music"),
	}
	if err := os.MkdirAll(env.libraryDir, 0o755); err != nil {
		t.Fatalf("mkdir library: %v", err)
	}
	content := fmt.Sprintf(
		"[paths]\ntrash_dir = %q\nlog_dir = %q\ntranscript_dir = %q\n\n[logging]\nlevel = \"error\"\n%s",
		env.trashDir,
		env.logDir,
		env.transcriptDir,
		extra,
	)
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return env
}

func runCLI(t *testing.T, args []string, configPath, stdin string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// taggedMP3 builds an ID3v2.3 header with artist and title frames followed by
// a few MPEG frame headers.
func taggedMP3(artist, title string) []byte {
	frame := func(id, text string) []byte {
		var buf bytes.Buffer
		buf.WriteString(id)
		payload := append([]byte{0}, []byte(text)...)
		_ = binary.Write(&buf, binary.BigEndian, uint32(len(payload)))
		buf.Write([]byte{0, 0})
		buf.Write(payload)
		return buf.Bytes()
	}
	var body bytes.Buffer
	body.Write(frame("TPE1", artist))
	body.Write(frame("TIT2", title))
	size := body.Len()

	var out bytes.Buffer
	out.WriteString("ID3")
	out.Write([]byte{3, 0, 0})
	out.Write([]byte{byte(size >> 21 & 0x7f), byte(size >> 14 & 0x7f), byte(size >> 7 & 0x7f), byte(size & 0x7f)})
	out.Write(body.Bytes())
	out.Write(bytes.Repeat([]byte{0xff, 0xfb, 0x90, 0x00}, 8))
	return out.Bytes()
}

func globLogs(t *testing.T, dir, pattern string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	return matches
}

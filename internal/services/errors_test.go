package services_test

import (
	"errors"
	"strings"
	"testing"

	"cratekit/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "transcribe", "whisperx", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"transcribe", "whisperx", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestExitCodeMapping(t *testing.T) {
	invalid := services.Wrap(services.ErrInvalidInput, "duplicates", "resolve", "not a directory", nil)
	if code := services.ExitCode(invalid); code != 2 {
		t.Fatalf("expected exit code 2 for invalid input, got %d", code)
	}
	transient := services.Wrap(services.ErrTransient, "rename", "apply", "rename failed", errors.New("io"))
	if code := services.ExitCode(transient); code != 1 {
		t.Fatalf("expected exit code 1 for transient error, got %d", code)
	}
	if code := services.ExitCode(nil); code != 0 {
		t.Fatalf("expected exit code 0 for nil error, got %d", code)
	}
}

package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrCollisionExhausted is returned when every " (n)" candidate is taken.
var ErrCollisionExhausted = errors.New("collision resolution exhausted")

// UniquePath returns dir/name when free, otherwise the first free
// "dir/<stem> (n)<ext>" for n in 1..maxAttempts.
func UniquePath(dir, name string, maxAttempts int) (string, error) {
	return UniquePathFunc(dir, name, maxAttempts, PathExists)
}

// UniquePathFunc is UniquePath with a caller-supplied existence check, so
// planned-but-unperformed moves can reserve names.
func UniquePathFunc(dir, name string, maxAttempts int, exists func(string) (bool, error)) (string, error) {
	candidate := filepath.Join(dir, name)
	taken, err := exists(candidate)
	if err != nil {
		return "", err
	}
	if !taken {
		return candidate, nil
	}
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		candidate = filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, attempt, ext))
		taken, err := exists(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %d candidates for %q in %s", ErrCollisionExhausted, maxAttempts, name, dir)
}

// PathExists reports whether path exists (files, directories, or dangling symlinks).
func PathExists(path string) (bool, error) {
	if _, err := os.Lstat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

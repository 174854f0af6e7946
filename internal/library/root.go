package library

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cratekit/internal/services"
)

// ValidateRoot resolves root to an absolute directory path with symlinks
// evaluated. Failures are tagged services.ErrInvalidInput under the given
// tool name.
func ValidateRoot(tool, root string) (string, error) {
	if strings.TrimSpace(root) == "" {
		return "", services.Wrap(services.ErrInvalidInput, tool, "validate root", "no directory given", nil)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", services.Wrap(services.ErrInvalidInput, tool, "validate root", "resolve path", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", services.Wrap(services.ErrInvalidInput, tool, "validate root", fmt.Sprintf("%s does not exist", abs), err)
		}
		return "", services.Wrap(services.ErrInvalidInput, tool, "validate root", fmt.Sprintf("cannot stat %s", abs), err)
	}
	if !info.IsDir() {
		return "", services.Wrap(services.ErrInvalidInput, tool, "validate root", fmt.Sprintf("%s is not a directory", abs), nil)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", services.Wrap(services.ErrInvalidInput, tool, "validate root", fmt.Sprintf("cannot resolve %s", abs), err)
	}
	return resolved, nil
}

// Canonical evaluates symlinks in the longest existing prefix of path and
// keeps any missing trailing components as given.
func Canonical(path string) string {
	path = filepath.Clean(path)
	var missing []string
	for p := path; ; {
		if resolved, err := filepath.EvalSymlinks(p); err == nil {
			return filepath.Join(append([]string{resolved}, missing...)...)
		}
		parent := filepath.Dir(p)
		if parent == p {
			return path
		}
		missing = append([]string{filepath.Base(p)}, missing...)
		p = parent
	}
}

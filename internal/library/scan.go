package library

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"
)

// DefaultExtensions is the audio allow-list used when none is configured.
var DefaultExtensions = []string{".mp3", ".wav"}

// Track is one audio file discovered by Scan.
type Track struct {
	AbsPath string
	RelPath string
	Name    string
	Size    int64
	ModTime time.Time
}

// WalkWarning records a path the walk could not enter or stat.
type WalkWarning struct {
	Path string
	Err  error
}

func (w WalkWarning) Error() string {
	return fmt.Sprintf("%s: %v", w.Path, w.Err)
}

// Options controls which files Scan returns.
type Options struct {
	// Extensions is matched case-insensitively; entries may omit the leading dot.
	Extensions []string
	// Exclude lists directories to skip. Relative entries are resolved against
	// root. Entries that are not strictly inside root are ignored.
	Exclude []string
}

// Scan walks root and returns matching tracks in discovery order. A symlinked
// root is followed; links below it are not. An error is
// returned only when root itself cannot be walked or ctx is cancelled; the
// tracks found before cancellation are returned with ctx.Err().
func Scan(ctx context.Context, root string, opts Options) ([]Track, []WalkWarning, error) {
	root = Canonical(root)
	allowed := extensionSet(opts.Extensions)
	excluded := buildExcluded(root, opts.Exclude)

	var (
		tracks   = make([]Track, 0, 128)
		warnings []WalkWarning
	)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			warnings = append(warnings, WalkWarning{Path: path, Err: walkErr})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if path != root && isExcluded(path, excluded) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		name := d.Name()
		if _, ok := allowed[strings.ToLower(filepath.Ext(name))]; !ok {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			warnings = append(warnings, WalkWarning{Path: path, Err: err})
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = name
		}
		tracks = append(tracks, Track{
			AbsPath: path,
			RelPath: rel,
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return tracks, warnings, err
		}
		return nil, warnings, err
	}
	return tracks, warnings, nil
}

func extensionSet(extensions []string) map[string]struct{} {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	set := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = struct{}{}
	}
	return set
}

func buildExcluded(root string, excludeDirs []string) []string {
	excluded := make([]string, 0, len(excludeDirs))
	for _, x := range excludeDirs {
		x = strings.TrimSpace(x)
		if x == "" {
			continue
		}
		if !filepath.IsAbs(x) {
			x = filepath.Join(root, x)
		}
		x = Canonical(x)
		if x == root || !IsUnder(x, root) {
			continue
		}
		excluded = append(excluded, x)
	}
	return excluded
}

func isExcluded(path string, excluded []string) bool {
	path = filepath.Clean(path)
	for _, base := range excluded {
		if IsUnder(path, base) {
			return true
		}
	}
	return false
}

// IsUnder reports whether path equals base or lies inside it.
func IsUnder(path, base string) bool {
	path = filepath.Clean(path)
	base = filepath.Clean(base)
	if path == base {
		return true
	}
	return strings.HasPrefix(path, strings.TrimSuffix(base, string(filepath.Separator))+string(filepath.Separator))
}

package dedupe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"cratekit/internal/fileutil"
)

// BatchLayout names quarantine batch directories after the run start time.
const BatchLayout = "2006-01-02_15-04-05"

const (
	lockFileName   = ".lock"
	lockRetryDelay = 200 * time.Millisecond
)

// batch is the quarantine directory for one run. The directory is created on
// the first real move; dry runs only compute its name.
type batch struct {
	trashRoot   string
	dir         string
	created     bool
	dryRun      bool
	maxAttempts int
	reserved    map[string]struct{}
	lock        *flock.Flock
}

func newBatch(trashRoot string, started time.Time, dryRun bool, maxAttempts int) (*batch, error) {
	b := &batch{
		trashRoot:   trashRoot,
		dryRun:      dryRun,
		maxAttempts: maxAttempts,
		reserved:    make(map[string]struct{}),
	}
	dir, err := b.pickDir(started)
	if err != nil {
		return nil, err
	}
	b.dir = dir
	return b, nil
}

// pickDir returns the first free <trash_root>/<ts>, <ts>-2, <ts>-3, ... name.
func (b *batch) pickDir(started time.Time) (string, error) {
	base := started.Format(BatchLayout)
	for attempt := 1; attempt <= b.maxAttempts; attempt++ {
		name := base
		if attempt > 1 {
			name = fmt.Sprintf("%s-%d", base, attempt)
		}
		candidate := filepath.Join(b.trashRoot, name)
		exists, err := fileutil.PathExists(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: batch directory slots for %s in %s", fileutil.ErrCollisionExhausted, base, b.trashRoot)
}

// acquire takes the advisory lock on the trash root so concurrent runs cannot
// race on batch or collision naming.
func (b *batch) acquire(ctx context.Context) error {
	if b.dryRun {
		return nil
	}
	if err := os.MkdirAll(b.trashRoot, 0o755); err != nil {
		return fmt.Errorf("create trash root: %w", err)
	}
	lock := flock.New(filepath.Join(b.trashRoot, lockFileName))
	ok, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("lock trash root: %w", err)
	}
	if !ok {
		return errors.New("lock trash root: held by another run")
	}
	b.lock = lock
	return nil
}

func (b *batch) release() error {
	if b.lock == nil {
		return nil
	}
	err := b.lock.Unlock()
	b.lock = nil
	return err
}

// ensureDir claims the batch directory. If another process took the name since
// pickDir, the next free suffix is used.
func (b *batch) ensureDir(started time.Time) error {
	if b.dryRun || b.created {
		return nil
	}
	for attempt := 0; attempt < b.maxAttempts; attempt++ {
		err := os.Mkdir(b.dir, 0o755)
		if err == nil {
			b.created = true
			return nil
		}
		if !errors.Is(err, os.ErrExist) {
			return fmt.Errorf("create quarantine batch: %w", err)
		}
		dir, err := b.pickDir(started)
		if err != nil {
			return err
		}
		b.dir = dir
	}
	return fmt.Errorf("%w: quarantine batch %s", fileutil.ErrCollisionExhausted, b.dir)
}

// destination picks a free path for name inside the batch and reserves it.
func (b *batch) destination(name string) (string, error) {
	dst, err := fileutil.UniquePathFunc(b.dir, name, b.maxAttempts, b.exists)
	if err != nil {
		return "", err
	}
	b.reserved[dst] = struct{}{}
	return dst, nil
}

func (b *batch) exists(path string) (bool, error) {
	if _, ok := b.reserved[path]; ok {
		return true, nil
	}
	return fileutil.PathExists(path)
}

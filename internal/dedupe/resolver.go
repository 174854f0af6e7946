package dedupe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"cratekit/internal/fileutil"
	"cratekit/internal/library"
	"cratekit/internal/logging"
	"cratekit/internal/services"
)

const (
	toolName                    = "duplicates"
	defaultMaxCollisionAttempts = 1000
)

// Options configures a Resolver.
type Options struct {
	// TrashRoot receives one batch directory per run. Required.
	TrashRoot string
	// Extensions is the audio allow-list; nil means library.DefaultExtensions.
	Extensions []string
	// Exclude lists extra directories to skip, such as the log root.
	Exclude []string
	// Digest is md5 (default), sha256, or murmur3.
	Digest string
	// CopyMarkers replaces DefaultCopyMarkers when non-nil.
	CopyMarkers          []string
	MaxCollisionAttempts int
	DryRun               bool
	// Progress is called after each file is hashed.
	Progress func(done, total int)
	Logger   *slog.Logger
	// Now and NewRunID are overridable for tests.
	Now      func() time.Time
	NewRunID func() string
}

// Resolver groups identical audio files and quarantines the redundant copies.
// A Resolver holds no state between Resolve calls.
type Resolver struct {
	opts   Options
	logger *slog.Logger
}

// New constructs a Resolver, filling unset options with defaults.
func New(opts Options) *Resolver {
	if opts.Digest == "" {
		opts.Digest = fileutil.DigestMD5
	}
	if opts.CopyMarkers == nil {
		opts.CopyMarkers = DefaultCopyMarkers
	}
	if opts.MaxCollisionAttempts <= 0 {
		opts.MaxCollisionAttempts = defaultMaxCollisionAttempts
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewRunID == nil {
		opts.NewRunID = uuid.NewString
	}
	return &Resolver{
		opts:   opts,
		logger: logging.NewComponentLogger(opts.Logger, "dedupe"),
	}
}

type hashedTrack struct {
	track  library.Track
	digest string
	size   int64
}

// Resolve scans root, quarantines duplicates, and returns the run report.
//
// The returned error is non-nil only when root is not a readable directory
// (services.ErrInvalidInput), the options are unusable
// (services.ErrConfiguration), or ctx is cancelled. On cancellation the
// partial report is returned alongside ctx.Err().
func (r *Resolver) Resolve(ctx context.Context, root string) (*Report, error) {
	runID, ok := services.RunIDFromContext(ctx)
	if !ok {
		runID = r.opts.NewRunID()
		ctx = services.WithRunID(ctx, runID)
	}
	ctx = services.WithTool(ctx, toolName)
	logger := logging.WithContext(ctx, r.logger)

	absRoot, err := library.ValidateRoot(toolName, root)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(r.opts.TrashRoot) == "" {
		return nil, services.Wrap(services.ErrConfiguration, toolName, "validate options", "trash root is not configured", nil)
	}
	trashRoot, err := filepath.Abs(r.opts.TrashRoot)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, toolName, "validate options", "resolve trash root", err)
	}
	if _, err := fileutil.NewHasher(r.opts.Digest); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, toolName, "validate options", "digest", err)
	}

	started := r.opts.Now()
	report := &Report{
		RunID:     runID,
		Root:      absRoot,
		Algorithm: r.opts.Digest,
		DryRun:    r.opts.DryRun,
		StartedAt: started,
		Groups:    []Group{},
		Records:   []DispositionRecord{},
		Warnings:  []ScanWarning{},
		Errors:    []MoveError{},
	}
	finish := func(err error) (*Report, error) {
		report.FinishedAt = r.opts.Now()
		if err != nil {
			report.Cancelled = true
			logger.Info("duplicate scan cancelled",
				logging.Int("files_scanned", report.FilesScanned),
				logging.Int("files_moved", report.FilesMoved),
				logging.String(logging.FieldEventType, "duplicates_cancelled"),
			)
			return report, err
		}
		logger.Info("duplicate scan complete",
			logging.String(logging.FieldEventType, "duplicates_complete"),
			logging.Int("files_scanned", report.FilesScanned),
			logging.Int("groups_found", report.GroupsFound),
			logging.Int("files_moved", report.FilesMoved),
			logging.Int64("reclaimed_bytes", report.BytesReclaimed),
			logging.Int("warnings", len(report.Warnings)),
			logging.Int("move_errors", len(report.Errors)),
			logging.Duration("duration", report.Duration()),
		)
		return report, nil
	}

	logger.Info("duplicate scan started",
		logging.String(logging.FieldEventType, "duplicates_started"),
		logging.String("root", absRoot),
		logging.String("digest", r.opts.Digest),
		logging.Bool("dry_run", r.opts.DryRun),
	)

	tracks, walkWarnings, err := library.Scan(ctx, absRoot, library.Options{
		Extensions: r.opts.Extensions,
		Exclude:    r.excludedDirs(logger, absRoot, trashRoot),
	})
	for _, w := range walkWarnings {
		r.warn(logger, report, ScanWarning{Path: w.Path, Op: "walk", Err: w.Err})
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return finish(ctxErr)
		}
		return nil, services.Wrap(services.ErrInvalidInput, toolName, "scan root", fmt.Sprintf("cannot read %s", absRoot), err)
	}

	hashed, err := r.hashAll(ctx, logger, report, tracks)
	if err != nil {
		return finish(err)
	}

	groups := groupByDigest(hashed)
	report.GroupsFound = len(groups)
	if len(groups) == 0 {
		return finish(nil)
	}

	q, err := newBatch(trashRoot, started, r.opts.DryRun, r.opts.MaxCollisionAttempts)
	if err != nil {
		r.failAll(logger, report, groups, fmt.Errorf("quarantine batch: %w", err))
		return finish(nil)
	}
	report.QuarantineDir = q.dir
	if err := q.acquire(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return finish(ctxErr)
		}
		r.failAll(logger, report, groups, err)
		return finish(nil)
	}
	defer func() {
		if err := q.release(); err != nil {
			logger.Warn("release trash lock failed", logging.Error(err))
		}
	}()

	for _, group := range groups {
		err := r.disposeGroup(ctx, logger, report, q, started, group)
		report.QuarantineDir = q.dir
		if err != nil {
			return finish(err)
		}
	}
	return finish(nil)
}

// excludedDirs keeps the quarantine root out of the walk when it sits inside
// the scanned tree, so earlier batches are never re-grouped. Configured
// excludes that do not lie strictly inside root are dropped with a warning.
func (r *Resolver) excludedDirs(logger *slog.Logger, root, trashRoot string) []string {
	var out []string
	if trashRoot = library.Canonical(trashRoot); library.IsUnder(trashRoot, root) && trashRoot != root {
		out = append(out, trashRoot)
	}
	for _, dir := range r.opts.Exclude {
		dir = strings.TrimSpace(dir)
		if dir == "" {
			continue
		}
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(root, dir)
		}
		dir = library.Canonical(dir)
		if dir == root || !library.IsUnder(dir, root) {
			logging.WarnWithContext(logger, "ignoring exclude outside library root", "duplicates_exclude_ignored",
				logging.String(logging.FieldPath, dir),
				logging.String(logging.FieldErrorHint, "list directories inside the library, or leave exclude empty"),
				logging.String(logging.FieldImpact, "exclude entry has no effect"),
			)
			continue
		}
		out = append(out, dir)
	}
	return out
}

func (r *Resolver) hashAll(ctx context.Context, logger *slog.Logger, report *Report, tracks []library.Track) ([]hashedTrack, error) {
	hashed := make([]hashedTrack, 0, len(tracks))
	total := len(tracks)
	for i, track := range tracks {
		if err := ctx.Err(); err != nil {
			return hashed, err
		}
		digest, size, err := fileutil.HashFile(track.AbsPath, r.opts.Digest)
		if err != nil {
			r.warn(logger, report, ScanWarning{Path: track.AbsPath, Op: "hash", Err: err})
		} else {
			hashed = append(hashed, hashedTrack{track: track, digest: digest, size: size})
			report.FilesScanned++
		}
		if r.opts.Progress != nil {
			r.opts.Progress(i+1, total)
		}
	}
	return hashed, nil
}

// groupByDigest returns groups with two or more members, ordered by the
// discovery position of each group's first member.
func groupByDigest(hashed []hashedTrack) [][]hashedTrack {
	index := make(map[string]int, len(hashed))
	var all [][]hashedTrack
	for _, h := range hashed {
		pos, ok := index[h.digest]
		if !ok {
			pos = len(all)
			index[h.digest] = pos
			all = append(all, nil)
		}
		all[pos] = append(all[pos], h)
	}
	groups := all[:0]
	for _, g := range all {
		if len(g) >= 2 {
			groups = append(groups, g)
		}
	}
	return groups
}

// recordKeeper selects the group's keeper, appends the group summary and the
// keeper's record, and returns the keeper index.
func (r *Resolver) recordKeeper(report *Report, group []hashedTrack) int {
	candidates := make([]Candidate, len(group))
	for i, h := range group {
		candidates[i] = Candidate{Path: h.track.AbsPath, Name: h.track.Name}
	}
	keeperIdx := SelectKeeper(candidates, r.opts.CopyMarkers)
	keeper := group[keeperIdx]

	summary := Group{Digest: keeper.digest, Size: keeper.size, Keeper: keeper.track.AbsPath}
	for _, h := range group {
		summary.Members = append(summary.Members, h.track.AbsPath)
	}
	report.Groups = append(report.Groups, summary)
	report.Records = append(report.Records, DispositionRecord{
		Path:    keeper.track.AbsPath,
		RelPath: keeper.track.RelPath,
		Digest:  keeper.digest,
		Size:    keeper.size,
		Role:    RoleKept,
	})
	return keeperIdx
}

func (r *Resolver) disposeGroup(ctx context.Context, logger *slog.Logger, report *Report, q *batch, started time.Time, group []hashedTrack) error {
	keeperIdx := r.recordKeeper(report, group)
	keeperPath := group[keeperIdx].track.AbsPath

	for i, h := range group {
		if i == keeperIdx {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rec := DispositionRecord{
			Path:    h.track.AbsPath,
			RelPath: h.track.RelPath,
			Digest:  h.digest,
			Size:    h.size,
			Keeper:  keeperPath,
		}
		dst, err := r.quarantine(q, started, h.track)
		rec.Destination = dst
		switch {
		case err != nil:
			rec.Role = RoleFailed
			rec.Error = err.Error()
			report.Errors = append(report.Errors, MoveError{Path: h.track.AbsPath, Destination: dst, Err: err})
			logging.WarnWithContext(logger, "duplicate left in place", "quarantine_move_failed",
				logging.String(logging.FieldPath, h.track.AbsPath),
				logging.String("destination", dst),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, moveHint(err)),
				logging.String(logging.FieldImpact, "duplicate stays in the library"),
			)
		case r.opts.DryRun:
			rec.Role = RolePlanned
			report.FilesPlanned++
			report.BytesPlanned += h.size
			logger.Debug("duplicate planned", logging.String(logging.FieldPath, h.track.AbsPath), logging.String("destination", dst))
		default:
			rec.Role = RoleMoved
			report.FilesMoved++
			report.BytesReclaimed += h.size
			logger.Debug("duplicate quarantined", logging.String(logging.FieldPath, h.track.AbsPath), logging.String("destination", dst))
		}
		report.Records = append(report.Records, rec)
	}
	return nil
}

// quarantine moves one non-keeper into the batch and returns its destination.
// On failure the destination may be empty when none could be chosen.
func (r *Resolver) quarantine(q *batch, started time.Time, track library.Track) (string, error) {
	if err := q.ensureDir(started); err != nil {
		return "", err
	}
	dst, err := q.destination(track.Name)
	if err != nil {
		return "", err
	}
	if r.opts.DryRun {
		return dst, nil
	}
	if err := fileutil.MoveFile(track.AbsPath, dst); err != nil {
		return dst, err
	}
	return dst, nil
}

func (r *Resolver) failAll(logger *slog.Logger, report *Report, groups [][]hashedTrack, err error) {
	logging.WarnWithContext(logger, "quarantine unavailable; duplicates left in place", "quarantine_unavailable",
		logging.String("trash_root", r.opts.TrashRoot),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check paths.trash_dir exists and is writable"),
		logging.String(logging.FieldImpact, "no duplicates were moved"),
	)
	for _, group := range groups {
		keeperIdx := r.recordKeeper(report, group)
		for i, h := range group {
			if i == keeperIdx {
				continue
			}
			report.Records = append(report.Records, DispositionRecord{
				Path:    h.track.AbsPath,
				RelPath: h.track.RelPath,
				Digest:  h.digest,
				Size:    h.size,
				Role:    RoleFailed,
				Keeper:  group[keeperIdx].track.AbsPath,
				Error:   err.Error(),
			})
			report.Errors = append(report.Errors, MoveError{Path: h.track.AbsPath, Err: err})
		}
	}
}

func (r *Resolver) warn(logger *slog.Logger, report *Report, w ScanWarning) {
	report.Warnings = append(report.Warnings, w)
	logging.WarnWithContext(logger, "file skipped", "scan_warning",
		logging.String(logging.FieldPath, w.Path),
		logging.String("op", w.Op),
		logging.Error(w.Err),
		logging.String(logging.FieldErrorHint, "check file permissions"),
		logging.String(logging.FieldImpact, "file excluded from duplicate detection"),
	)
}

func moveHint(err error) string {
	switch {
	case fileutil.IsCrossDevice(err):
		return "place paths.trash_dir on the same filesystem as the library"
	case errors.Is(err, fileutil.ErrCollisionExhausted):
		return "clear out the quarantine batch or raise duplicates.max_collision_attempts"
	case errors.Is(err, os.ErrPermission):
		return "check write permission on the source folder and trash_dir"
	default:
		return "check file permissions"
	}
}

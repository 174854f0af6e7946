package rename

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"cratekit/internal/fileutil"
	"cratekit/internal/library"
	"cratekit/internal/logging"
	"cratekit/internal/services"
	"cratekit/internal/services/llm"
	"cratekit/internal/tags"
)

const (
	toolName                    = "rename"
	defaultMaxCollisionAttempts = 1000
)

// TagReader reads metadata for one file.
type TagReader interface {
	Read(ctx context.Context, path string) (tags.Tags, error)
}

// Suggester proposes an artist and title when tags are incomplete.
type Suggester interface {
	SuggestTrackName(ctx context.Context, filename, artistHint, titleHint string) (llm.TrackName, error)
}

// Options configures a Renamer.
type Options struct {
	Extensions []string
	Exclude    []string
	// Pattern defaults to DefaultPattern.
	Pattern          string
	TitleCaseAllCaps bool
	// Tags defaults to a tags.Reader without ffprobe fallback.
	Tags TagReader
	// Suggester is optional; nil disables the AI fallback.
	Suggester            Suggester
	MaxCollisionAttempts int
	DryRun               bool
	Logger               *slog.Logger
	Now                  func() time.Time
	NewRunID             func() string
}

// Renamer applies the naming pattern to every audio file under a root.
type Renamer struct {
	opts   Options
	logger *slog.Logger
}

// New constructs a Renamer, filling unset options with defaults.
func New(opts Options) *Renamer {
	if strings.TrimSpace(opts.Pattern) == "" {
		opts.Pattern = DefaultPattern
	}
	if opts.Tags == nil {
		opts.Tags = tags.NewReader(tags.WithLogger(opts.Logger))
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
	return &Renamer{
		opts:   opts,
		logger: logging.NewComponentLogger(opts.Logger, "rename"),
	}
}

// Run renames every audio file under root. Only an invalid root or
// cancellation produce an error; per-file problems become Skipped entries.
func (r *Renamer) Run(ctx context.Context, root string) (*Report, error) {
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

	report := &Report{
		RunID:     runID,
		Root:      absRoot,
		Pattern:   r.opts.Pattern,
		DryRun:    r.opts.DryRun,
		StartedAt: r.opts.Now(),
		Renamed:   []Renamed{},
		Skipped:   []Skipped{},
	}
	logger.Info("rename started",
		logging.String(logging.FieldEventType, "rename_started"),
		logging.String("root", absRoot),
		logging.String("pattern", r.opts.Pattern),
		logging.Bool("ai_fallback", r.opts.Suggester != nil),
		logging.Bool("dry_run", r.opts.DryRun),
	)

	tracks, walkWarnings, err := library.Scan(ctx, absRoot, library.Options{
		Extensions: r.opts.Extensions,
		Exclude:    r.opts.Exclude,
	})
	for _, w := range walkWarnings {
		logging.WarnWithContext(logger, "skipping unreadable path", "rename_walk_warning",
			logging.String(logging.FieldPath, w.Path),
			logging.Error(w.Err),
			logging.String(logging.FieldErrorHint, "check permissions on the directory"),
		)
		report.Skipped = append(report.Skipped, Skipped{Original: w.Path, Reason: fmt.Sprintf("unreadable: %v", w.Err)})
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return r.finish(logger, report, ctxErr)
		}
		return nil, services.Wrap(services.ErrInvalidInput, toolName, "scan root", fmt.Sprintf("cannot read %s", absRoot), err)
	}

	reserved := make(map[string]struct{})
	for _, track := range tracks {
		if err := ctx.Err(); err != nil {
			return r.finish(logger, report, err)
		}
		report.FilesScanned++
		r.renameOne(ctx, logger, report, reserved, track)
	}
	return r.finish(logger, report, nil)
}

func (r *Renamer) finish(logger *slog.Logger, report *Report, err error) (*Report, error) {
	report.FinishedAt = r.opts.Now()
	if err != nil {
		report.Cancelled = true
		logger.Info("rename cancelled",
			logging.String(logging.FieldEventType, "rename_cancelled"),
			logging.Int("renamed", len(report.Renamed)),
		)
		return report, err
	}
	logger.Info("rename complete",
		logging.String(logging.FieldEventType, "rename_complete"),
		logging.Int("files_scanned", report.FilesScanned),
		logging.Int("renamed", len(report.Renamed)),
		logging.Int("renamed_by_ai", report.CountBySource(SourceAI)),
		logging.Int("skipped", len(report.Skipped)),
		logging.Duration("duration", report.Duration()),
	)
	return report, nil
}

func (r *Renamer) renameOne(ctx context.Context, logger *slog.Logger, report *Report, reserved map[string]struct{}, track library.Track) {
	skip := func(reason string) {
		logger.Debug("rename skipped",
			logging.String(logging.FieldPath, track.AbsPath),
			logging.String("reason", reason),
		)
		report.Skipped = append(report.Skipped, Skipped{Original: track.AbsPath, Reason: reason})
	}

	t, err := r.opts.Tags.Read(ctx, track.AbsPath)
	if err != nil {
		logger.Debug("tag read failed", logging.String(logging.FieldPath, track.AbsPath), logging.Error(err))
	}
	artist, title, source := t.Artist, t.Title, SourceTags
	if artist == "" || title == "" {
		if r.opts.Suggester == nil {
			skip(ReasonMissingTags)
			return
		}
		suggestion, err := r.opts.Suggester.SuggestTrackName(ctx, track.Name, artist, title)
		if err != nil {
			logging.WarnWithContext(logger, "ai name suggestion failed", "rename_ai_failed",
				logging.String(logging.FieldPath, track.AbsPath),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check llm.api_key and llm.model, or run cratekit doctor"),
				logging.String(logging.FieldImpact, "file left unrenamed"),
			)
			skip(ReasonMissingTags)
			return
		}
		artist, title, source = suggestion.Artist, suggestion.Title, SourceAI
	}

	fields := fieldsFromTags(t, artist, title, r.opts.TitleCaseAllCaps)
	if fields.Artist == "" || fields.Title == "" {
		skip(ReasonEmptyName)
		return
	}
	stem := Format(r.opts.Pattern, fields)
	if stem == "" {
		skip(ReasonEmptyName)
		return
	}
	ext := filepath.Ext(track.Name)
	currentStem := strings.TrimSuffix(track.Name, ext)
	if strings.EqualFold(currentStem, stem) {
		skip(ReasonAlreadyCorrect)
		return
	}

	dir := filepath.Dir(track.AbsPath)
	exists := func(path string) (bool, error) {
		if _, ok := reserved[path]; ok {
			return true, nil
		}
		return fileutil.PathExists(path)
	}
	var target string
	if source == SourceAI {
		target, err = fileutil.UniquePathFunc(dir, stem+ext, r.opts.MaxCollisionAttempts, exists)
		if err != nil {
			skip(fmt.Sprintf("no free name: %v", err))
			return
		}
	} else {
		target = filepath.Join(dir, stem+ext)
		taken, err := exists(target)
		if err != nil {
			skip(fmt.Sprintf("cannot check target: %v", err))
			return
		}
		if taken {
			skip(ReasonTargetExists)
			return
		}
	}

	if !r.opts.DryRun {
		if err := fileutil.MoveFile(track.AbsPath, target); err != nil {
			logging.WarnWithContext(logger, "rename failed", "rename_failed",
				logging.String(logging.FieldPath, track.AbsPath),
				logging.String("target", target),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check write permissions on the directory"),
			)
			skip(fmt.Sprintf("rename failed: %v", err))
			return
		}
	}
	reserved[target] = struct{}{}

	logger.Info("track renamed",
		logging.String(logging.FieldEventType, "track_renamed"),
		logging.String(logging.FieldPath, track.AbsPath),
		logging.String("target", target),
		logging.String("source", source),
		logging.Bool("dry_run", r.opts.DryRun),
	)
	report.Renamed = append(report.Renamed, Renamed{
		Original: track.AbsPath,
		NewPath:  target,
		Artist:   fields.Artist,
		Title:    fields.Title,
		Source:   source,
	})
}

package transcribe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
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
	"cratekit/internal/services/whisperx"
)

const (
	toolName = "transcribe"
	// TimestampLayout is used in transcript file names.
	TimestampLayout = "2006-01-02_15-04-05"
)

// Transcriber converts one audio file into segments. workDir is scratch
// space owned by the caller.
type Transcriber interface {
	Transcribe(ctx context.Context, source, workDir string) (whisperx.Transcript, error)
}

// Summarizer condenses transcript text.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (string, error)
}

// Options configures a Tool.
type Options struct {
	// OutputDir receives the transcript files. Required.
	OutputDir   string
	Extensions  []string
	Transcriber Transcriber
	// Summarizer is optional.
	Summarizer Summarizer
	Logger     *slog.Logger
	Now        func() time.Time
	NewRunID   func() string
}

// Result describes the outcome for one source file.
type Result struct {
	Source   string  `json:"source"`
	TextPath string  `json:"text_path,omitempty"`
	JSONPath string  `json:"json_path,omitempty"`
	Language string  `json:"language,omitempty"`
	Segments int     `json:"segments"`
	Duration float64 `json:"duration_seconds"`
	Summary  string  `json:"summary,omitempty"`
	Error    string  `json:"error,omitempty"`
}

// Failed reports whether the source could not be transcribed.
func (r Result) Failed() bool { return r.Error != "" }

// Report summarizes one transcription run.
type Report struct {
	RunID      string    `json:"run_id"`
	Target     string    `json:"target"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Cancelled  bool      `json:"cancelled,omitempty"`
	Results    []Result  `json:"results"`
}

// Failures counts results with an error.
func (r *Report) Failures() int {
	n := 0
	for _, res := range r.Results {
		if res.Failed() {
			n++
		}
	}
	return n
}

type document struct {
	Source    string             `json:"source"`
	Language  string             `json:"language"`
	CreatedAt time.Time          `json:"created_at"`
	Segments  []whisperx.Segment `json:"segments"`
	Summary   string             `json:"summary,omitempty"`
}

// Tool transcribes files or directories.
type Tool struct {
	opts   Options
	logger *slog.Logger
}

// New constructs a Tool.
func New(opts Options) *Tool {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewRunID == nil {
		opts.NewRunID = uuid.NewString
	}
	return &Tool{opts: opts, logger: logging.NewComponentLogger(opts.Logger, "transcribe")}
}

// Run transcribes target, which may be a single file or a directory walked
// with the extension allow-list. Per-file failures are recorded in the
// report; only target or configuration problems and cancellation return errors.
func (t *Tool) Run(ctx context.Context, target string) (*Report, error) {
	runID, ok := services.RunIDFromContext(ctx)
	if !ok {
		runID = t.opts.NewRunID()
		ctx = services.WithRunID(ctx, runID)
	}
	ctx = services.WithTool(ctx, toolName)
	logger := logging.WithContext(ctx, t.logger)

	if t.opts.Transcriber == nil {
		return nil, services.Wrap(services.ErrConfiguration, toolName, "validate options", "no transcriber configured", nil)
	}
	if strings.TrimSpace(t.opts.OutputDir) == "" {
		return nil, services.Wrap(services.ErrConfiguration, toolName, "validate options", "paths.transcript_dir is not configured", nil)
	}
	sources, err := t.collect(ctx, logger, target)
	if err != nil {
		return nil, err
	}

	workDir, err := os.MkdirTemp("", "cratekit-transcribe-*")
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, toolName, "prepare", "create work dir", err)
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			logger.Debug("remove work dir failed", logging.Error(err))
		}
	}()

	report := &Report{RunID: runID, Target: target, StartedAt: t.opts.Now(), Results: []Result{}}
	logger.Info("transcription started",
		logging.String(logging.FieldEventType, "transcribe_started"),
		logging.String("target", target),
		logging.Int("files", len(sources)),
		logging.Bool("summarize", t.opts.Summarizer != nil),
	)
	for i, source := range sources {
		if err := ctx.Err(); err != nil {
			return t.finish(logger, report, err)
		}
		res := t.transcribeOne(ctx, logger, source, filepath.Join(workDir, fmt.Sprintf("%03d", i)))
		report.Results = append(report.Results, res)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return t.finish(logger, report, ctxErr)
		}
	}
	return t.finish(logger, report, nil)
}

func (t *Tool) finish(logger *slog.Logger, report *Report, err error) (*Report, error) {
	report.FinishedAt = t.opts.Now()
	if err != nil {
		report.Cancelled = true
		logger.Info("transcription cancelled", logging.String(logging.FieldEventType, "transcribe_cancelled"))
		return report, err
	}
	logger.Info("transcription complete",
		logging.String(logging.FieldEventType, "transcribe_complete"),
		logging.Int("files", len(report.Results)),
		logging.Int("failures", report.Failures()),
		logging.Duration("duration", report.FinishedAt.Sub(report.StartedAt)),
	)
	return report, nil
}

func (t *Tool) collect(ctx context.Context, logger *slog.Logger, target string) ([]string, error) {
	if strings.TrimSpace(target) == "" {
		return nil, services.Wrap(services.ErrInvalidInput, toolName, "validate target", "no file or directory given", nil)
	}
	abs, err := filepath.Abs(target)
	if err != nil {
		return nil, services.Wrap(services.ErrInvalidInput, toolName, "validate target", "resolve path", err)
	}
	info, err := os.Stat(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, services.Wrap(services.ErrNotFound, toolName, "validate target", abs, err)
	}
	if err != nil {
		return nil, services.Wrap(services.ErrInvalidInput, toolName, "validate target", fmt.Sprintf("cannot stat %s", abs), err)
	}
	if !info.IsDir() {
		if !info.Mode().IsRegular() {
			return nil, services.Wrap(services.ErrInvalidInput, toolName, "validate target", fmt.Sprintf("%s is not a regular file", abs), nil)
		}
		return []string{abs}, nil
	}
	tracks, warnings, err := library.Scan(ctx, abs, library.Options{Extensions: t.opts.Extensions})
	for _, w := range warnings {
		logging.WarnWithContext(logger, "skipping unreadable path", "transcribe_walk_warning",
			logging.String(logging.FieldPath, w.Path),
			logging.Error(w.Err),
		)
	}
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, services.Wrap(services.ErrInvalidInput, toolName, "scan target", fmt.Sprintf("cannot read %s", abs), err)
	}
	out := make([]string, 0, len(tracks))
	for _, track := range tracks {
		out = append(out, track.AbsPath)
	}
	return out, nil
}

func (t *Tool) transcribeOne(ctx context.Context, logger *slog.Logger, source, workDir string) Result {
	res := Result{Source: source}
	started := time.Now()
	fail := func(msg string, err error) Result {
		res.Error = err.Error()
		logging.WarnWithContext(logger, msg, "transcribe_failed",
			logging.String(logging.FieldPath, source),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "run cratekit doctor to check ffmpeg and uvx"),
			logging.String(logging.FieldImpact, "no transcript written for this file"),
		)
		return res
	}

	transcript, err := t.opts.Transcriber.Transcribe(ctx, source, workDir)
	if err != nil {
		return fail("transcription failed", err)
	}
	res.Language = transcript.Language
	res.Segments = len(transcript.Segments)
	res.Duration = transcript.Duration()

	if t.opts.Summarizer != nil {
		if text := transcript.Text(); text != "" {
			summary, err := t.opts.Summarizer.Summarize(ctx, text)
			if err != nil {
				logging.WarnWithContext(logger, "summary failed", "transcribe_summary_failed",
					logging.String(logging.FieldPath, source),
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "check llm settings"),
					logging.String(logging.FieldImpact, "transcript written without summary"),
				)
			} else {
				res.Summary = summary
			}
		}
	}

	createdAt := t.opts.Now()
	stem := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	textPath, err := fileutil.UniquePath(t.opts.OutputDir, fmt.Sprintf("%s_%s.txt", stem, createdAt.Format(TimestampLayout)), 1000)
	if err != nil {
		return fail("choose transcript name failed", err)
	}
	textName := filepath.Base(textPath)
	jsonName := strings.TrimSuffix(textName, ".txt") + ".json"

	if err := fileutil.WriteFileAtomic(t.opts.OutputDir, textName, []byte(RenderText(source, transcript, res.Summary))); err != nil {
		return fail("write transcript failed", err)
	}
	doc := document{
		Source:    source,
		Language:  transcript.Language,
		CreatedAt: createdAt,
		Segments:  transcript.Segments,
		Summary:   res.Summary,
	}
	if doc.Segments == nil {
		doc.Segments = []whisperx.Segment{}
	}
	encoded, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fail("encode transcript failed", err)
	}
	if err := fileutil.WriteFileAtomic(t.opts.OutputDir, jsonName, append(encoded, '\n')); err != nil {
		return fail("write transcript failed", err)
	}
	res.TextPath = textPath
	res.JSONPath = filepath.Join(t.opts.OutputDir, jsonName)

	logger.Info("transcript written",
		logging.String(logging.FieldEventType, "transcript_written"),
		logging.String(logging.FieldPath, source),
		logging.String("transcript", res.TextPath),
		logging.String("language", res.Language),
		logging.Int("segments", res.Segments),
		logging.Duration("elapsed", time.Since(started)),
	)
	return res
}

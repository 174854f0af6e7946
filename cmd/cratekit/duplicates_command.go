package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"cratekit/internal/dedupe"
	"cratekit/internal/logging"
	"cratekit/internal/runlog"
)

type duplicatesOptions struct {
	dryRun     bool
	jsonOutput bool
	digest     string
	noProgress bool
}

type duplicatesOutput struct {
	Report *dedupe.Report `json:"report"`
	Logs   runlog.Paths   `json:"logs"`
}

func newDuplicatesCommand(ctx *commandContext) *cobra.Command {
	var opts duplicatesOptions

	cmd := &cobra.Command{
		Use:     "duplicates <folder>",
		Aliases: []string{"dupes"},
		Short:   "Move byte-identical duplicate tracks into the trash",
		Long: "Hashes every audio file under the folder, keeps one file per group of identical\n" +
			"content and moves the others into a timestamped batch inside the trash directory.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDuplicates(cmd, ctx, args[0], opts)
		},
	}
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Report what would move without touching any file")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().StringVar(&opts.digest, "digest", "", "Override duplicates.digest (md5, sha256, murmur3)")
	cmd.Flags().BoolVar(&opts.noProgress, "no-progress", false, "Disable the hashing progress bar")
	return cmd
}

func runDuplicates(cmd *cobra.Command, ctx *commandContext, root string, opts duplicatesOptions) error {
	runCtx, cfg, logger, err := ctx.setup(cmd, "duplicates")
	if err != nil {
		return err
	}

	digest := cfg.Duplicates.Digest
	if opts.digest != "" {
		digest = opts.digest
	}
	var progress func(done, total int)
	if !opts.noProgress && !opts.jsonOutput {
		progress = newProgress(cmd.ErrOrStderr(), "hashing")
	}

	resolver := dedupe.New(dedupe.Options{
		TrashRoot:            cfg.Paths.TrashDir,
		Extensions:           cfg.Library.Extensions,
		Exclude:              []string{cfg.Paths.LogDir, cfg.Paths.TranscriptDir},
		Digest:               digest,
		CopyMarkers:          cfg.Duplicates.CopyMarkers,
		MaxCollisionAttempts: cfg.Duplicates.MaxCollisionAttempts,
		DryRun:               opts.dryRun,
		Progress:             progress,
		Logger:               logger,
	})
	report, resolveErr := resolver.Resolve(runCtx, root)
	if report == nil {
		return resolveErr
	}

	paths, logErr := runlog.WriteDuplicates(cfg.Paths.LogDir, report)
	if logErr != nil {
		logging.ErrorWithContext(logging.WithContext(runCtx, logger), "duplicate log not written", "runlog_write_failed",
			logging.String(logging.FieldPath, cfg.Paths.LogDir),
			logging.Error(logErr),
			logging.String(logging.FieldErrorHint, "check that paths.log_dir is writable"),
		)
	}

	if opts.jsonOutput {
		if err := writeJSON(cmd, duplicatesOutput{Report: report, Logs: paths}); err != nil {
			return err
		}
		return resolveErr
	}

	printDuplicatesSummary(cmd, report, paths)
	if errors.Is(resolveErr, context.Canceled) {
		fmt.Fprintln(cmd.OutOrStdout(), "Scan cancelled; partial results were logged.")
	}
	return resolveErr
}

func printDuplicatesSummary(cmd *cobra.Command, report *dedupe.Report, paths runlog.Paths) {
	out := cmd.OutOrStdout()
	color := shouldColorize(out)
	removals := report.Removals()

	if len(removals) == 0 {
		fmt.Fprintf(out, "No duplicates found among %d file(s) in %s\n", report.FilesScanned, report.Root)
	} else {
		rows := make([][]string, 0, len(removals))
		for i, rec := range removals {
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				relativeTo(report.Root, rec.Path),
				relativeTo(report.Root, rec.Keeper),
				humanize.IBytes(uint64(max(rec.Size, 0))),
				dispositionLabel(color, rec),
			})
		}
		fmt.Fprint(out, renderTable(
			[]string{"#", "Duplicate", "Kept", "Size", "Status"},
			rows,
			[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft},
		))
		fmt.Fprintln(out)
	}

	if report.DryRun {
		fmt.Fprintf(out, "Dry run: %d file(s) would move, %s would be reclaimed\n",
			report.FilesPlanned, humanize.IBytes(uint64(max(report.BytesPlanned, 0))))
	} else {
		fmt.Fprintf(out, "Moved %d file(s), reclaimed %s\n",
			report.FilesMoved, humanize.IBytes(uint64(max(report.BytesReclaimed, 0))))
		if report.QuarantineDir != "" {
			fmt.Fprintf(out, "Trash batch: %s\n", report.QuarantineDir)
		}
	}
	if n := len(report.Warnings); n > 0 {
		fmt.Fprintln(out, colorize(color, ansiYellow, fmt.Sprintf("%d file(s) could not be read", n)))
	}
	if n := len(report.Errors); n > 0 {
		fmt.Fprintln(out, colorize(color, ansiRed, fmt.Sprintf("%d move(s) failed", n)))
	}
	printLogPaths(cmd, paths)
}

func dispositionLabel(color bool, rec dedupe.DispositionRecord) string {
	switch rec.Role {
	case dedupe.RoleMoved:
		return colorize(color, ansiGreen, "moved")
	case dedupe.RoleFailed:
		return colorize(color, ansiRed, "failed")
	case dedupe.RolePlanned:
		return "would move"
	default:
		return string(rec.Role)
	}
}

func printLogPaths(cmd *cobra.Command, paths runlog.Paths) {
	if paths.Text == "" {
		return
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Log: %s\n", paths.Text)
	fmt.Fprintf(out, "JSON: %s\n", paths.JSON)
}

func relativeTo(root, path string) string {
	if path == "" {
		return ""
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}

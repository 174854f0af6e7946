package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"cratekit/internal/logging"
	"cratekit/internal/rename"
	"cratekit/internal/runlog"
)

type renameOptions struct {
	dryRun     bool
	jsonOutput bool
	noAI       bool
}

type renameOutput struct {
	Report *rename.Report `json:"report"`
	Logs   runlog.Paths   `json:"logs"`
}

func newRenameCommand(ctx *commandContext) *cobra.Command {
	var opts renameOptions

	cmd := &cobra.Command{
		Use:   "rename <folder>",
		Short: "Rename audio files to the configured artist/title pattern",
		Long: "Reads artist and title tags from every audio file and renames it using\n" +
			"rename.pattern. Files with incomplete tags are named by the LLM when\n" +
			"rename.ai_fallback is enabled and an API key is configured.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRename(cmd, ctx, args[0], opts)
		},
	}
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Show planned renames without touching any file")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&opts.noAI, "no-ai", false, "Disable the LLM fallback for this run")
	return cmd
}

func runRename(cmd *cobra.Command, ctx *commandContext, root string, opts renameOptions) error {
	runCtx, cfg, logger, err := ctx.setup(cmd, "rename")
	if err != nil {
		return err
	}

	renamerOpts := rename.Options{
		Extensions:           cfg.Library.Extensions,
		Exclude:              []string{cfg.Paths.TrashDir, cfg.Paths.LogDir, cfg.Paths.TranscriptDir},
		Pattern:              cfg.Rename.Pattern,
		TitleCaseAllCaps:     cfg.Rename.TitleCaseAllCaps,
		Tags:                 newTagReader(cfg, logger),
		MaxCollisionAttempts: cfg.Duplicates.MaxCollisionAttempts,
		DryRun:               opts.dryRun,
		Logger:               logger,
	}
	if cfg.Rename.AIFallback && !opts.noAI {
		if client := llmClient(cfg); client != nil {
			renamerOpts.Suggester = client
		}
	}

	report, runErr := rename.New(renamerOpts).Run(runCtx, root)
	if report == nil {
		return runErr
	}

	paths, logErr := runlog.WriteRename(cfg.Paths.LogDir, report)
	if logErr != nil {
		logging.ErrorWithContext(logging.WithContext(runCtx, logger), "rename log not written", "runlog_write_failed",
			logging.String(logging.FieldPath, cfg.Paths.LogDir),
			logging.Error(logErr),
			logging.String(logging.FieldErrorHint, "check that paths.log_dir is writable"),
		)
	}

	if opts.jsonOutput {
		if err := writeJSON(cmd, renameOutput{Report: report, Logs: paths}); err != nil {
			return err
		}
		return runErr
	}

	printRenameSummary(cmd, report, paths)
	return runErr
}

func printRenameSummary(cmd *cobra.Command, report *rename.Report, paths runlog.Paths) {
	out := cmd.OutOrStdout()

	if len(report.Renamed) > 0 {
		rows := make([][]string, 0, len(report.Renamed))
		for i, entry := range report.Renamed {
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				relativeTo(report.Root, entry.Original),
				filepath.Base(entry.NewPath),
				entry.Source,
			})
		}
		fmt.Fprint(out, renderTable(
			[]string{"#", "Original", "New name", "Source"},
			rows,
			[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
		))
		fmt.Fprintln(out)
	}
	if len(report.Skipped) > 0 {
		rows := make([][]string, 0, len(report.Skipped))
		for _, entry := range report.Skipped {
			rows = append(rows, []string{relativeTo(report.Root, entry.Original), entry.Reason})
		}
		fmt.Fprint(out, renderTable([]string{"Skipped", "Reason"}, rows, nil))
		fmt.Fprintln(out)
	}

	verb := "Renamed"
	if report.DryRun {
		verb = "Would rename"
	}
	fmt.Fprintf(out, "%s %d file(s) (%d from tags, %d from AI), skipped %d\n",
		verb,
		len(report.Renamed),
		report.CountBySource(rename.SourceTags),
		report.CountBySource(rename.SourceAI),
		len(report.Skipped),
	)
	printLogPaths(cmd, paths)
}

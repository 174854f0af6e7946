package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"cratekit/internal/config"
	"cratekit/internal/library"
	"cratekit/internal/logging"
	"cratekit/internal/services"
	"cratekit/internal/tags"
)

type inspectRow struct {
	Path  string     `json:"path"`
	Tags  *tags.Tags `json:"tags,omitempty"`
	Error string     `json:"error,omitempty"`
}

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "inspect <folder>",
		Short: "Show artist, title and album tags for every audio file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, ctx, args[0], jsonOutput)
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func runInspect(cmd *cobra.Command, ctx *commandContext, root string, jsonOutput bool) error {
	runCtx, cfg, logger, err := ctx.setup(cmd, "inspect")
	if err != nil {
		return err
	}
	logger = logging.WithContext(runCtx, logger)

	absRoot, err := library.ValidateRoot("inspect", root)
	if err != nil {
		return err
	}
	tracks, warnings, err := library.Scan(runCtx, absRoot, library.Options{Extensions: cfg.Library.Extensions})
	if err != nil && !errors.Is(err, context.Canceled) {
		return services.Wrap(services.ErrInvalidInput, "inspect", "scan", absRoot, err)
	}
	for _, w := range warnings {
		logging.WarnWithContext(logger, "inspect walk warning", "inspect_walk_warning",
			logging.String(logging.FieldPath, w.Path),
			logging.Error(w.Err),
			logging.String(logging.FieldImpact, "directory contents were not inspected"),
		)
	}

	reader := newTagReader(cfg, logger)
	rows := make([]inspectRow, 0, len(tracks))
	for _, track := range tracks {
		if runCtx.Err() != nil {
			break
		}
		row := inspectRow{Path: track.RelPath}
		t, readErr := reader.Read(runCtx, track.AbsPath)
		if readErr != nil {
			row.Error = readErr.Error()
			logger.Debug("tag read failed", logging.String(logging.FieldPath, track.AbsPath), logging.Error(readErr))
		} else {
			row.Tags = &t
		}
		rows = append(rows, row)
	}
	logger.Info("inspect complete",
		logging.String("root", absRoot),
		logging.Int("files", len(rows)),
		logging.String(logging.FieldEventType, "inspect_complete"),
	)

	if jsonOutput {
		if err := writeJSON(cmd, rows); err != nil {
			return err
		}
		return runCtx.Err()
	}

	out := cmd.OutOrStdout()
	if len(rows) == 0 {
		fmt.Fprintf(out, "No audio files found in %s\n", absRoot)
		return runCtx.Err()
	}
	fmt.Fprint(out, renderTable(
		[]string{"File", "Artist", "Title", "Album", "Source"},
		inspectTableRows(rows),
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
	))
	fmt.Fprintf(out, "\n%d file(s) inspected\n", len(rows))
	return runCtx.Err()
}

func inspectTableRows(rows []inspectRow) [][]string {
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		if row.Tags == nil {
			out = append(out, []string{row.Path, "No readable tags found", "", "", ""})
			continue
		}
		out = append(out, []string{
			row.Path,
			placeholder(row.Tags.Artist, "<no artist>"),
			placeholder(row.Tags.Title, "<no title>"),
			row.Tags.Album,
			row.Tags.Source,
		})
	}
	return out
}

func placeholder(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

// newTagReader enables the ffprobe fallback only when the binary is on PATH.
func newTagReader(cfg *config.Config, logger *slog.Logger) *tags.Reader {
	opts := []tags.Option{tags.WithLogger(logger)}
	if _, err := exec.LookPath(cfg.FFprobeBinary()); err == nil {
		opts = append(opts, tags.WithFFprobeBinary(cfg.FFprobeBinary()))
	}
	return tags.NewReader(opts...)
}

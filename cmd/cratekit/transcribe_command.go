package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"cratekit/internal/deps"
	"cratekit/internal/logging"
	"cratekit/internal/preflight"
	"cratekit/internal/services"
	"cratekit/internal/services/whisperx"
	"cratekit/internal/transcribe"
)

type transcribeOptions struct {
	summarize  bool
	jsonOutput bool
}

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var opts transcribeOptions

	cmd := &cobra.Command{
		Use:   "transcribe <file|folder>",
		Short: "Transcribe recordings with WhisperX",
		Long: "Extracts mono 16 kHz audio with ffmpeg, runs WhisperX through uvx and writes a\n" +
			"timestamped text transcript plus a JSON copy into paths.transcript_dir.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranscribe(cmd, ctx, args[0], opts)
		},
	}
	cmd.Flags().BoolVar(&opts.summarize, "summarize", false, "Add an LLM summary to each transcript")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func runTranscribe(cmd *cobra.Command, ctx *commandContext, target string, opts transcribeOptions) error {
	runCtx, cfg, logger, err := ctx.setup(cmd, "transcribe")
	if err != nil {
		return err
	}
	if err := deps.Require(preflight.TranscriptionRequirements(cfg)...); err != nil {
		return services.Wrap(services.ErrExternalTool, "transcribe", "check dependencies", "", err)
	}

	service := whisperx.NewService(whisperx.Config{
		Model:       cfg.Transcription.Model,
		CUDAEnabled: cfg.Transcription.CUDAEnabled,
		VADMethod:   cfg.Transcription.VADMethod,
		HFToken:     cfg.Transcription.HFToken,
		Language:    cfg.Transcription.Language,
	}, cfg.FFmpegBinary())
	logger.Debug("whisperx configured",
		logging.String("model", service.Model()),
		logging.Bool("cuda", service.CUDAEnabled()),
		logging.String("vad_method", cfg.Transcription.VADMethod),
	)

	toolOpts := transcribe.Options{
		OutputDir:   cfg.Paths.TranscriptDir,
		Extensions:  cfg.Library.Extensions,
		Transcriber: service,
		Logger:      logger,
	}
	if opts.summarize || cfg.Transcription.Summarize {
		if client := llmClient(cfg); client != nil {
			toolOpts.Summarizer = client
		} else {
			fmt.Fprintln(cmd.ErrOrStderr(), "LLM not configured; transcripts will not be summarized")
		}
	}

	report, runErr := transcribe.New(toolOpts).Run(runCtx, target)
	if report == nil {
		return runErr
	}
	if opts.jsonOutput {
		if err := writeJSON(cmd, report); err != nil {
			return err
		}
		return runErr
	}

	printTranscribeSummary(cmd, report)
	if runErr != nil {
		return runErr
	}
	if n := report.Failures(); n > 0 && n == len(report.Results) {
		return services.Wrap(services.ErrExternalTool, "transcribe", "run", fmt.Sprintf("%d file(s) failed", n), nil)
	}
	return nil
}

func printTranscribeSummary(cmd *cobra.Command, report *transcribe.Report) {
	out := cmd.OutOrStdout()
	if len(report.Results) == 0 {
		fmt.Fprintf(out, "No audio files found in %s\n", report.Target)
		return
	}
	color := shouldColorize(out)
	rows := make([][]string, 0, len(report.Results))
	for _, res := range report.Results {
		if res.Failed() {
			rows = append(rows, []string{res.Source, "", "", colorize(color, ansiRed, res.Error)})
			continue
		}
		rows = append(rows, []string{
			res.Source,
			res.Language,
			strconv.Itoa(res.Segments),
			res.TextPath,
		})
	}
	fmt.Fprint(out, renderTable(
		[]string{"Source", "Language", "Segments", "Transcript"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
	))
	fmt.Fprintf(out, "\nTranscribed %d of %d file(s)\n", len(report.Results)-report.Failures(), len(report.Results))
}

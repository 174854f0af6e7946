package preflight

import (
	"context"

	"cratekit/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the directory and LLM checks for the given config. Binary
// checks are reported separately by CheckSystemDeps.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Trash directory", cfg.Paths.TrashDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckDirectoryAccess("Transcript directory", cfg.Paths.TranscriptDir),
	}

	if cfg.LLMConfigured() {
		results = append(results, CheckLLM(ctx, "LLM", cfg.GetLLM()))
	} else {
		results = append(results, Result{Name: "LLM", Passed: true, Detail: "Not configured (AI rename and summaries disabled)"})
	}
	return results
}

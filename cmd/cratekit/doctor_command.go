package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cratekit/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check directories, external binaries and the LLM connection",
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx, cfg, _, err := ctx.setup(cmd, "doctor")
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			color := shouldColorize(out)

			issues := 0
			rows := make([][]string, 0, 8)
			for _, res := range preflight.RunAll(runCtx, cfg) {
				status := colorize(color, ansiGreen, "OK")
				if !res.Passed {
					status = colorize(color, ansiRed, "FAIL")
					issues++
				}
				rows = append(rows, []string{res.Name, status, res.Detail})
			}
			for _, dep := range preflight.CheckSystemDeps(cfg) {
				status := colorize(color, ansiGreen, "OK")
				detail := dep.Path
				switch {
				case dep.Available:
				case dep.Optional:
					status = colorize(color, ansiYellow, "MISSING")
					detail = dep.Detail
				default:
					status = colorize(color, ansiRed, "MISSING")
					detail = dep.Detail
					issues++
				}
				rows = append(rows, []string{dep.Name, status, detail})
			}

			fmt.Fprint(out, renderTable([]string{"Check", "Status", "Detail"}, rows, nil))
			fmt.Fprintln(out)
			fmt.Fprintf(out, "Config: %s\n", displayConfigPath(ctx.configPath, ctx.configExists))
			if issues == 0 {
				fmt.Fprintln(out, colorize(color, ansiGreen, "All checks passed"))
			} else {
				fmt.Fprintln(out, colorize(color, ansiYellow, fmt.Sprintf("%d issue(s) found", issues)))
			}
			return nil
		},
	}
}

func displayConfigPath(path string, exists bool) string {
	if path == "" || !exists {
		return "(defaults)"
	}
	return path
}

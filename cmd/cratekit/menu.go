package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

type menuItem struct {
	label string
	run   func(cmd *cobra.Command, ctx *commandContext, in *bufio.Reader) error
}

var menuItems = []menuItem{
	{label: "Inspect Tags", run: func(cmd *cobra.Command, ctx *commandContext, in *bufio.Reader) error {
		folder, err := promptLine(cmd, in, "Folder path: ")
		if err != nil {
			return err
		}
		return runInspect(cmd, ctx, folder, false)
	}},
	{label: "Detect Duplicates", run: func(cmd *cobra.Command, ctx *commandContext, in *bufio.Reader) error {
		folder, err := promptLine(cmd, in, "Folder path: ")
		if err != nil {
			return err
		}
		return runDuplicates(cmd, ctx, folder, duplicatesOptions{})
	}},
	{label: "Rename Tracks", run: func(cmd *cobra.Command, ctx *commandContext, in *bufio.Reader) error {
		folder, err := promptLine(cmd, in, "Folder path: ")
		if err != nil {
			return err
		}
		dryRun, err := promptYesNo(cmd, in, "Dry run? [y/N]: ")
		if err != nil {
			return err
		}
		return runRename(cmd, ctx, folder, renameOptions{dryRun: dryRun})
	}},
	{label: "Transcribe Audio", run: func(cmd *cobra.Command, ctx *commandContext, in *bufio.Reader) error {
		target, err := promptLine(cmd, in, "File or folder path: ")
		if err != nil {
			return err
		}
		return runTranscribe(cmd, ctx, target, transcribeOptions{})
	}},
}

func newMenuCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Open the interactive menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMenu(cmd, ctx)
		},
	}
}

// runMenu loops until the user picks Exit or stdin is closed. Tool errors are
// printed and the menu is shown again.
func runMenu(cmd *cobra.Command, ctx *commandContext) error {
	in := bufio.NewReader(cmd.InOrStdin())
	out := cmd.OutOrStdout()
	exitChoice := len(menuItems) + 1

	for {
		if err := commandErr(cmd); err != nil {
			return err
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, "cratekit")
		for i, item := range menuItems {
			fmt.Fprintf(out, "  %d) %s\n", i+1, item.label)
		}
		fmt.Fprintf(out, "  %d) Exit\n", exitChoice)

		choice, err := promptLine(cmd, in, "Select an option: ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		index, ok := parseChoice(choice, exitChoice)
		if !ok {
			fmt.Fprintln(out, "Invalid choice")
			continue
		}
		if index == exitChoice {
			return nil
		}

		err = menuItems[index-1].run(cmd, ctx, in)
		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, context.Canceled):
			return err
		default:
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
	}
}

func parseChoice(value string, maxChoice int) (int, bool) {
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 || n > maxChoice {
		return 0, false
	}
	return n, true
}

// promptLine returns io.EOF only when no input remains at all.
func promptLine(cmd *cobra.Command, in *bufio.Reader, prompt string) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	line, err := in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(cmd.OutOrStdout())
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func promptYesNo(cmd *cobra.Command, in *bufio.Reader, prompt string) (bool, error) {
	answer, err := promptLine(cmd, in, prompt)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func commandErr(cmd *cobra.Command) error {
	if ctx := cmd.Context(); ctx != nil {
		return ctx.Err()
	}
	return nil
}

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/handiism/outfiles/internal/errors"
	"github.com/handiism/outfiles/internal/project"
	"github.com/handiism/outfiles/internal/report"
	"github.com/handiism/outfiles/internal/tui"
)

var (
	initContinue bool   // Keep going after a failing file
	initFormat   string // Report format
)

// newInitCmd creates the init command.
//
// # Description
//
// Runs the batch over every configured file. When the Panic policy refuses
// an existing file and both stdin and stdout are terminals, the collision
// prompt is opened so the user can pick another policy; the batch is then
// retried with fresh descriptors.
//
// # Exit Codes
//
//	0 - Success
//	1 - Initialization failed
//	2 - Existing output files and the Panic policy
func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the configured output files",
		Args:  cobra.NoArgs,
		RunE:  runInitCommand,
	}

	cmd.Flags().BoolVar(&initContinue, "continue-on-error", false,
		"Process every file and report all errors")
	cmd.Flags().StringVar(&initFormat, "format", "text",
		"Report format: text, json or yaml")
	return cmd
}

func runInitCommand(cmd *cobra.Command, args []string) error {
	format, err := report.ParseFormat(initFormat)
	if err != nil {
		return err
	}
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	opts := []project.Option{project.WithLogger(slog.Default())}
	if initContinue {
		opts = append(opts, project.WithFailureMode(project.ContinueOnError))
	}
	if verbose {
		opts = append(opts, project.WithProgress(func(e project.ProgressEvent) {
			fmt.Fprintln(cmd.ErrOrStderr(), e.Message)
		}))
	}

	mgr, err := settings.ToManager(opts...)
	if err != nil {
		return err
	}
	rep, runErr := mgr.Run(settings.ToFiles()...)

	if errors.KindOf(runErr) == errors.KindCollision && format == report.FormatText && interactive() {
		var e *errors.Error
		errors.As(runErr, &e)

		res, err := tui.Run(settings,
			tui.WithCollision(e.Path),
			tui.WithVerbose(verbose),
			tui.WithManagerOptions(opts...))
		if err != nil {
			return err
		}
		if !res.Aborted && res.Report != nil {
			rep, runErr = res.Report, res.Err
		}
	}

	styled := format == report.FormatText && isatty.IsTerminal(os.Stdout.Fd())
	if err := report.NewRenderer(format, styled).Write(cmd.OutOrStdout(), rep); err != nil {
		return err
	}
	return runErr
}

// interactive reports whether a user can answer the collision prompt.
func interactive() bool {
	tty := func(fd uintptr) bool {
		return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}
	return tty(os.Stdin.Fd()) && tty(os.Stdout.Fd())
}

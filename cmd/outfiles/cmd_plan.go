package main

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/handiism/outfiles/internal/report"
)

var planFormat string

// newPlanCmd creates the plan command, which resolves every configured file
// and reports what init would do without touching the filesystem.
func newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show what init would do",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := report.ParseFormat(planFormat)
			if err != nil {
				return err
			}
			settings, err := loadSettings()
			if err != nil {
				return err
			}
			mgr, err := settings.ToManager()
			if err != nil {
				return err
			}

			rep := mgr.Plan(settings.ToFiles()...)
			styled := format == report.FormatText && isatty.IsTerminal(os.Stdout.Fd())
			return report.NewRenderer(format, styled).Write(cmd.OutOrStdout(), rep)
		},
	}

	cmd.Flags().StringVar(&planFormat, "format", "text",
		"Report format: text, json or yaml")
	return cmd
}

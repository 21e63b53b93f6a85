package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/handiism/outfiles/internal/project"
	"github.com/handiism/outfiles/internal/tui"
)

// newTUICmd creates the tui command.
func newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Review and initialize output files interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings()
			if err != nil {
				return err
			}

			res, err := tui.Run(settings,
				tui.WithVerbose(verbose),
				tui.WithManagerOptions(project.WithLogger(slog.Default())))
			if err != nil {
				return err
			}
			return res.Err
		},
	}
}

// Command outfiles prepares the output files of a project before a run.
//
// Output files are described in a TOML, JSON or YAML config file. The
// project table names the root directory, the default extension and what to
// do when a file already exists; every entry of the files table names one
// output file or numbered series.
//
// # Examples
//
//	outfiles plan -c outfiles.toml                 # Show what init would do
//	outfiles init -c outfiles.toml                 # Create the output files
//	outfiles init -c outfiles.toml --policy Archive
//	outfiles init -c outfiles.toml --format json   # Report for scripting
//	outfiles tui -c outfiles.toml                  # Interactive mode
//
// # Exit Codes
//
//	0 - Success
//	1 - Initialization failed
//	2 - Existing output files and the Panic policy
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/handiism/outfiles/internal/errors"
)

// Flags shared by every subcommand.
var (
	configPath string // Path to the config file
	rootFlag   string // Overrides project.path
	policyFlag string // Overrides project.overwrite_type
	verbose    bool   // Debug logging and verbose progress
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "outfiles",
		Short: "Prepare project output files",
		Long: `Prepare the output files of a project before a run.

Each configured file is created (with its header line) under the project
root. Files that already exist are handled by the overwrite policy:
  Panic      refuse and stop
  Archive    copy into <root>/archive/, then truncate
  Overwrite  truncate in place
  Ignore     leave untouched`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "outfiles.toml",
		"Path to the config file (.toml, .json, .yaml)")
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", "",
		"Project root directory (overrides project.path)")
	rootCmd.PersistentFlags().StringVar(&policyFlag, "policy", "",
		"Overwrite policy: Panic, Archive, Overwrite or Ignore")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Show debug logs and verbose progress")

	rootCmd.AddCommand(newInitCmd(), newPlanCmd(), newTUICmd())
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	if errors.KindOf(err) == errors.KindCollision {
		return 2
	}
	return 1
}

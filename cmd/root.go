package cmd

import (
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var (
	configPath string
	tokenFlag  string
	dryRun     bool
	verbose    bool
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var rootCmd = &cobra.Command{
	Use:   "autocontrib",
	Short: "Contributor workflow automation for hosted projects",
	Long: `A CLI that automates the contributor workflow of a hosted project
and audits repositories for documentation drift.

Local mode drives the day-to-day loop on your checkout:
- start a feature branch off the upstream default branch
- rebase onto upstream with an automatic backup ref before the rewrite
- push to your fork and open the pull request

Batch mode (audit) discovers repositories from configured providers and
runs audit tasks, such as keeping the API reference index in sync with
the public symbols defined in the source tree.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"Path to config file (default: auto-detect)")
	rootCmd.PersistentFlags().StringVar(&tokenFlag, "token", "",
		"Auth token for the Git provider (overrides env var detection)")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false,
		"Show what would be done without making changes")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output")
}

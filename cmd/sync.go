package cmd

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var syncCmd = &cobra.Command{
	Use:   "sync [path]",
	Short: "Rebase the current feature branch onto upstream",
	Long: `Fetch the upstream remote and rebase the current feature branch onto
the upstream default branch.

Before the rewrite, HEAD is recorded under a backup ref
(e.g. backup/feat-widgets-20260830-120000) so the previous line of
history stays recoverable. A failed rebase is aborted automatically and
the backup ref is reported.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSync,
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(_ *cobra.Command, args []string) error {
	ctx := context.Background()

	svc, _, err := buildWorkflowService(repoDirFromArgs(args))
	if err != nil {
		return err
	}

	result, err := svc.Sync(ctx)
	if err != nil {
		return err
	}

	logger.Infof(
		"Branch %q is now %d ahead, %d behind upstream (backup: %s)",
		result.Branch, result.Ahead, result.Behind, result.BackupRef,
	)
	return nil
}

package cmd

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var featureCmd = &cobra.Command{
	Use:   "feature <name> [path]",
	Short: "Start a feature branch off the upstream default branch",
	Long: `Fetch the upstream remote and create a feature branch starting at
the upstream default branch. The branch prefix comes from the workflow
policy (default "feat/"). The working tree must be clean.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runFeature,
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	rootCmd.AddCommand(featureCmd)
}

func runFeature(_ *cobra.Command, args []string) error {
	ctx := context.Background()

	svc, _, err := buildWorkflowService(repoDirFromArgs(args[1:]))
	if err != nil {
		return err
	}

	branch, err := svc.StartFeature(ctx, args[0])
	if err != nil {
		return err
	}

	logger.Infof("Switched to new branch %q", branch)
	return nil
}

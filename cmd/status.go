package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var statusCmd = &cobra.Command{
	Use:   "status [path]",
	Short: "Show the checkout's state relative to upstream",
	Long: `Fetch the upstream remote and report the current branch, whether the
working tree is clean, how far the branch has diverged from the upstream
default branch, and the latest upstream release tag.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStatus,
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(_ *cobra.Command, args []string) error {
	ctx := context.Background()

	svc, ws, err := buildWorkflowService(repoDirFromArgs(args))
	if err != nil {
		return err
	}

	wf := workflowConfig()
	status, err := svc.Status(ctx, resolveToken(ws, wf.UpstreamRemote))
	if err != nil {
		return err
	}

	state := "clean"
	if !status.Clean {
		state = "dirty"
	}

	fmt.Printf("Branch:    %s (%s)\n", status.Branch, state)
	fmt.Printf("Upstream:  %s (%d ahead, %d behind)\n",
		status.UpstreamRef, status.Ahead, status.Behind)
	if status.LatestRelease != "" {
		fmt.Printf("Release:   %s\n", status.LatestRelease)
	}

	return nil
}

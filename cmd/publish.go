package cmd

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/autocontrib/infrastructure/workspace"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var (
	prTitle string
	prBody  string
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var publishCmd = &cobra.Command{
	Use:   "publish [path]",
	Short: "Push the current branch and open a pull request",
	Long: `Push the current feature branch to the origin remote (your fork) and
open a pull request against the upstream default branch.

The hosting provider is detected from the upstream remote URL. When the
fork owner differs from the upstream organization, the PR head is
qualified as "owner:branch".`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPublish,
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	publishCmd.Flags().StringVar(&prTitle, "title", "", "Pull request title (default: branch name)")
	publishCmd.Flags().StringVar(&prBody, "body", "", "Pull request description")
	rootCmd.AddCommand(publishCmd)
}

func runPublish(_ *cobra.Command, args []string) error {
	ctx := context.Background()

	svc, ws, err := buildWorkflowService(repoDirFromArgs(args))
	if err != nil {
		return err
	}

	wf := workflowConfig()
	token := resolveToken(ws, wf.UpstreamRemote)
	if token == "" {
		hint := "<unknown provider>"
		if url, urlErr := ws.RemoteURL(wf.UpstreamRemote); urlErr == nil {
			if info, parseErr := workspace.ParseRemoteURL(url); parseErr == nil {
				hint = tokenEnvHint(info.ProviderType)
			}
		}
		return fmt.Errorf(
			"no auth token found; set --token or the appropriate env var (%s)",
			hint,
		)
	}

	pr, err := svc.Publish(ctx, token, prTitle, prBody)
	if err != nil {
		return err
	}

	logger.Infof("Created PR #%d: %s", pr.ID, pr.URL)
	return nil
}

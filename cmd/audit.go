package cmd

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/autocontrib/application"
	"github.com/rios0rios0/autocontrib/config"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var (
	providerFilter string
	orgOverride    string
	taskFilter     string
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Run the documentation audit engine",
	Long: `Discover repositories, audit them for documentation drift,
and create Pull Requests with the fixes.

This is the batch command intended to be used in a cronjob.
It reads the configuration file, discovers repositories from
each configured provider and organization, then runs all
enabled audit tasks against each repository.`,
	RunE: runAudit,
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	auditCmd.Flags().StringVar(
		&providerFilter, "provider", "",
		"Only process this provider (github, gitlab)",
	)
	auditCmd.Flags().StringVar(
		&orgOverride, "org", "",
		"Only process this organization/group",
	)
	auditCmd.Flags().StringVar(
		&taskFilter, "task", "",
		"Only run this task (docsindex, doccoverage)",
	)
	rootCmd.AddCommand(auditCmd)
}

func runAudit(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfgPath := configPath
	if cfgPath == "" {
		var err error
		cfgPath, err = config.FindConfigFile()
		if err != nil {
			return fmt.Errorf(
				"no config file found: %w\nSpecify one with --config or create autocontrib.yaml",
				err,
			)
		}
	}

	logger.Infof("Using config file: %s", cfgPath)

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	svc, err := buildAuditService(cfg)
	if err != nil {
		return fmt.Errorf("failed to wire audit service: %w", err)
	}

	logger.Info("Starting audit run...")

	return svc.Run(ctx, cfg, application.AuditOptions{
		DryRun:       dryRun,
		Verbose:      verbose,
		ProviderName: providerFilter,
		OrgOverride:  orgOverride,
		TaskName:     taskFilter,
	})
}

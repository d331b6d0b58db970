package application

import (
	"context"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/autocontrib/config"
	"github.com/rios0rios0/autocontrib/domain"
	providerPkg "github.com/rios0rios0/autocontrib/infrastructure/provider"
	taskPkg "github.com/rios0rios0/autocontrib/infrastructure/task"
)

// AuditService orchestrates the full batch audit flow:
// discover repositories -> detect applicable tasks -> run them.
type AuditService struct {
	providerRegistry *providerPkg.Registry
	taskRegistry     *taskPkg.Registry
}

// NewAuditService creates a new service with the given registries.
func NewAuditService(
	providerRegistry *providerPkg.Registry,
	taskRegistry *taskPkg.Registry,
) *AuditService {
	return &AuditService{
		providerRegistry: providerRegistry,
		taskRegistry:     taskRegistry,
	}
}

// AuditOptions holds runtime options for a single audit run.
type AuditOptions struct {
	DryRun       bool
	Verbose      bool
	ProviderName string // If set, only process this provider (CLI override)
	OrgOverride  string // If set, only process this org (CLI override)
	TaskName     string // If set, only run this task (CLI override)
}

// Run executes the full audit cycle using the provided configuration.
func (s *AuditService) Run(
	ctx context.Context,
	cfg *config.Config,
	runOpts AuditOptions,
) error {
	if runOpts.Verbose {
		logger.SetLevel(logger.DebugLevel)
	}

	totalPRs := 0
	totalRepos := 0
	totalErrors := 0

	for _, provCfg := range cfg.Providers {
		// Skip if CLI filter is set and doesn't match
		if runOpts.ProviderName != "" && provCfg.Type != runOpts.ProviderName {
			continue
		}

		provider, err := s.providerRegistry.Get(provCfg.Type, provCfg.Token)
		if err != nil {
			logger.Errorf("Failed to initialize provider %q: %v", provCfg.Type, err)
			totalErrors++
			continue
		}

		logger.Infof("Processing provider: %s", provider.Name())

		for _, org := range provCfg.Organizations {
			// Skip if CLI filter is set and doesn't match
			if runOpts.OrgOverride != "" && org != runOpts.OrgOverride {
				continue
			}

			logger.Infof("Discovering repositories in %q...", org)

			repos, discoverErr := provider.DiscoverRepositories(ctx, org)
			if discoverErr != nil {
				logger.Errorf("Failed to discover repos in %q: %v", org, discoverErr)
				totalErrors++
				continue
			}

			logger.Infof("Found %d repositories in %q", len(repos), org)

			for _, repo := range repos {
				totalRepos++
				prs, errs := s.auditRepository(ctx, provider, repo, cfg, runOpts)
				totalPRs += len(prs)
				totalErrors += errs
			}
		}
	}

	logger.Infof(
		"Audit complete: %d repos processed, %d PRs created, %d errors",
		totalRepos, totalPRs, totalErrors,
	)
	return nil
}

// auditRepository runs all applicable tasks on a single repository.
func (s *AuditService) auditRepository(
	ctx context.Context,
	provider domain.Provider,
	repo domain.Repository,
	cfg *config.Config,
	runOpts AuditOptions,
) ([]domain.PullRequest, int) {
	var allPRs []domain.PullRequest
	errorCount := 0

	tasks := s.taskRegistry.All()
	for _, t := range tasks {
		// Skip if CLI filter is set and doesn't match
		if runOpts.TaskName != "" && t.Name() != runOpts.TaskName {
			continue
		}

		// Skip if disabled in config
		if taskCfg, ok := cfg.Tasks[t.Name()]; ok {
			if !taskCfg.Enabled {
				continue
			}
		}

		// Detect if this task applies to the repo
		if !t.Detect(ctx, provider, repo) {
			continue
		}

		logger.Infof("[%s] Detected in %s/%s", t.Name(), repo.Organization, repo.Name)

		// Build task options
		opts := domain.TaskOptions{
			DryRun:  runOpts.DryRun,
			Verbose: runOpts.Verbose,
		}

		if taskCfg, ok := cfg.Tasks[t.Name()]; ok {
			opts.IndexPath = taskCfg.IndexPath
			opts.SourceRoot = taskCfg.SourceRoot
			if taskCfg.TargetBranch != "" {
				opts.TargetBranch = taskCfg.TargetBranch
			}
		}

		prs, err := t.Run(ctx, provider, repo, opts)
		if err != nil {
			logger.Errorf(
				"[%s] Failed to audit %s/%s: %v",
				t.Name(), repo.Organization, repo.Name, err,
			)
			errorCount++
			continue
		}

		for _, pr := range prs {
			logger.Infof("  Created PR #%d: %s (%s)", pr.ID, pr.Title, pr.URL)
		}
		allPRs = append(allPRs, prs...)
	}

	return allPRs, errorCount
}

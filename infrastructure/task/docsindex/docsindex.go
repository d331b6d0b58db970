// Package docsindex keeps a project's API reference index in sync with the
// public symbols its source tree actually defines. Everything happens
// through the provider API; no local clone is required.
package docsindex

import (
	"context"
	"fmt"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/autocontrib/domain"
)

const (
	taskName         = "docsindex"
	defaultIndexPath = "docs/reference/index.rst"
	branchName       = "docs/sync-reference-index"
)

// Task implements domain.Task for reference index drift.
type Task struct {
	indexPath string
}

// New creates the docsindex task. An empty indexPath selects the
// conventional location.
func New(indexPath string) domain.Task {
	if indexPath == "" {
		indexPath = defaultIndexPath
	}
	return &Task{indexPath: indexPath}
}

func (t *Task) Name() string { return taskName }

// Detect returns true if the repository carries a reference index.
func (t *Task) Detect(
	ctx context.Context,
	provider domain.Provider,
	repo domain.Repository,
) bool {
	return provider.HasFile(ctx, repo, t.indexPath)
}

// Run compares the reference index against the source tree and opens a PR
// updating the index when the two have drifted apart.
func (t *Task) Run(
	ctx context.Context,
	provider domain.Provider,
	repo domain.Repository,
	opts domain.TaskOptions,
) ([]domain.PullRequest, error) {
	indexPath := t.indexPath
	if opts.IndexPath != "" {
		indexPath = opts.IndexPath
	}

	logger.Infof(
		"[docsindex] Auditing %s/%s against %s",
		repo.Organization, repo.Name, indexPath,
	)

	report, content, err := t.buildReport(ctx, provider, repo, indexPath, opts.SourceRoot)
	if err != nil {
		return nil, err
	}

	if report.InSync() {
		logger.Infof(
			"[docsindex] %s/%s: reference index is in sync (%d entries)",
			repo.Organization, repo.Name, len(report.Entries),
		)
		return []domain.PullRequest{}, nil
	}

	logger.Infof(
		"[docsindex] %s/%s: %d missing, %d stale",
		repo.Organization, repo.Name, len(report.Missing), len(report.Stale),
	)

	if opts.DryRun {
		for _, s := range report.Missing {
			logger.Infof("[docsindex] [DRY RUN] Would list %s (%s)", s.Qualified(), s.Kind)
		}
		for _, e := range report.Stale {
			logger.Infof("[docsindex] [DRY RUN] Would drop %s (line %d)", e.Qualified(), e.Line)
		}
		return []domain.PullRequest{}, nil
	}

	return t.openPullRequest(ctx, provider, repo, opts, report, content, indexPath)
}

// BuildLocalReport audits index content against already-scanned symbols.
// Shared with the local `index` command, which reads from disk instead of
// the provider API. sourceRoot must be the root the symbols were scanned
// under, empty when the whole tree was scanned.
func BuildLocalReport(
	indexPath, content string,
	symbols []domain.SymbolDef,
	sourceRoot string,
) domain.IndexReport {
	return buildReportFromParts(indexPath, content, symbols, sourceRoot)
}

// buildReport reads the index and every Python source through the
// provider, then diffs the two.
func (t *Task) buildReport(
	ctx context.Context,
	provider domain.Provider,
	repo domain.Repository,
	indexPath, sourceRoot string,
) (domain.IndexReport, string, error) {
	content, err := provider.GetFileContent(ctx, repo, indexPath)
	if err != nil {
		return domain.IndexReport{}, "", fmt.Errorf("failed to read reference index: %w", err)
	}

	pyFiles, err := provider.ListFiles(ctx, repo, ".py")
	if err != nil {
		return domain.IndexReport{}, "", fmt.Errorf("failed to list Python sources: %w", err)
	}

	var symbols []domain.SymbolDef
	for _, f := range pyFiles {
		if f.IsDir || IsTestFile(f.Path) {
			continue
		}
		if sourceRoot != "" && !strings.HasPrefix(f.Path, sourceRoot) {
			continue
		}

		src, srcErr := provider.GetFileContent(ctx, repo, f.Path)
		if srcErr != nil {
			logger.Warnf("[docsindex] Failed to read %s: %v", f.Path, srcErr)
			continue
		}
		symbols = append(symbols, ScanPythonSource(src, f.Path, sourceRoot)...)
	}

	return buildReportFromParts(indexPath, content, symbols, sourceRoot), content, nil
}

// buildReportFromParts computes the drift between index entries and source
// symbols. Only modules the index declares blocks for are considered, so
// internal helpers in undocumented modules don't flood the report. With a
// source root set the scan never saw modules outside it, so staleness is
// only decided for modules that were actually scanned.
func buildReportFromParts(
	indexPath, content string,
	symbols []domain.SymbolDef,
	sourceRoot string,
) domain.IndexReport {
	entries := ParseIndex(content)
	modules := IndexModules(content)

	listed := make(map[string]bool, len(entries))
	for _, e := range entries {
		listed[e.Qualified()] = true
	}

	defined := make(map[string]bool, len(symbols))
	scanned := make(map[string]bool, len(symbols))
	var missing []domain.SymbolDef
	for _, s := range symbols {
		defined[s.Qualified()] = true
		scanned[s.Module] = true
		if modules[s.Module] && !listed[s.Qualified()] {
			missing = append(missing, s)
		}
	}

	var stale []domain.IndexEntry
	for _, e := range entries {
		if sourceRoot != "" && !scanned[e.Module] {
			continue
		}
		if !defined[e.Qualified()] {
			stale = append(stale, e)
		}
	}

	return domain.IndexReport{
		IndexPath: indexPath,
		Entries:   entries,
		Missing:   missing,
		Stale:     stale,
	}
}

// openPullRequest commits the regenerated index on a new branch and opens
// the PR, unless one is already open for the branch.
func (t *Task) openPullRequest(
	ctx context.Context,
	provider domain.Provider,
	repo domain.Repository,
	opts domain.TaskOptions,
	report domain.IndexReport,
	content, indexPath string,
) ([]domain.PullRequest, error) {
	exists, checkErr := provider.PullRequestExists(ctx, repo, branchName)
	if checkErr != nil {
		logger.Warnf("[docsindex] Failed to check existing PRs: %v", checkErr)
	}
	if exists {
		logger.Infof(
			"[docsindex] PR already exists for branch %q, skipping",
			branchName,
		)
		return []domain.PullRequest{}, nil
	}

	newContent, changed := RenderIndex(content, report)
	if !changed {
		// Drift exists but no block accepts the missing symbols; surface it
		// without opening an empty PR.
		logger.Warnf(
			"[docsindex] %s/%s: drift found but index has no matching blocks to edit",
			repo.Organization, repo.Name,
		)
		return []domain.PullRequest{}, nil
	}

	changes := []domain.FileChange{
		{Path: indexPath, Content: newContent, ChangeType: "edit"},
	}
	if changelog, ok := t.prepareChangelog(ctx, provider, repo, report); ok {
		changes = append(changes, changelog)
	}

	branchErr := provider.CreateBranchWithChanges(ctx, repo, domain.BranchInput{
		BranchName:    branchName,
		BaseBranch:    repo.DefaultBranch,
		Changes:       changes,
		CommitMessage: "docs: sync API reference index with source",
	})
	if branchErr != nil {
		return nil, fmt.Errorf("failed to create branch: %w", branchErr)
	}

	targetBranch := repo.DefaultBranch
	if opts.TargetBranch != "" {
		targetBranch = "refs/heads/" + opts.TargetBranch
	}

	pr, createErr := provider.CreatePullRequest(ctx, repo, domain.PullRequestInput{
		SourceBranch: "refs/heads/" + branchName,
		TargetBranch: targetBranch,
		Title:        "docs: sync API reference index with source",
		Description:  GeneratePRDescription(report),
	})
	if createErr != nil {
		return nil, fmt.Errorf("failed to create PR: %w", createErr)
	}

	logger.Infof(
		"[docsindex] Created PR #%d for %s/%s: %s",
		pr.ID, repo.Organization, repo.Name, pr.URL,
	)
	return []domain.PullRequest{*pr}, nil
}

// prepareChangelog builds a CHANGELOG.md edit recording the index sync,
// when the repository keeps one in Keep-a-Changelog format.
func (t *Task) prepareChangelog(
	ctx context.Context,
	provider domain.Provider,
	repo domain.Repository,
	report domain.IndexReport,
) (domain.FileChange, bool) {
	const changelogPath = "CHANGELOG.md"

	if !provider.HasFile(ctx, repo, changelogPath) {
		return domain.FileChange{}, false
	}

	content, err := provider.GetFileContent(ctx, repo, changelogPath)
	if err != nil {
		logger.Warnf("[docsindex] Failed to read %s: %v", changelogPath, err)
		return domain.FileChange{}, false
	}

	var entries []string
	for _, s := range report.Missing {
		entries = append(entries,
			fmt.Sprintf("- changed the API reference index to list `%s`", s.Qualified()))
	}
	for _, e := range report.Stale {
		entries = append(entries,
			fmt.Sprintf("- changed the API reference index to drop `%s`", e.Qualified()))
	}

	updated := domain.InsertChangelogEntry(content, entries)
	if updated == content {
		return domain.FileChange{}, false
	}

	return domain.FileChange{
		Path:       changelogPath,
		Content:    updated,
		ChangeType: "edit",
	}, true
}

// GeneratePRDescription renders the PR body for an index sync.
func GeneratePRDescription(report domain.IndexReport) string {
	var b strings.Builder

	b.WriteString("## API reference index sync\n\n")
	b.WriteString("The reference index drifted from the public symbols defined in the source tree.\n\n")

	if len(report.Missing) > 0 {
		b.WriteString("### Added\n\n")
		for _, s := range report.Missing {
			fmt.Fprintf(&b, "- `%s` (%s, `%s:%d`)\n", s.Qualified(), s.Kind, s.FilePath, s.Line)
		}
		b.WriteString("\n")
	}

	if len(report.Stale) > 0 {
		b.WriteString("### Removed\n\n")
		for _, e := range report.Stale {
			fmt.Fprintf(&b, "- `%s` (no longer defined)\n", e.Qualified())
		}
		b.WriteString("\n")
	}

	b.WriteString("Generated by the `docsindex` audit task.\n")
	return b.String()
}

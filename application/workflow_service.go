package application

import (
	"context"
	"errors"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/autocontrib/config"
	"github.com/rios0rios0/autocontrib/domain"
	providerPkg "github.com/rios0rios0/autocontrib/infrastructure/provider"
	"github.com/rios0rios0/autocontrib/infrastructure/workspace"
	"github.com/rios0rios0/autocontrib/policy"
)

var (
	// ErrDirtyWorkspace is returned when an operation requires a clean tree.
	ErrDirtyWorkspace = errors.New("working tree has uncommitted changes")
	// ErrProtectedBranch is returned when an operation would touch a
	// branch the policy protects.
	ErrProtectedBranch = errors.New("branch is protected by workflow policy")
	// ErrPullRequestExists is returned by Publish when an open PR already
	// covers the current branch.
	ErrPullRequestExists = errors.New("an open pull request already exists for this branch")
)

// WorkflowService drives the local contributor workflow: feature branches
// off the upstream default branch, rebases guarded by backup refs, and
// publication as a pull request.
type WorkflowService struct {
	ws        domain.Workspace
	providers *providerPkg.Registry
	wf        config.WorkflowConfig
	pol       policy.Policy
}

// NewWorkflowService creates a workflow service for the given checkout.
func NewWorkflowService(
	ws domain.Workspace,
	providers *providerPkg.Registry,
	wf config.WorkflowConfig,
	pol policy.Policy,
) *WorkflowService {
	return &WorkflowService{
		ws:        ws,
		providers: providers,
		wf:        wf,
		pol:       pol,
	}
}

// upstreamRef is the remote-tracking ref features branch from and rebase onto.
func (s *WorkflowService) upstreamRef() string {
	return s.wf.UpstreamRemote + "/" + s.wf.DefaultBranch
}

// Status reports the state of the checkout relative to upstream. The
// upstream remote is fetched first so the divergence counts are current;
// the latest release lookup is best-effort and needs a provider token.
func (s *WorkflowService) Status(ctx context.Context, token string) (*domain.WorkspaceStatus, error) {
	branch, err := s.ws.CurrentBranch()
	if err != nil {
		return nil, err
	}

	clean, err := s.ws.IsClean()
	if err != nil {
		return nil, err
	}

	if fetchErr := s.ws.Fetch(ctx, s.wf.UpstreamRemote); fetchErr != nil {
		logger.Warnf("Could not fetch %q: %v", s.wf.UpstreamRemote, fetchErr)
	}

	ahead, behind, err := s.ws.Divergence(s.upstreamRef())
	if err != nil {
		return nil, err
	}

	status := &domain.WorkspaceStatus{
		Branch:      branch,
		Clean:       clean,
		Ahead:       ahead,
		Behind:      behind,
		UpstreamRef: s.upstreamRef(),
	}
	status.LatestRelease = s.latestRelease(ctx, token)

	return status, nil
}

// latestRelease asks the hosting provider for the newest upstream tag.
func (s *WorkflowService) latestRelease(ctx context.Context, token string) string {
	provider, repo, err := s.upstreamProvider(token)
	if err != nil {
		logger.Debugf("Skipping release lookup: %v", err)
		return ""
	}

	tags, err := provider.GetTags(ctx, repo)
	if err != nil || len(tags) == 0 {
		logger.Debugf("Skipping release lookup: no tags (%v)", err)
		return ""
	}
	return tags[0]
}

// StartFeature fetches upstream and creates a feature branch off the
// upstream default branch.
func (s *WorkflowService) StartFeature(ctx context.Context, name string) (string, error) {
	clean, err := s.ws.IsClean()
	if err != nil {
		return "", err
	}
	if !clean {
		return "", ErrDirtyWorkspace
	}

	branch := s.pol.FeatureBranch(name)
	if s.pol.IsProtected(branch) {
		return "", fmt.Errorf("%w: %q", ErrProtectedBranch, branch)
	}

	if fetchErr := s.ws.Fetch(ctx, s.wf.UpstreamRemote); fetchErr != nil {
		return "", fetchErr
	}

	if branchErr := s.ws.CreateBranch(branch, s.upstreamRef()); branchErr != nil {
		return "", branchErr
	}

	logger.Infof("Created feature branch %q from %s", branch, s.upstreamRef())
	return branch, nil
}

// Sync rebases the current feature branch onto the upstream default
// branch. HEAD is recorded under a backup ref before the rewrite so the
// previous history can always be recovered.
func (s *WorkflowService) Sync(ctx context.Context) (*domain.SyncResult, error) {
	branch, err := s.ws.CurrentBranch()
	if err != nil {
		return nil, err
	}
	if s.pol.IsProtected(branch) {
		return nil, fmt.Errorf("%w: %q", ErrProtectedBranch, branch)
	}

	clean, err := s.ws.IsClean()
	if err != nil {
		return nil, err
	}
	if !clean {
		return nil, ErrDirtyWorkspace
	}

	if fetchErr := s.ws.Fetch(ctx, s.wf.UpstreamRemote); fetchErr != nil {
		return nil, fetchErr
	}

	backupRef, err := s.ws.BackupHead(s.pol.BackupPrefix)
	if err != nil {
		return nil, err
	}

	if rebaseErr := s.ws.Rebase(ctx, s.upstreamRef()); rebaseErr != nil {
		return nil, fmt.Errorf(
			"%w (previous history is preserved under %q)",
			rebaseErr, backupRef,
		)
	}

	ahead, behind, err := s.ws.Divergence(s.upstreamRef())
	if err != nil {
		return nil, err
	}

	logger.Infof(
		"Rebased %q onto %s (backup: %q)",
		branch, s.upstreamRef(), backupRef,
	)

	return &domain.SyncResult{
		Branch:    branch,
		BackupRef: backupRef,
		Ahead:     ahead,
		Behind:    behind,
	}, nil
}

// Publish pushes the current branch to the contributor's fork and opens a
// pull request against the upstream default branch. When the branch was
// rebased since the last push, the push uses force-with-lease.
func (s *WorkflowService) Publish(
	ctx context.Context,
	token, title, body string,
) (*domain.PullRequest, error) {
	branch, err := s.ws.CurrentBranch()
	if err != nil {
		return nil, err
	}
	if s.pol.IsProtected(branch) {
		return nil, fmt.Errorf("%w: %q", ErrProtectedBranch, branch)
	}

	if pushErr := s.ws.Push(ctx, s.wf.OriginRemote, branch, token, true); pushErr != nil {
		return nil, pushErr
	}
	logger.Infof("Pushed %q to %q", branch, s.wf.OriginRemote)

	provider, repo, err := s.upstreamProvider(token)
	if err != nil {
		return nil, err
	}

	sourceBranch, err := s.sourceBranchFor(branch, repo)
	if err != nil {
		return nil, err
	}

	exists, existsErr := provider.PullRequestExists(ctx, repo, sourceBranch)
	if existsErr != nil {
		logger.Warnf("Failed to check existing PRs: %v", existsErr)
	}
	if exists {
		return nil, fmt.Errorf("%w: %q", ErrPullRequestExists, sourceBranch)
	}

	if title == "" {
		title = s.pol.PRTitle(branch)
	}

	pr, createErr := provider.CreatePullRequest(ctx, repo, domain.PullRequestInput{
		SourceBranch: sourceBranch,
		TargetBranch: "refs/heads/" + s.wf.DefaultBranch,
		Title:        title,
		Description:  body,
	})
	if createErr != nil {
		return nil, createErr
	}

	logger.Infof("Created PR #%d: %s", pr.ID, pr.URL)
	return pr, nil
}

// upstreamProvider resolves the hosting provider and repository identity
// from the upstream remote URL.
func (s *WorkflowService) upstreamProvider(token string) (domain.Provider, domain.Repository, error) {
	url, err := s.ws.RemoteURL(s.wf.UpstreamRemote)
	if err != nil {
		return nil, domain.Repository{}, err
	}

	info, err := workspace.ParseRemoteURL(url)
	if err != nil {
		return nil, domain.Repository{}, err
	}

	provider, err := s.providers.ForURL(url, token)
	if err != nil {
		return nil, domain.Repository{}, err
	}

	repo := domain.Repository{
		Name:          info.RepoName,
		Organization:  info.Org,
		DefaultBranch: "refs/heads/" + s.wf.DefaultBranch,
		RemoteURL:     url,
		ProviderName:  provider.Name(),
	}
	return provider, repo, nil
}

// sourceBranchFor builds the PR head. When origin points at a fork the
// head is qualified with the fork owner ("owner:branch").
func (s *WorkflowService) sourceBranchFor(branch string, upstream domain.Repository) (string, error) {
	originURL, err := s.ws.RemoteURL(s.wf.OriginRemote)
	if err != nil {
		return "", err
	}

	originInfo, err := workspace.ParseRemoteURL(originURL)
	if err != nil {
		return "", err
	}

	if originInfo.Org != upstream.Organization {
		return originInfo.Org + ":" + branch, nil
	}
	return branch, nil
}

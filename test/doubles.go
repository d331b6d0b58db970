// Package testdoubles provides test doubles (spies, stubs, dummies) for domain
// interfaces. These are hand-crafted implementations — no mock frameworks.
package testdoubles

import (
	"context"
	"fmt"

	"github.com/rios0rios0/autocontrib/domain"
)

// ---------------------------------------------------------------------------
// SpyProvider
// ---------------------------------------------------------------------------

// SpyProvider implements domain.Provider as a configurable spy.
// Configure the response fields for the methods your test exercises,
// then inspect the call-tracking fields to verify behavior.
type SpyProvider struct {
	// --- identity ---
	ProviderName string
	Token        string

	// --- MatchesURL ---
	MatchesURLResult bool
	// spy: urls checked
	MatchedURLs []string

	// --- DiscoverRepositories ---
	Repositories []domain.Repository
	DiscoverErr  error
	// spy: orgs that were requested
	DiscoveredOrgs []string

	// --- GetFileContent ---
	FileContents   map[string]string // path -> content
	FileContentErr error

	// --- ListFiles ---
	Files       []domain.File
	ListFileErr error

	// --- GetTags ---
	Tags       []string
	GetTagsErr error

	// --- HasFile ---
	ExistingFiles map[string]bool // path -> exists

	// --- CreateBranchWithChanges ---
	CreateBranchErr error
	// spy: inputs received
	BranchInputs []domain.BranchInput

	// --- CreatePullRequest ---
	CreatedPR   *domain.PullRequest
	CreatePRErr error
	// spy: inputs received
	PRInputs []domain.PullRequestInput

	// --- PullRequestExists ---
	PRExistsResult bool
	PRExistsErr    error
	// spy: branch names checked
	PRExistsBranches []string
}

var _ domain.Provider = (*SpyProvider)(nil)

func (p *SpyProvider) Name() string { return p.ProviderName }

func (p *SpyProvider) AuthToken() string { return p.Token }

func (p *SpyProvider) MatchesURL(url string) bool {
	p.MatchedURLs = append(p.MatchedURLs, url)
	return p.MatchesURLResult
}

func (p *SpyProvider) DiscoverRepositories(
	_ context.Context,
	org string,
) ([]domain.Repository, error) {
	p.DiscoveredOrgs = append(p.DiscoveredOrgs, org)
	return p.Repositories, p.DiscoverErr
}

func (p *SpyProvider) GetFileContent(
	_ context.Context,
	_ domain.Repository,
	path string,
) (string, error) {
	if p.FileContents != nil {
		if content, ok := p.FileContents[path]; ok {
			return content, nil
		}
	}
	if p.FileContentErr != nil {
		return "", p.FileContentErr
	}
	return "", fmt.Errorf("file not found: %s", path)
}

func (p *SpyProvider) ListFiles(
	_ context.Context,
	_ domain.Repository,
	_ string,
) ([]domain.File, error) {
	return p.Files, p.ListFileErr
}

func (p *SpyProvider) GetTags(
	_ context.Context,
	_ domain.Repository,
) ([]string, error) {
	return p.Tags, p.GetTagsErr
}

func (p *SpyProvider) HasFile(
	_ context.Context,
	_ domain.Repository,
	path string,
) bool {
	if p.ExistingFiles != nil {
		return p.ExistingFiles[path]
	}
	return false
}

func (p *SpyProvider) CreateBranchWithChanges(
	_ context.Context,
	_ domain.Repository,
	input domain.BranchInput,
) error {
	p.BranchInputs = append(p.BranchInputs, input)
	return p.CreateBranchErr
}

func (p *SpyProvider) CreatePullRequest(
	_ context.Context,
	_ domain.Repository,
	input domain.PullRequestInput,
) (*domain.PullRequest, error) {
	p.PRInputs = append(p.PRInputs, input)
	if p.CreatePRErr != nil {
		return nil, p.CreatePRErr
	}
	if p.CreatedPR != nil {
		return p.CreatedPR, nil
	}
	return &domain.PullRequest{
		ID:    1,
		Title: input.Title,
		URL:   "https://example.com/pr/1",
	}, nil
}

func (p *SpyProvider) PullRequestExists(
	_ context.Context,
	_ domain.Repository,
	branch string,
) (bool, error) {
	p.PRExistsBranches = append(p.PRExistsBranches, branch)
	return p.PRExistsResult, p.PRExistsErr
}

// ---------------------------------------------------------------------------
// SpyTask
// ---------------------------------------------------------------------------

// SpyTask implements domain.Task as a configurable spy.
type SpyTask struct {
	// --- identity ---
	TaskName string

	// --- Detect ---
	DetectResult bool
	// spy: repos that were checked
	DetectedRepos []domain.Repository

	// --- Run ---
	PRs    []domain.PullRequest
	RunErr error
	// spy: calls received
	RunCalls []RunCall
}

// RunCall records a single invocation of Run.
type RunCall struct {
	Repo domain.Repository
	Opts domain.TaskOptions
}

var _ domain.Task = (*SpyTask)(nil)

func (t *SpyTask) Name() string { return t.TaskName }

func (t *SpyTask) Detect(
	_ context.Context,
	_ domain.Provider,
	repo domain.Repository,
) bool {
	t.DetectedRepos = append(t.DetectedRepos, repo)
	return t.DetectResult
}

func (t *SpyTask) Run(
	_ context.Context,
	_ domain.Provider,
	repo domain.Repository,
	opts domain.TaskOptions,
) ([]domain.PullRequest, error) {
	t.RunCalls = append(t.RunCalls, RunCall{Repo: repo, Opts: opts})
	return t.PRs, t.RunErr
}

// ---------------------------------------------------------------------------
// SpyWorkspace
// ---------------------------------------------------------------------------

// SpyWorkspace implements domain.Workspace as a configurable spy for
// workflow tests that must not touch a real checkout.
type SpyWorkspace struct {
	// --- state ---
	RootDir string
	Branch  string
	Clean   bool
	Remotes map[string]string // remote name -> URL

	// --- errors to inject ---
	BranchErr    error
	CleanErr     error
	FetchErr     error
	CreateErr    error
	BackupErr    error
	DivergeErr   error
	RebaseErr    error
	PushErr      error
	RemoteURLErr error

	// --- Divergence ---
	AheadCount  int
	BehindCount int

	// --- BackupHead ---
	BackupRef string

	// spy: calls received
	FetchedRemotes  []string
	CreatedBranches []CreateBranchCall
	BackupPrefixes  []string
	RebasedOnto     []string
	Pushes          []PushCall
}

// CreateBranchCall records a single invocation of CreateBranch.
type CreateBranchCall struct {
	Name     string
	StartRef string
}

// PushCall records a single invocation of Push.
type PushCall struct {
	Remote string
	Branch string
	Token  string
	Force  bool
}

var _ domain.Workspace = (*SpyWorkspace)(nil)

func (w *SpyWorkspace) Root() string { return w.RootDir }

func (w *SpyWorkspace) CurrentBranch() (string, error) {
	return w.Branch, w.BranchErr
}

func (w *SpyWorkspace) IsClean() (bool, error) {
	return w.Clean, w.CleanErr
}

func (w *SpyWorkspace) RemoteURL(name string) (string, error) {
	if w.RemoteURLErr != nil {
		return "", w.RemoteURLErr
	}
	if url, ok := w.Remotes[name]; ok {
		return url, nil
	}
	return "", fmt.Errorf("remote not found: %s", name)
}

func (w *SpyWorkspace) Fetch(_ context.Context, remote string) error {
	w.FetchedRemotes = append(w.FetchedRemotes, remote)
	return w.FetchErr
}

func (w *SpyWorkspace) CreateBranch(name, startRef string) error {
	w.CreatedBranches = append(
		w.CreatedBranches,
		CreateBranchCall{Name: name, StartRef: startRef},
	)
	return w.CreateErr
}

func (w *SpyWorkspace) BackupHead(prefix string) (string, error) {
	w.BackupPrefixes = append(w.BackupPrefixes, prefix)
	if w.BackupErr != nil {
		return "", w.BackupErr
	}
	if w.BackupRef != "" {
		return w.BackupRef, nil
	}
	return prefix + w.Branch + "-20260101-000000", nil
}

func (w *SpyWorkspace) Divergence(_ string) (int, int, error) {
	return w.AheadCount, w.BehindCount, w.DivergeErr
}

func (w *SpyWorkspace) Rebase(_ context.Context, ontoRef string) error {
	w.RebasedOnto = append(w.RebasedOnto, ontoRef)
	return w.RebaseErr
}

func (w *SpyWorkspace) Push(
	_ context.Context,
	remote, branch, token string,
	force bool,
) error {
	w.Pushes = append(w.Pushes, PushCall{
		Remote: remote, Branch: branch, Token: token, Force: force,
	})
	return w.PushErr
}

// ---------------------------------------------------------------------------
// DummyProvider — satisfies the interface but does nothing (for compile checks)
// ---------------------------------------------------------------------------

// DummyProvider is a no-op implementation of domain.Provider.
// Use it only for interface compliance tests or as a placeholder.
type DummyProvider struct{}

var _ domain.Provider = (*DummyProvider)(nil)

func (d *DummyProvider) Name() string             { return "dummy" }
func (d *DummyProvider) MatchesURL(_ string) bool { return false }
func (d *DummyProvider) AuthToken() string        { return "" }

func (d *DummyProvider) DiscoverRepositories(
	_ context.Context,
	_ string,
) ([]domain.Repository, error) {
	return nil, nil
}

func (d *DummyProvider) GetFileContent(
	_ context.Context,
	_ domain.Repository,
	_ string,
) (string, error) {
	return "", nil
}

func (d *DummyProvider) ListFiles(
	_ context.Context,
	_ domain.Repository,
	_ string,
) ([]domain.File, error) {
	return nil, nil
}

func (d *DummyProvider) GetTags(
	_ context.Context,
	_ domain.Repository,
) ([]string, error) {
	return nil, nil
}

func (d *DummyProvider) HasFile(
	_ context.Context,
	_ domain.Repository,
	_ string,
) bool {
	return false
}

func (d *DummyProvider) CreateBranchWithChanges(
	_ context.Context,
	_ domain.Repository,
	_ domain.BranchInput,
) error {
	return nil
}

func (d *DummyProvider) CreatePullRequest(
	_ context.Context,
	_ domain.Repository,
	_ domain.PullRequestInput,
) (*domain.PullRequest, error) {
	return nil, nil //nolint:nilnil // dummy no-op
}

func (d *DummyProvider) PullRequestExists(
	_ context.Context,
	_ domain.Repository,
	_ string,
) (bool, error) {
	return false, nil
}

// ---------------------------------------------------------------------------
// DummyTask — satisfies the interface but does nothing
// ---------------------------------------------------------------------------

// DummyTask is a no-op implementation of domain.Task.
type DummyTask struct{}

var _ domain.Task = (*DummyTask)(nil)

func (d *DummyTask) Name() string { return "dummy" }

func (d *DummyTask) Detect(
	_ context.Context,
	_ domain.Provider,
	_ domain.Repository,
) bool {
	return false
}

func (d *DummyTask) Run(
	_ context.Context,
	_ domain.Provider,
	_ domain.Repository,
	_ domain.TaskOptions,
) ([]domain.PullRequest, error) {
	return nil, nil
}

// Package workspace implements domain.Workspace on top of a local Git
// checkout. Reads, refs, fetch, and push go through go-git; rebase shells
// out to the git binary because go-git does not implement it.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	git "github.com/go-git/go-git/v5"
	gitcfg "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/autocontrib/domain"
)

const backupStampFormat = "20060102-150405"

var (
	// ErrNoRemote is returned when the named remote is not configured.
	ErrNoRemote = errors.New("remote not configured")
	// ErrDetachedHead is returned when HEAD does not point at a branch.
	ErrDetachedHead = errors.New("HEAD is detached")
)

// GitWorkspace implements domain.Workspace for a checkout on disk.
type GitWorkspace struct {
	root string
	repo *git.Repository
}

var _ domain.Workspace = (*GitWorkspace)(nil)

// Open locates the repository containing the given directory.
func Open(path string) (*GitWorkspace, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository at %q: %w", path, err)
	}
	return &GitWorkspace{root: path, repo: repo}, nil
}

func (w *GitWorkspace) Root() string { return w.root }

func (w *GitWorkspace) CurrentBranch() (string, error) {
	head, err := w.repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	if !head.Name().IsBranch() {
		return "", ErrDetachedHead
	}
	return head.Name().Short(), nil
}

func (w *GitWorkspace) IsClean() (bool, error) {
	wt, err := w.repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("failed to open worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return false, fmt.Errorf("failed to read worktree status: %w", err)
	}
	return status.IsClean(), nil
}

func (w *GitWorkspace) RemoteURL(name string) (string, error) {
	remote, err := w.repo.Remote(name)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrNoRemote, name)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("%w: %q has no URL", ErrNoRemote, name)
	}
	return urls[0], nil
}

// Fetch updates the named remote. Already-up-to-date is not an error.
func (w *GitWorkspace) Fetch(ctx context.Context, remote string) error {
	r, err := w.repo.Remote(remote)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrNoRemote, remote)
	}

	logger.Debugf("Fetching remote %q", remote)
	fetchErr := r.FetchContext(ctx, &git.FetchOptions{
		RemoteName: remote,
		Tags:       git.AllTags,
	})
	if fetchErr != nil && !errors.Is(fetchErr, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("failed to fetch %q: %w", remote, fetchErr)
	}
	return nil
}

// CreateBranch creates and checks out a branch starting at a
// remote-tracking ref such as "upstream/main".
func (w *GitWorkspace) CreateBranch(name, startRef string) error {
	hash, err := w.resolveRef(startRef)
	if err != nil {
		return err
	}

	wt, err := w.repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to open worktree: %w", err)
	}

	checkoutErr := wt.Checkout(&git.CheckoutOptions{
		Hash:   hash,
		Branch: plumbing.NewBranchReferenceName(name),
		Create: true,
	})
	if checkoutErr != nil {
		return fmt.Errorf("failed to create branch %q at %s: %w", name, startRef, checkoutErr)
	}
	return nil
}

// BackupHead records HEAD under "<prefix><branch>-<stamp>" so the current
// line of history stays reachable through the rewrite.
func (w *GitWorkspace) BackupHead(prefix string) (string, error) {
	head, err := w.repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	if !head.Name().IsBranch() {
		return "", ErrDetachedHead
	}

	stamp := time.Now().UTC().Format(backupStampFormat)
	name := prefix + head.Name().Short() + "-" + stamp
	ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(name), head.Hash())

	if setErr := w.repo.Storer.SetReference(ref); setErr != nil {
		return "", fmt.Errorf("failed to create backup ref %q: %w", name, setErr)
	}

	logger.Infof("Recorded backup ref %q at %s", name, head.Hash().String()[:8])
	return name, nil
}

// Divergence walks commits on both sides of the merge base between HEAD
// and the given remote-tracking ref.
func (w *GitWorkspace) Divergence(ref string) (int, int, error) {
	head, err := w.repo.Head()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to resolve HEAD: %w", err)
	}

	otherHash, err := w.resolveRef(ref)
	if err != nil {
		return 0, 0, err
	}

	headCommit, err := w.repo.CommitObject(head.Hash())
	if err != nil {
		return 0, 0, fmt.Errorf("failed to load HEAD commit: %w", err)
	}
	otherCommit, err := w.repo.CommitObject(otherHash)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to load commit for %q: %w", ref, err)
	}

	bases, err := headCommit.MergeBase(otherCommit)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to find merge base with %q: %w", ref, err)
	}
	if len(bases) == 0 {
		return 0, 0, fmt.Errorf("no common history between HEAD and %q", ref)
	}

	ahead, err := countSince(headCommit, bases[0].Hash)
	if err != nil {
		return 0, 0, err
	}
	behind, err := countSince(otherCommit, bases[0].Hash)
	if err != nil {
		return 0, 0, err
	}

	return ahead, behind, nil
}

// Rebase replays the current branch onto the given ref by invoking the git
// binary. A failed rebase is aborted before the error is returned so the
// worktree is never left mid-rebase.
func (w *GitWorkspace) Rebase(ctx context.Context, ontoRef string) error {
	cmd := exec.CommandContext(ctx, "git", "rebase", ontoRef)
	cmd.Dir = w.root

	output, err := cmd.CombinedOutput()
	if err != nil {
		abort := exec.CommandContext(ctx, "git", "rebase", "--abort")
		abort.Dir = w.root
		if abortErr := abort.Run(); abortErr != nil {
			logger.Warnf("Failed to abort rebase: %v", abortErr)
		}
		return fmt.Errorf(
			"rebase onto %q failed (aborted): %w\n%s",
			ontoRef, err, strings.TrimSpace(string(output)),
		)
	}
	return nil
}

// Push uploads a branch to the named remote. After a rebase the branch
// history differs from the remote, so force pushes use force-with-lease to
// refuse clobbering commits fetched since.
func (w *GitWorkspace) Push(ctx context.Context, remote, branch, token string, force bool) error {
	refSpec := gitcfg.RefSpec(fmt.Sprintf("refs/heads/%s:refs/heads/%s", branch, branch))

	opts := &git.PushOptions{
		RemoteName: remote,
		RefSpecs:   []gitcfg.RefSpec{refSpec},
	}
	if force {
		opts.ForceWithLease = &git.ForceWithLease{}
	}
	if token != "" {
		url, urlErr := w.RemoteURL(remote)
		if urlErr == nil && strings.HasPrefix(url, "https://") {
			opts.Auth = &githttp.BasicAuth{
				Username: "x-access-token",
				Password: token,
			}
		}
	}

	pushErr := w.repo.PushContext(ctx, opts)
	if pushErr != nil && !errors.Is(pushErr, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("failed to push %q to %q: %w", branch, remote, pushErr)
	}
	return nil
}

// resolveRef resolves "remote/branch" or a plain branch name to a hash.
func (w *GitWorkspace) resolveRef(ref string) (plumbing.Hash, error) {
	candidates := []plumbing.ReferenceName{
		plumbing.ReferenceName("refs/remotes/" + ref),
		plumbing.NewBranchReferenceName(ref),
	}

	for _, name := range candidates {
		resolved, err := w.repo.Reference(name, true)
		if err == nil {
			return resolved.Hash(), nil
		}
	}

	return plumbing.ZeroHash, fmt.Errorf("failed to resolve ref %q", ref)
}

// countSince counts commits reachable from c but not from stop.
func countSince(c *object.Commit, stop plumbing.Hash) (int, error) {
	count := 0
	iter := object.NewCommitPreorderIter(c, nil, []plumbing.Hash{stop})
	err := iter.ForEach(func(_ *object.Commit) error {
		count++
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to walk commits: %w", err)
	}
	return count, nil
}

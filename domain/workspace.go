package domain

import "context"

// Workspace abstracts a local Git checkout. It covers the handful of
// operations the contributor workflow needs; anything destructive takes a
// context so a stuck network call can be cancelled.
type Workspace interface {
	// Root returns the absolute path of the working tree.
	Root() string

	// CurrentBranch returns the short name of the checked-out branch.
	CurrentBranch() (string, error)

	// IsClean reports whether the working tree has no uncommitted changes.
	IsClean() (bool, error)

	// RemoteURL returns the first URL configured for the named remote.
	RemoteURL(name string) (string, error)

	// Fetch updates the named remote. Already-up-to-date is not an error.
	Fetch(ctx context.Context, remote string) error

	// CreateBranch creates and checks out a branch starting at the given
	// remote-tracking ref (e.g. "upstream/main").
	CreateBranch(name, startRef string) error

	// BackupHead records HEAD under a backup ref and returns the ref name.
	// Called before any history rewrite so the previous line of work stays
	// reachable.
	BackupHead(prefix string) (string, error)

	// Divergence returns how many commits HEAD is ahead of and behind the
	// given remote-tracking ref.
	Divergence(ref string) (ahead, behind int, err error)

	// Rebase replays the current branch onto the given ref. On conflict it
	// aborts the rebase and returns the underlying error.
	Rebase(ctx context.Context, ontoRef string) error

	// Push uploads the current branch to the named remote. Force uses
	// force-with-lease semantics for post-rebase pushes.
	Push(ctx context.Context, remote, branch, token string, force bool) error
}

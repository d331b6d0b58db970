package domain

import "context"

// Task abstracts a repository audit (reference index sync, docstring
// coverage, etc.). Each implementation owns its full cycle: detection,
// scanning, and PR creation. Tasks that only report return no PRs.
type Task interface {
	// Name returns the task identifier (e.g. "docsindex").
	Name() string

	// Detect returns true if the task applies to the given repository.
	Detect(ctx context.Context, provider Provider, repo Repository) bool

	// Run audits the repository and, when drift is found, creates pull
	// requests with the fix. It returns the list of PRs created.
	Run(ctx context.Context, provider Provider, repo Repository, opts TaskOptions) ([]PullRequest, error)
}

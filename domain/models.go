package domain

// Repository represents a Git repository on any hosting provider.
type Repository struct {
	ID            string
	Name          string
	Organization  string
	DefaultBranch string
	RemoteURL     string
	SSHURL        string
	ProviderName  string
}

// File represents a file entry within a repository.
type File struct {
	Path     string
	ObjectID string
	IsDir    bool
}

// FileChange represents a file modification to be included in a commit.
type FileChange struct {
	Path       string
	Content    string
	ChangeType string // "add", "edit", "delete"
}

// BranchInput contains the data needed to create a branch with file changes.
type BranchInput struct {
	BranchName    string
	BaseBranch    string
	Changes       []FileChange
	CommitMessage string
}

// PullRequestInput contains the data needed to create a pull request.
type PullRequestInput struct {
	SourceBranch string
	TargetBranch string
	Title        string
	Description  string
}

// PullRequest represents a pull/merge request returned by a provider.
type PullRequest struct {
	ID     int
	Title  string
	URL    string
	Status string
}

// IndexEntry is a single symbol listed in a reference index, qualified by
// the module the surrounding directive block declares.
type IndexEntry struct {
	Module string // e.g. "skbeam.core.recon"
	Name   string // e.g. "cdi_recon"
	Line   int    // line number in the index file
}

// Qualified returns the dotted path of the entry.
func (e IndexEntry) Qualified() string {
	if e.Module == "" {
		return e.Name
	}
	return e.Module + "." + e.Name
}

// SymbolDef is a public top-level symbol found in a source file.
type SymbolDef struct {
	Module       string // dotted module path derived from the file path
	Name         string
	Kind         string // "function" or "class"
	FilePath     string
	Line         int
	HasDocstring bool
}

// Qualified returns the dotted path of the symbol.
func (s SymbolDef) Qualified() string {
	if s.Module == "" {
		return s.Name
	}
	return s.Module + "." + s.Name
}

// IndexReport is the outcome of comparing a reference index against the
// symbols actually defined in the source tree.
type IndexReport struct {
	IndexPath string
	Entries   []IndexEntry // everything listed in the index
	Missing   []SymbolDef  // defined in source but not listed
	Stale     []IndexEntry // listed but no longer defined
}

// InSync reports whether the index matches the source tree.
func (r IndexReport) InSync() bool {
	return len(r.Missing) == 0 && len(r.Stale) == 0
}

// TaskOptions holds runtime options passed to audit tasks.
type TaskOptions struct {
	DryRun       bool
	Verbose      bool
	TargetBranch string
	IndexPath    string
	SourceRoot   string
}

// WorkspaceStatus describes the state of a local checkout relative to the
// upstream default branch.
type WorkspaceStatus struct {
	Branch        string
	Clean         bool
	Ahead         int
	Behind        int
	UpstreamRef   string
	LatestRelease string
}

// SyncResult describes the outcome of rebasing a feature branch onto the
// upstream default branch.
type SyncResult struct {
	Branch    string
	BackupRef string
	Ahead     int
	Behind    int
}

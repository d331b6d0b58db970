package workspace_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	gitcfg "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/autocontrib/infrastructure/workspace"
)

func initRepo(t *testing.T) (string, *git.Repository) {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	return dir, repo
}

func commitFile(
	t *testing.T,
	dir string,
	repo *git.Repository,
	name, content, message string,
) plumbing.Hash {
	t.Helper()

	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(name)
	require.NoError(t, err)

	hash, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Tester",
			Email: "tester@example.com",
			When:  time.Now(),
		},
	})
	require.NoError(t, err)
	return hash
}

func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("should open an existing repository", func(t *testing.T) {
		t.Parallel()

		// given
		dir, _ := initRepo(t)

		// when
		ws, err := workspace.Open(dir)

		// then
		require.NoError(t, err)
		assert.Equal(t, dir, ws.Root())
	})

	t.Run("should detect the repository from a subdirectory", func(t *testing.T) {
		t.Parallel()

		// given
		dir, _ := initRepo(t)
		sub := filepath.Join(dir, "docs")
		require.NoError(t, os.Mkdir(sub, 0o755))

		// when
		ws, err := workspace.Open(sub)

		// then
		require.NoError(t, err)
		assert.Equal(t, sub, ws.Root())
	})

	t.Run("should fail outside a repository", func(t *testing.T) {
		t.Parallel()

		// when
		_, err := workspace.Open(t.TempDir())

		// then
		require.Error(t, err)
	})
}

func TestCurrentBranch(t *testing.T) {
	t.Parallel()

	t.Run("should return the checked-out branch", func(t *testing.T) {
		t.Parallel()

		// given
		dir, repo := initRepo(t)
		commitFile(t, dir, repo, "README.md", "hello\n", "initial commit")
		ws, err := workspace.Open(dir)
		require.NoError(t, err)

		// when
		branch, err := ws.CurrentBranch()

		// then
		require.NoError(t, err)
		assert.Equal(t, "master", branch)
	})
}

func TestIsClean(t *testing.T) {
	t.Parallel()

	t.Run("should be clean right after a commit", func(t *testing.T) {
		t.Parallel()

		// given
		dir, repo := initRepo(t)
		commitFile(t, dir, repo, "README.md", "hello\n", "initial commit")
		ws, err := workspace.Open(dir)
		require.NoError(t, err)

		// when
		clean, err := ws.IsClean()

		// then
		require.NoError(t, err)
		assert.True(t, clean)
	})

	t.Run("should be dirty with uncommitted changes", func(t *testing.T) {
		t.Parallel()

		// given
		dir, repo := initRepo(t)
		commitFile(t, dir, repo, "README.md", "hello\n", "initial commit")
		require.NoError(t, os.WriteFile(
			filepath.Join(dir, "README.md"), []byte("edited\n"), 0o644,
		))
		ws, err := workspace.Open(dir)
		require.NoError(t, err)

		// when
		clean, err := ws.IsClean()

		// then
		require.NoError(t, err)
		assert.False(t, clean)
	})
}

func TestRemoteURL(t *testing.T) {
	t.Parallel()

	t.Run("should return the configured URL", func(t *testing.T) {
		t.Parallel()

		// given
		dir, repo := initRepo(t)
		_, err := repo.CreateRemote(&gitcfg.RemoteConfig{
			Name: "upstream",
			URLs: []string{"https://github.com/scikit-beam/scikit-beam.git"},
		})
		require.NoError(t, err)
		ws, err := workspace.Open(dir)
		require.NoError(t, err)

		// when
		url, err := ws.RemoteURL("upstream")

		// then
		require.NoError(t, err)
		assert.Equal(t, "https://github.com/scikit-beam/scikit-beam.git", url)
	})

	t.Run("should fail for a missing remote", func(t *testing.T) {
		t.Parallel()

		// given
		dir, _ := initRepo(t)
		ws, err := workspace.Open(dir)
		require.NoError(t, err)

		// when
		_, err = ws.RemoteURL("upstream")

		// then
		require.ErrorIs(t, err, workspace.ErrNoRemote)
	})
}

func TestCreateBranch(t *testing.T) {
	t.Parallel()

	t.Run("should create and check out a branch at the given ref", func(t *testing.T) {
		t.Parallel()

		// given
		dir, repo := initRepo(t)
		commitFile(t, dir, repo, "README.md", "hello\n", "initial commit")
		ws, err := workspace.Open(dir)
		require.NoError(t, err)

		// when
		err = ws.CreateBranch("feat/docs-cleanup", "master")

		// then
		require.NoError(t, err)
		branch, err := ws.CurrentBranch()
		require.NoError(t, err)
		assert.Equal(t, "feat/docs-cleanup", branch)
	})

	t.Run("should fail for an unknown start ref", func(t *testing.T) {
		t.Parallel()

		// given
		dir, repo := initRepo(t)
		commitFile(t, dir, repo, "README.md", "hello\n", "initial commit")
		ws, err := workspace.Open(dir)
		require.NoError(t, err)

		// when
		err = ws.CreateBranch("feat/docs-cleanup", "upstream/main")

		// then
		require.Error(t, err)
	})
}

func TestBackupHead(t *testing.T) {
	t.Parallel()

	t.Run("should record HEAD under a stamped backup ref", func(t *testing.T) {
		t.Parallel()

		// given
		dir, repo := initRepo(t)
		head := commitFile(t, dir, repo, "README.md", "hello\n", "initial commit")
		ws, err := workspace.Open(dir)
		require.NoError(t, err)

		// when
		name, err := ws.BackupHead("backup/")

		// then
		require.NoError(t, err)
		assert.Contains(t, name, "backup/master-")

		ref, err := repo.Reference(plumbing.NewBranchReferenceName(name), true)
		require.NoError(t, err)
		assert.Equal(t, head, ref.Hash())
	})
}

func TestDivergence(t *testing.T) {
	t.Parallel()

	t.Run("should report zero against the same ref", func(t *testing.T) {
		t.Parallel()

		// given
		dir, repo := initRepo(t)
		commitFile(t, dir, repo, "README.md", "hello\n", "initial commit")
		ws, err := workspace.Open(dir)
		require.NoError(t, err)

		// when
		ahead, behind, err := ws.Divergence("master")

		// then
		require.NoError(t, err)
		assert.Equal(t, 0, ahead)
		assert.Equal(t, 0, behind)
	})

	t.Run("should count commits ahead of the base branch", func(t *testing.T) {
		t.Parallel()

		// given
		dir, repo := initRepo(t)
		commitFile(t, dir, repo, "README.md", "hello\n", "initial commit")
		ws, err := workspace.Open(dir)
		require.NoError(t, err)
		require.NoError(t, ws.CreateBranch("feat/docs-cleanup", "master"))
		commitFile(t, dir, repo, "index.rst", "entry\n", "add index")
		commitFile(t, dir, repo, "notes.rst", "note\n", "add notes")

		// when
		ahead, behind, err := ws.Divergence("master")

		// then
		require.NoError(t, err)
		assert.Equal(t, 2, ahead)
		assert.Equal(t, 0, behind)
	})
}

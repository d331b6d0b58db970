package policy_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/autocontrib/policy"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	t.Run("should protect main and master", func(t *testing.T) {
		t.Parallel()

		// given
		pol := policy.Default()

		// then
		assert.True(t, pol.IsProtected("main"))
		assert.True(t, pol.IsProtected("master"))
		assert.False(t, pol.IsProtected("feat/some-work"))
	})
}

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("should fall back to defaults for unset attributes", func(t *testing.T) {
		t.Parallel()

		// given
		content := []byte(`
workflow {
  branch_prefix = "feature/"
}
`)

		// when
		pol, err := policy.Parse(content, "policy.hcl")

		// then
		require.NoError(t, err)
		assert.Equal(t, "feature/", pol.BranchPrefix)
		assert.Equal(t, "backup/", pol.BackupPrefix)
		assert.Equal(t, []string{"main", "master"}, pol.Protected)
	})

	t.Run("should decode every workflow attribute", func(t *testing.T) {
		t.Parallel()

		// given
		content := []byte(`
workflow {
  branch_prefix   = "topic/"
  backup_prefix   = "save/"
  protected       = ["main", "release"]
  pr_title_format = "WIP: %s"
}
`)

		// when
		pol, err := policy.Parse(content, "policy.hcl")

		// then
		require.NoError(t, err)
		assert.Equal(t, "topic/", pol.BranchPrefix)
		assert.Equal(t, "save/", pol.BackupPrefix)
		assert.Equal(t, []string{"main", "release"}, pol.Protected)
		assert.Equal(t, "WIP: release-notes", pol.PRTitle("release-notes"))
		assert.True(t, pol.IsProtected("release"))
		assert.False(t, pol.IsProtected("master"))
	})

	t.Run("should reject unknown attributes", func(t *testing.T) {
		t.Parallel()

		// given
		content := []byte(`
workflow {
  branch_prefiks = "typo/"
}
`)

		// when
		_, err := policy.Parse(content, "policy.hcl")

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown attribute")
	})

	t.Run("should reject non-string protected entries", func(t *testing.T) {
		t.Parallel()

		// given
		content := []byte(`
workflow {
  protected = [1, 2]
}
`)

		// when
		_, err := policy.Parse(content, "policy.hcl")

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "only strings")
	})

	t.Run("should fail on malformed HCL", func(t *testing.T) {
		t.Parallel()

		// when
		_, err := policy.Parse([]byte("workflow {"), "policy.hcl")

		// then
		require.Error(t, err)
	})
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("should load a policy file from disk", func(t *testing.T) {
		t.Parallel()

		// given
		path := filepath.Join(t.TempDir(), "policy.hcl")
		require.NoError(t, os.WriteFile(path, []byte(`
workflow {
  branch_prefix = "topic/"
}
`), 0o600))

		// when
		pol, err := policy.Load(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "topic/", pol.BranchPrefix)
	})

	t.Run("should return defaults alongside the error when file is missing", func(t *testing.T) {
		t.Parallel()

		// when
		pol, err := policy.Load(filepath.Join(t.TempDir(), "missing.hcl"))

		// then
		require.Error(t, err)
		assert.Equal(t, policy.Default(), pol)
	})
}

func TestFeatureBranch(t *testing.T) {
	t.Parallel()

	t.Run("should apply the prefix", func(t *testing.T) {
		t.Parallel()

		// given
		pol := policy.Default()

		// when / then
		assert.Equal(t, "feat/docs-cleanup", pol.FeatureBranch("docs-cleanup"))
	})

	t.Run("should not double the prefix", func(t *testing.T) {
		t.Parallel()

		// given
		pol := policy.Default()

		// when / then
		assert.Equal(t, "feat/docs-cleanup", pol.FeatureBranch("feat/docs-cleanup"))
	})
}

func TestIsProtected(t *testing.T) {
	t.Parallel()

	t.Run("should strip the refs/heads prefix before matching", func(t *testing.T) {
		t.Parallel()

		// given
		pol := policy.Default()

		// when / then
		assert.True(t, pol.IsProtected("refs/heads/main"))
	})
}

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/autocontrib/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".autocontrib.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("should load a valid config with inline token", func(t *testing.T) {
		t.Parallel()

		// given
		path := writeConfig(t, `
providers:
  - type: github
    token: inline-token
    organizations:
      - scikit-beam
tasks:
  docsindex:
    enabled: true
    index_path: docs/reference/index.rst
`)

		// when
		cfg, err := config.Load(path)

		// then
		require.NoError(t, err)
		require.Len(t, cfg.Providers, 1)
		assert.Equal(t, "github", cfg.Providers[0].Type)
		assert.Equal(t, "inline-token", cfg.Providers[0].Token)
		assert.Equal(t, []string{"scikit-beam"}, cfg.Providers[0].Organizations)
		assert.True(t, cfg.Tasks["docsindex"].Enabled)
		assert.Equal(t, "docs/reference/index.rst", cfg.Tasks["docsindex"].IndexPath)
	})

	t.Run("should expand environment variables in tokens", func(t *testing.T) {
		// given
		t.Setenv("AUTOCONTRIB_TEST_TOKEN", "from-env")
		path := writeConfig(t, `
providers:
  - type: gitlab
    token: ${AUTOCONTRIB_TEST_TOKEN}
    organizations:
      - some-group
`)

		// when
		cfg, err := config.Load(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "from-env", cfg.Providers[0].Token)
	})

	t.Run("should read token from file when the value is a path", func(t *testing.T) {
		t.Parallel()

		// given
		tokenFile := filepath.Join(t.TempDir(), "token.txt")
		require.NoError(t, os.WriteFile(tokenFile, []byte("file-token\n"), 0o600))
		path := writeConfig(t, `
providers:
  - type: github
    token: `+tokenFile+`
    organizations:
      - scikit-beam
`)

		// when
		cfg, err := config.Load(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "file-token", cfg.Providers[0].Token)
	})

	t.Run("should apply workflow defaults when section is omitted", func(t *testing.T) {
		t.Parallel()

		// given
		path := writeConfig(t, `
providers:
  - type: github
    token: tok
    organizations:
      - scikit-beam
`)

		// when
		cfg, err := config.Load(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "upstream", cfg.Workflow.UpstreamRemote)
		assert.Equal(t, "origin", cfg.Workflow.OriginRemote)
		assert.Equal(t, "main", cfg.Workflow.DefaultBranch)
	})

	t.Run("should keep explicit workflow settings", func(t *testing.T) {
		t.Parallel()

		// given
		path := writeConfig(t, `
providers:
  - type: github
    token: tok
    organizations:
      - scikit-beam
workflow:
  upstream_remote: up
  default_branch: develop
`)

		// when
		cfg, err := config.Load(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "up", cfg.Workflow.UpstreamRemote)
		assert.Equal(t, "origin", cfg.Workflow.OriginRemote)
		assert.Equal(t, "develop", cfg.Workflow.DefaultBranch)
	})

	t.Run("should fail when no providers are configured", func(t *testing.T) {
		t.Parallel()

		// given
		path := writeConfig(t, `
tasks:
  docsindex:
    enabled: true
`)

		// when
		_, err := config.Load(path)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least one provider")
	})

	t.Run("should fail when provider type is missing", func(t *testing.T) {
		t.Parallel()

		// given
		path := writeConfig(t, `
providers:
  - token: tok
    organizations:
      - scikit-beam
`)

		// when
		_, err := config.Load(path)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "type is required")
	})

	t.Run("should fail when provider has no organizations", func(t *testing.T) {
		t.Parallel()

		// given
		path := writeConfig(t, `
providers:
  - type: github
    token: tok
`)

		// when
		_, err := config.Load(path)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "organizations")
	})

	t.Run("should fail when file does not exist", func(t *testing.T) {
		t.Parallel()

		// when
		_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))

		// then
		require.Error(t, err)
	})

	t.Run("should fail on invalid YAML", func(t *testing.T) {
		t.Parallel()

		// given
		path := writeConfig(t, "providers: [}")

		// when
		_, err := config.Load(path)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})
}

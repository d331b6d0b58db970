package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRepoDirFromArgs(t *testing.T) {
	t.Parallel()

	t.Run("should default to the current directory", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, ".", repoDirFromArgs(nil))
	})

	t.Run("should use the first positional argument", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "/tmp/checkout", repoDirFromArgs([]string{"/tmp/checkout"}))
	})
}

func TestResolveTokenFromEnv(t *testing.T) {
	t.Run("should prefer GITHUB_TOKEN for github", func(t *testing.T) {
		// given
		t.Setenv("GITHUB_TOKEN", "primary")
		t.Setenv("GH_TOKEN", "fallback")

		// when / then
		assert.Equal(t, "primary", resolveTokenFromEnv(providerGitHub))
	})

	t.Run("should fall back to GH_TOKEN for github", func(t *testing.T) {
		// given
		t.Setenv("GITHUB_TOKEN", "")
		t.Setenv("GH_TOKEN", "fallback")

		// when / then
		assert.Equal(t, "fallback", resolveTokenFromEnv(providerGitHub))
	})

	t.Run("should read GITLAB_TOKEN for gitlab", func(t *testing.T) {
		// given
		t.Setenv("GITLAB_TOKEN", "gl")

		// when / then
		assert.Equal(t, "gl", resolveTokenFromEnv(providerGitLab))
	})

	t.Run("should return empty for unknown providers", func(t *testing.T) {
		assert.Empty(t, resolveTokenFromEnv("bitbucket"))
	})
}

func TestTokenEnvHint(t *testing.T) {
	t.Parallel()

	t.Run("should name the variables per provider", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "GITHUB_TOKEN or GH_TOKEN", tokenEnvHint(providerGitHub))
		assert.Equal(t, "GITLAB_TOKEN or GL_TOKEN", tokenEnvHint(providerGitLab))
		assert.Equal(t, "<unknown provider>", tokenEnvHint("bitbucket"))
	})
}

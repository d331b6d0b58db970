package workspace_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/autocontrib/infrastructure/workspace"
)

func TestParseRemoteURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		url          string
		wantProvider string
		wantOrg      string
		wantRepo     string
	}{
		{
			name:         "GitHub HTTPS",
			url:          "https://github.com/scikit-beam/scikit-beam.git",
			wantProvider: "github",
			wantOrg:      "scikit-beam",
			wantRepo:     "scikit-beam",
		},
		{
			name:         "GitHub HTTPS without .git suffix",
			url:          "https://github.com/scikit-beam/scikit-beam",
			wantProvider: "github",
			wantOrg:      "scikit-beam",
			wantRepo:     "scikit-beam",
		},
		{
			name:         "GitHub SSH",
			url:          "git@github.com:some-user/scikit-beam.git",
			wantProvider: "github",
			wantOrg:      "some-user",
			wantRepo:     "scikit-beam",
		},
		{
			name:         "GitLab HTTPS",
			url:          "https://gitlab.com/group/project.git",
			wantProvider: "gitlab",
			wantOrg:      "group",
			wantRepo:     "project",
		},
		{
			name:         "GitLab SSH",
			url:          "git@gitlab.com:group/project.git",
			wantProvider: "gitlab",
			wantOrg:      "group",
			wantRepo:     "project",
		},
		{
			name:         "URL with surrounding whitespace",
			url:          "  https://github.com/org/repo.git\n",
			wantProvider: "github",
			wantOrg:      "org",
			wantRepo:     "repo",
		},
	}

	for _, tt := range tests {
		t.Run("should parse "+tt.name, func(t *testing.T) {
			t.Parallel()

			// when
			info, err := workspace.ParseRemoteURL(tt.url)

			// then
			require.NoError(t, err)
			assert.Equal(t, tt.wantProvider, info.ProviderType)
			assert.Equal(t, tt.wantOrg, info.Org)
			assert.Equal(t, tt.wantRepo, info.RepoName)
		})
	}

	t.Run("should reject unsupported hosts", func(t *testing.T) {
		t.Parallel()

		// when
		_, err := workspace.ParseRemoteURL("https://example.org/org/repo.git")

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported git remote URL")
	})

	t.Run("should reject URLs without an org and repo", func(t *testing.T) {
		t.Parallel()

		// when
		_, err := workspace.ParseRemoteURL("https://github.com/just-an-org")

		// then
		require.Error(t, err)
	})
}

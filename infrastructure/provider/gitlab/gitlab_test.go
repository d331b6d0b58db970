package gitlab //nolint:testpackage // tests unexported functions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gl "gitlab.com/gitlab-org/api/client-go"

	"github.com/rios0rios0/autocontrib/domain"
)

func TestGitLabProvider(t *testing.T) {
	t.Parallel()

	t.Run("Name", func(t *testing.T) {
		t.Parallel()

		t.Run("should return gitlab", func(t *testing.T) {
			t.Parallel()

			// given
			p := New("token").(*Provider)

			// when
			name := p.Name()

			// then
			assert.Equal(t, "gitlab", name)
		})
	})

	t.Run("MatchesURL", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name     string
			url      string
			expected bool
		}{
			{
				name:     "should match HTTPS GitLab URL",
				url:      "https://gitlab.com/group/project.git",
				expected: true,
			},
			{
				name:     "should match SSH GitLab URL",
				url:      "git@gitlab.com:group/project.git",
				expected: true,
			},
			{
				name:     "should not match GitHub URL",
				url:      "https://github.com/scikit-beam/scikit-beam.git",
				expected: false,
			},
			{
				name:     "should not match Bitbucket URL",
				url:      "https://bitbucket.org/org/repo.git",
				expected: false,
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				// given
				p := New("token")

				// when
				result := p.MatchesURL(tt.url)

				// then
				assert.Equal(t, tt.expected, result)
			})
		}
	})

	t.Run("AuthToken", func(t *testing.T) {
		t.Parallel()

		t.Run("should return the configured token", func(t *testing.T) {
			t.Parallel()

			// given
			p := New("glpat-my-token")

			// when
			token := p.AuthToken()

			// then
			assert.Equal(t, "glpat-my-token", token)
		})
	})
}

func TestGitLabToRepository(t *testing.T) {
	t.Parallel()

	t.Run("should map the API project to the domain entity", func(t *testing.T) {
		t.Parallel()

		// given
		proj := &gl.Project{
			ID:            7,
			Path:          "scikit-beam",
			DefaultBranch: "master",
			HTTPURLToRepo: "https://gitlab.com/scikit-beam/scikit-beam.git",
			SSHURLToRepo:  "git@gitlab.com:scikit-beam/scikit-beam.git",
		}

		// when
		repo := toRepository("scikit-beam", proj)

		// then
		assert.Equal(t, "7", repo.ID)
		assert.Equal(t, "scikit-beam", repo.Name)
		assert.Equal(t, "scikit-beam", repo.Organization)
		assert.Equal(t, "refs/heads/master", repo.DefaultBranch)
		assert.Equal(t, "https://gitlab.com/scikit-beam/scikit-beam.git", repo.RemoteURL)
		assert.Equal(t, "gitlab", repo.ProviderName)
	})

	t.Run("should default the branch to main", func(t *testing.T) {
		t.Parallel()

		// when
		repo := toRepository("group", &gl.Project{Path: "project"})

		// then
		assert.Equal(t, "refs/heads/main", repo.DefaultBranch)
	})
}

func TestSplitForkHead(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		head           string
		expectedOwner  string
		expectedBranch string
	}{
		{
			name:           "should keep a plain branch name",
			head:           "docs/sync-reference-index",
			expectedOwner:  "",
			expectedBranch: "docs/sync-reference-index",
		},
		{
			name:           "should strip the refs prefix",
			head:           "refs/heads/docs/sync-reference-index",
			expectedOwner:  "",
			expectedBranch: "docs/sync-reference-index",
		},
		{
			name:           "should split a fork-qualified head",
			head:           "some-user:feat/docs-cleanup",
			expectedOwner:  "some-user",
			expectedBranch: "feat/docs-cleanup",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// when
			owner, branch := splitForkHead(tt.head)

			// then
			assert.Equal(t, tt.expectedOwner, owner)
			assert.Equal(t, tt.expectedBranch, branch)
		})
	}
}

func TestGitLabNilClient(t *testing.T) {
	t.Parallel()

	t.Run("should fail every API call without a client", func(t *testing.T) {
		t.Parallel()

		// given
		p := &Provider{token: "tok"}
		ctx := context.Background()
		repo := domain.Repository{Organization: "group", Name: "project"}

		// when / then
		_, err := p.DiscoverRepositories(ctx, "group")
		require.ErrorIs(t, err, errClientNotInitialized)

		_, err = p.GetFileContent(ctx, repo, "README.md")
		require.ErrorIs(t, err, errClientNotInitialized)

		_, err = p.ListFiles(ctx, repo, ".py")
		require.ErrorIs(t, err, errClientNotInitialized)

		_, err = p.GetTags(ctx, repo)
		require.ErrorIs(t, err, errClientNotInitialized)

		err = p.CreateBranchWithChanges(ctx, repo, domain.BranchInput{})
		require.ErrorIs(t, err, errClientNotInitialized)

		_, err = p.CreatePullRequest(ctx, repo, domain.PullRequestInput{})
		require.ErrorIs(t, err, errClientNotInitialized)

		_, err = p.PullRequestExists(ctx, repo, "branch")
		require.ErrorIs(t, err, errClientNotInitialized)
	})
}

func TestGitLabVersionSorting(t *testing.T) {
	t.Parallel()

	t.Run("should sort semver tags descending", func(t *testing.T) {
		t.Parallel()

		// given
		tags := []string{"v1.0.0", "v3.0.0", "v2.0.0"}

		// when
		sortVersionsDescending(tags)

		// then
		assert.Equal(t, []string{"v3.0.0", "v2.0.0", "v1.0.0"}, tags)
	})
}

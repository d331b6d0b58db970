package workspace

import (
	"fmt"
	"strings"
)

// RemoteInfo holds the parsed components of a Git remote URL.
type RemoteInfo struct {
	ProviderType string
	Org          string
	RepoName     string
}

const (
	providerGitHub = "github"
	providerGitLab = "gitlab"
)

// ParseRemoteURL extracts provider, org, and repo name from a Git remote
// URL. It supports HTTPS and SSH formats for GitHub and GitLab.
func ParseRemoteURL(rawURL string) (*RemoteInfo, error) {
	cleaned := strings.TrimSuffix(strings.TrimSpace(rawURL), ".git")

	switch {
	case strings.Contains(cleaned, "github.com"):
		org, repo, err := parseStandardGitURL(cleaned, "github.com")
		if err != nil {
			return nil, err
		}
		return &RemoteInfo{ProviderType: providerGitHub, Org: org, RepoName: repo}, nil

	case strings.Contains(cleaned, "gitlab.com"):
		org, repo, err := parseStandardGitURL(cleaned, "gitlab.com")
		if err != nil {
			return nil, err
		}
		return &RemoteInfo{ProviderType: providerGitLab, Org: org, RepoName: repo}, nil
	}

	return nil, fmt.Errorf("unsupported git remote URL: %s", rawURL)
}

// parseStandardGitURL handles the common HTTPS/SSH layout used by
// GitHub and GitLab:
//
//	HTTPS: https://{host}/{org}/{repo}[.git]
//	SSH:   git@{host}:{org}/{repo}[.git]
func parseStandardGitURL(url, hostname string) (string, string, error) {
	var pathPart string

	if strings.HasPrefix(url, "git@") {
		// git@{host}:{org}/{repo}
		parts := strings.SplitN(url, ":", 2)
		if len(parts) < 2 {
			return "", "", fmt.Errorf("invalid SSH URL: %s", url)
		}
		pathPart = parts[1]
	} else {
		// https://{host}/{org}/{repo}
		idx := strings.Index(url, hostname)
		if idx < 0 {
			return "", "", fmt.Errorf("hostname %s not found in URL: %s", hostname, url)
		}
		pathPart = strings.TrimPrefix(url[idx+len(hostname):], "/")
	}

	segments := strings.Split(pathPart, "/")
	if len(segments) < 2 {
		return "", "", fmt.Errorf("cannot extract org/repo from URL: %s", url)
	}

	return segments[0], segments[1], nil
}

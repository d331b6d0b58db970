package cmd

import (
	"os"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/autocontrib/application"
	"github.com/rios0rios0/autocontrib/config"
	"github.com/rios0rios0/autocontrib/infrastructure/workspace"
	"github.com/rios0rios0/autocontrib/policy"
)

const (
	providerGitHub = "github"
	providerGitLab = "gitlab"
)

// buildWorkflowService opens the checkout at repoDir and wires a workflow
// service using the config file when one exists and defaults otherwise.
// Local commands must keep working in a bare checkout with no config.
func buildWorkflowService(repoDir string) (*application.WorkflowService, *workspace.GitWorkspace, error) {
	ws, err := workspace.Open(repoDir)
	if err != nil {
		return nil, nil, err
	}

	wf := workflowConfig()
	pol := workflowPolicy(wf)

	svc := application.NewWorkflowService(ws, buildProviderRegistry(), wf, pol)
	return svc, ws, nil
}

// workflowConfig loads the workflow section of the config file, falling
// back to defaults when no file is found.
func workflowConfig() config.WorkflowConfig {
	cfgPath := configPath
	if cfgPath == "" {
		found, err := config.FindConfigFile()
		if err != nil {
			logger.Debugf("No config file found, using workflow defaults")
			return config.WorkflowConfig{
				UpstreamRemote: "upstream",
				OriginRemote:   "origin",
				DefaultBranch:  "main",
			}
		}
		cfgPath = found
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Warnf("Failed to load config %q, using workflow defaults: %v", cfgPath, err)
		return config.WorkflowConfig{
			UpstreamRemote: "upstream",
			OriginRemote:   "origin",
			DefaultBranch:  "main",
		}
	}
	return cfg.Workflow
}

// workflowPolicy loads the HCL policy file named by the config, falling
// back to the default policy.
func workflowPolicy(wf config.WorkflowConfig) policy.Policy {
	if wf.PolicyFile == "" {
		return policy.Default()
	}

	pol, err := policy.Load(wf.PolicyFile)
	if err != nil {
		logger.Warnf("Failed to load policy file, using defaults: %v", err)
		return policy.Default()
	}
	return pol
}

// resolveToken returns the auth token for the provider hosting the
// upstream remote, preferring the --token flag over environment variables.
func resolveToken(ws *workspace.GitWorkspace, upstreamRemote string) string {
	if tokenFlag != "" {
		return tokenFlag
	}

	url, err := ws.RemoteURL(upstreamRemote)
	if err != nil {
		return ""
	}
	info, err := workspace.ParseRemoteURL(url)
	if err != nil {
		return ""
	}
	return resolveTokenFromEnv(info.ProviderType)
}

// resolveTokenFromEnv reads the auth token from well-known environment
// variables for the given provider type.
func resolveTokenFromEnv(providerType string) string {
	switch providerType {
	case providerGitHub:
		if t := os.Getenv("GITHUB_TOKEN"); t != "" {
			return t
		}
		return os.Getenv("GH_TOKEN")
	case providerGitLab:
		if t := os.Getenv("GITLAB_TOKEN"); t != "" {
			return t
		}
		return os.Getenv("GL_TOKEN")
	default:
		return ""
	}
}

// tokenEnvHint returns a human-friendly hint about which environment
// variable to set for the given provider.
func tokenEnvHint(providerType string) string {
	switch providerType {
	case providerGitHub:
		return "GITHUB_TOKEN or GH_TOKEN"
	case providerGitLab:
		return "GITLAB_TOKEN or GL_TOKEN"
	default:
		return "<unknown provider>"
	}
}

// repoDirFromArgs returns the checkout directory for local commands.
func repoDirFromArgs(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

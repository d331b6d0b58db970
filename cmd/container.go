package cmd

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/autocontrib/application"
	"github.com/rios0rios0/autocontrib/config"
	providerPkg "github.com/rios0rios0/autocontrib/infrastructure/provider"
	ghProv "github.com/rios0rios0/autocontrib/infrastructure/provider/github"
	glProv "github.com/rios0rios0/autocontrib/infrastructure/provider/gitlab"
	taskPkg "github.com/rios0rios0/autocontrib/infrastructure/task"
	"github.com/rios0rios0/autocontrib/infrastructure/task/doccoverage"
	"github.com/rios0rios0/autocontrib/infrastructure/task/docsindex"
)

// buildProviderRegistry registers every supported hosting provider.
func buildProviderRegistry() *providerPkg.Registry {
	reg := providerPkg.NewRegistry()
	reg.Register("github", ghProv.New)
	reg.Register("gitlab", glProv.New)
	return reg
}

// buildTaskRegistry registers every audit task, configured from the
// config file where tasks take settings.
func buildTaskRegistry(cfg *config.Config) *taskPkg.Registry {
	indexPath := ""
	if taskCfg, ok := cfg.Tasks["docsindex"]; ok {
		indexPath = taskCfg.IndexPath
	}

	reg := taskPkg.NewRegistry()
	reg.Register(docsindex.New(indexPath))
	reg.Register(doccoverage.New())
	return reg
}

// buildAuditService wires the registries and the service through DIG.
func buildAuditService(cfg *config.Config) (*application.AuditService, error) {
	container := dig.New()

	if err := container.Provide(buildProviderRegistry); err != nil {
		return nil, err
	}
	if err := container.Provide(func() *taskPkg.Registry {
		return buildTaskRegistry(cfg)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(application.NewAuditService); err != nil {
		return nil, err
	}

	var svc *application.AuditService
	if err := container.Invoke(func(s *application.AuditService) {
		svc = s
	}); err != nil {
		return nil, err
	}

	return svc, nil
}

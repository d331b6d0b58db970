// Package doccoverage reports how many public symbols carry a docstring.
// It is report-only: it never opens pull requests.
package doccoverage

import (
	"context"
	"fmt"
	"sort"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/autocontrib/domain"
	"github.com/rios0rios0/autocontrib/infrastructure/task/docsindex"
)

const taskName = "doccoverage"

// Task implements domain.Task as a docstring coverage report.
type Task struct{}

// New creates the doccoverage task.
func New() domain.Task {
	return &Task{}
}

func (t *Task) Name() string { return taskName }

// Detect returns true if the repository contains Python sources.
func (t *Task) Detect(
	ctx context.Context,
	provider domain.Provider,
	repo domain.Repository,
) bool {
	files, err := provider.ListFiles(ctx, repo, ".py")
	if err != nil {
		return false
	}
	for _, f := range files {
		if !f.IsDir && !docsindex.IsTestFile(f.Path) {
			return true
		}
	}
	return false
}

// Run scans the source tree and logs per-module docstring coverage.
func (t *Task) Run(
	ctx context.Context,
	provider domain.Provider,
	repo domain.Repository,
	opts domain.TaskOptions,
) ([]domain.PullRequest, error) {
	files, err := provider.ListFiles(ctx, repo, ".py")
	if err != nil {
		return nil, fmt.Errorf("failed to list Python sources: %w", err)
	}

	var symbols []domain.SymbolDef
	for _, f := range files {
		if f.IsDir || docsindex.IsTestFile(f.Path) {
			continue
		}
		if opts.SourceRoot != "" && !strings.HasPrefix(f.Path, opts.SourceRoot) {
			continue
		}

		src, srcErr := provider.GetFileContent(ctx, repo, f.Path)
		if srcErr != nil {
			logger.Warnf("[doccoverage] Failed to read %s: %v", f.Path, srcErr)
			continue
		}
		symbols = append(symbols, docsindex.ScanPythonSource(src, f.Path, opts.SourceRoot)...)
	}

	report := Summarize(symbols)
	for _, line := range report.Lines() {
		logger.Infof("[doccoverage] %s", line)
	}
	logger.Infof(
		"[doccoverage] %s/%s: %d/%d public symbols documented (%.1f%%)",
		repo.Organization, repo.Name,
		report.Documented, report.Total, report.Percent(),
	)

	return []domain.PullRequest{}, nil
}

// Report aggregates docstring coverage per module.
type Report struct {
	Total      int
	Documented int
	PerModule  map[string]*ModuleCoverage
}

// ModuleCoverage tracks coverage within a single module.
type ModuleCoverage struct {
	Total      int
	Documented int
	Undoc      []string // names missing a docstring
}

// Summarize builds a coverage report from scanned symbols.
func Summarize(symbols []domain.SymbolDef) Report {
	report := Report{PerModule: make(map[string]*ModuleCoverage)}

	for _, s := range symbols {
		mc, ok := report.PerModule[s.Module]
		if !ok {
			mc = &ModuleCoverage{}
			report.PerModule[s.Module] = mc
		}

		report.Total++
		mc.Total++
		if s.HasDocstring {
			report.Documented++
			mc.Documented++
		} else {
			mc.Undoc = append(mc.Undoc, s.Name)
		}
	}

	return report
}

// Percent returns overall coverage; an empty tree counts as fully covered.
func (r Report) Percent() float64 {
	if r.Total == 0 {
		return 100.0
	}
	return float64(r.Documented) / float64(r.Total) * 100.0
}

// Lines renders one log line per module, sorted by module name.
func (r Report) Lines() []string {
	modules := make([]string, 0, len(r.PerModule))
	for m := range r.PerModule {
		modules = append(modules, m)
	}
	sort.Strings(modules)

	out := make([]string, 0, len(modules))
	for _, m := range modules {
		mc := r.PerModule[m]
		line := fmt.Sprintf("%s: %d/%d documented", m, mc.Documented, mc.Total)
		if len(mc.Undoc) > 0 {
			line += " (missing: " + strings.Join(mc.Undoc, ", ") + ")"
		}
		out = append(out, line)
	}
	return out
}

// Package policy loads the optional workflow policy file. The policy
// controls branch naming and which branches must never be rewritten; it is
// written in HCL so maintainers can keep it next to their other
// infrastructure files.
package policy

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// Policy holds branch-naming and protection rules for the contributor
// workflow.
type Policy struct {
	BranchPrefix string   // prepended to feature branch names
	BackupPrefix string   // prepended to backup refs created before a rewrite
	Protected    []string // branches that refuse feature work and rebases
	PRTitleFmt   string   // fmt pattern for generated PR titles, %s = branch
}

// Default returns the policy used when no policy file is configured.
func Default() Policy {
	return Policy{
		BranchPrefix: "feat/",
		BackupPrefix: "backup/",
		Protected:    []string{"main", "master"},
		PRTitleFmt:   "%s",
	}
}

// Load reads and parses a policy file, falling back to defaults for any
// attribute the file does not set.
func Load(path string) (Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), fmt.Errorf("failed to read policy file %q: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes policy content. Unknown attributes inside the workflow
// block are rejected so typos surface instead of silently using defaults.
func Parse(content []byte, filename string) (Policy, error) {
	pol := Default()

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(content, filename)
	if diags.HasErrors() {
		return pol, fmt.Errorf("failed to parse policy file: %w", diags)
	}

	bodyContent, _, diags := file.Body.PartialContent(&hcl.BodySchema{
		Blocks: []hcl.BlockHeaderSchema{
			{Type: "workflow"},
		},
	})
	if diags.HasErrors() {
		return pol, fmt.Errorf("failed to read policy file: %w", diags)
	}

	for _, block := range bodyContent.Blocks {
		if err := decodeWorkflowBlock(block, &pol); err != nil {
			return pol, err
		}
	}

	return pol, nil
}

// IsProtected reports whether the given branch must not be rewritten or
// used for feature work.
func (p Policy) IsProtected(branch string) bool {
	short := strings.TrimPrefix(branch, "refs/heads/")
	for _, name := range p.Protected {
		if short == name {
			return true
		}
	}
	return false
}

// FeatureBranch returns the full branch name for a feature, applying the
// prefix unless the caller already included it.
func (p Policy) FeatureBranch(name string) string {
	if strings.HasPrefix(name, p.BranchPrefix) {
		return name
	}
	return p.BranchPrefix + name
}

// PRTitle renders the PR title for a published branch.
func (p Policy) PRTitle(branch string) string {
	return fmt.Sprintf(p.PRTitleFmt, branch)
}

func decodeWorkflowBlock(block *hcl.Block, pol *Policy) error {
	attrs, diags := block.Body.JustAttributes()
	if diags.HasErrors() {
		return fmt.Errorf("failed to read workflow block: %w", diags)
	}

	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return fmt.Errorf("failed to evaluate %q: %w", name, diags)
		}

		switch name {
		case "branch_prefix":
			s, err := stringValue(name, val)
			if err != nil {
				return err
			}
			pol.BranchPrefix = s
		case "backup_prefix":
			s, err := stringValue(name, val)
			if err != nil {
				return err
			}
			pol.BackupPrefix = s
		case "pr_title_format":
			s, err := stringValue(name, val)
			if err != nil {
				return err
			}
			pol.PRTitleFmt = s
		case "protected":
			names, err := stringListValue(name, val)
			if err != nil {
				return err
			}
			pol.Protected = names
		default:
			return fmt.Errorf(
				"unknown attribute %q in workflow block at %s",
				name, attr.Range.String(),
			)
		}
	}

	return nil
}

func stringValue(name string, val cty.Value) (string, error) {
	if val.Type() != cty.String {
		return "", fmt.Errorf("attribute %q must be a string", name)
	}
	return val.AsString(), nil
}

func stringListValue(name string, val cty.Value) ([]string, error) {
	if !val.Type().IsTupleType() && !val.Type().IsListType() {
		return nil, fmt.Errorf("attribute %q must be a list of strings", name)
	}

	var out []string
	for _, item := range val.AsValueSlice() {
		if item.Type() != cty.String {
			return nil, fmt.Errorf("attribute %q must contain only strings", name)
		}
		out = append(out, item.AsString())
	}
	return out, nil
}

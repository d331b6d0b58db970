package docsindex

import (
	"regexp"
	"sort"
	"strings"

	"github.com/rios0rios0/autocontrib/domain"
)

// Reference indexes use Sphinx-style directives:
//
//	.. currentmodule:: skbeam.core.recon
//
//	.. autosummary::
//	   :toctree: generated/
//	   :nosignatures:
//
//	   cdi_recon
//	   pi_modulus
//
// A block's entries are the indented non-option lines under the
// autosummary directive. The block ends at the first line that is neither
// blank nor indented.
var (
	currentModulePattern = regexp.MustCompile(`^\.\.\s+(?:currentmodule|module)::\s*(\S+)`)
	autosummaryPattern   = regexp.MustCompile(`^\.\.\s+autosummary::`)
	optionPattern        = regexp.MustCompile(`^\s+:[\w-]+:`)
	entryPattern         = regexp.MustCompile(`^(\s+)([A-Za-z_][\w.]*)\s*$`)

	defPattern   = regexp.MustCompile(`^def\s+([A-Za-z_]\w*)\s*\(`)
	classPattern = regexp.MustCompile(`^class\s+([A-Za-z_]\w*)\s*[(:]`)
)

// indexBlock is one autosummary directive with its surrounding context,
// kept so RenderIndex can edit blocks in place.
type indexBlock struct {
	Module     string
	Indent     string
	EntryLines []int // zero-based line numbers of entries
	LastLine   int   // zero-based line number of the last entry (or the directive)
}

// ParseIndex extracts the entries listed in a reference index.
func ParseIndex(content string) []domain.IndexEntry {
	entries, _ := parseBlocks(content)
	return entries
}

// IndexModules returns the set of modules the index declares blocks for.
func IndexModules(content string) map[string]bool {
	_, blocks := parseBlocks(content)
	modules := make(map[string]bool, len(blocks))
	for _, b := range blocks {
		modules[b.Module] = true
	}
	return modules
}

func parseBlocks(content string) ([]domain.IndexEntry, []indexBlock) {
	lines := strings.Split(content, "\n")

	var entries []domain.IndexEntry
	var blocks []indexBlock

	currentModule := ""
	inBlock := false
	var block indexBlock

	flush := func() {
		if inBlock {
			blocks = append(blocks, block)
			inBlock = false
		}
	}

	for i, line := range lines {
		if m := currentModulePattern.FindStringSubmatch(line); m != nil {
			flush()
			currentModule = m[1]
			continue
		}

		if autosummaryPattern.MatchString(line) {
			flush()
			inBlock = true
			block = indexBlock{Module: currentModule, Indent: "   ", LastLine: i}
			continue
		}

		if !inBlock {
			continue
		}

		switch {
		case strings.TrimSpace(line) == "":
			// Blank lines separate options from entries; the block continues.
		case optionPattern.MatchString(line):
			block.LastLine = i
		default:
			m := entryPattern.FindStringSubmatch(line)
			if m == nil {
				// Dedented or unparseable line ends the block.
				flush()
				continue
			}

			module, name := splitQualified(currentModule, m[2])
			entries = append(entries, domain.IndexEntry{
				Module: module,
				Name:   name,
				Line:   i + 1,
			})
			block.Indent = m[1]
			block.EntryLines = append(block.EntryLines, i)
			block.LastLine = i
		}
	}
	flush()

	return entries, blocks
}

// splitQualified resolves an entry name against the current module. Fully
// qualified entries override the directive context.
func splitQualified(currentModule, name string) (string, string) {
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		return name[:idx], name[idx+1:]
	}
	return currentModule, name
}

// ScanPythonSource extracts public top-level functions and classes from a
// Python file. Private symbols (leading underscore) and test files are
// skipped by the caller.
func ScanPythonSource(content, filePath, sourceRoot string) []domain.SymbolDef {
	module := modulePath(filePath, sourceRoot)
	lines := strings.Split(content, "\n")

	var symbols []domain.SymbolDef
	for i, line := range lines {
		name, kind := matchDefinition(line)
		if name == "" || strings.HasPrefix(name, "_") {
			continue
		}

		symbols = append(symbols, domain.SymbolDef{
			Module:       module,
			Name:         name,
			Kind:         kind,
			FilePath:     filePath,
			Line:         i + 1,
			HasDocstring: hasDocstring(lines, i),
		})
	}

	return symbols
}

func matchDefinition(line string) (string, string) {
	if m := defPattern.FindStringSubmatch(line); m != nil {
		return m[1], "function"
	}
	if m := classPattern.FindStringSubmatch(line); m != nil {
		return m[1], "class"
	}
	return "", ""
}

// hasDocstring checks whether the statement starting at defLine is
// immediately followed by a string literal. Multi-line signatures are
// skipped up to the line ending with a colon.
func hasDocstring(lines []string, defLine int) bool {
	i := defLine
	for ; i < len(lines); i++ {
		trimmed := strings.TrimRight(lines[i], " \t")
		if strings.HasSuffix(trimmed, ":") {
			break
		}
	}

	for j := i + 1; j < len(lines); j++ {
		trimmed := strings.TrimSpace(lines[j])
		if trimmed == "" {
			continue
		}
		return strings.HasPrefix(trimmed, `"""`) ||
			strings.HasPrefix(trimmed, "'''") ||
			strings.HasPrefix(trimmed, `r"""`)
	}
	return false
}

// modulePath converts a repository file path into a dotted module path.
// "skbeam/core/recon.py" -> "skbeam.core.recon"; package __init__ files
// map to the package itself.
func modulePath(filePath, sourceRoot string) string {
	p := strings.TrimPrefix(filePath, sourceRoot)
	p = strings.TrimPrefix(p, "/")
	p = strings.TrimSuffix(p, ".py")
	p = strings.TrimSuffix(p, "/__init__")
	return strings.ReplaceAll(p, "/", ".")
}

// IsTestFile reports whether the path looks like a Python test module.
func IsTestFile(path string) bool {
	base := path
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		base = path[idx+1:]
	}
	return strings.HasPrefix(base, "test_") || strings.HasSuffix(base, "_test.py") ||
		strings.Contains(path, "/tests/")
}

// RenderIndex returns the index content with stale entries removed and
// missing symbols inserted into the block matching their module. The
// second return value is false when nothing changed.
func RenderIndex(content string, report domain.IndexReport) (string, bool) {
	if report.InSync() {
		return content, false
	}

	lines := strings.Split(content, "\n")
	_, blocks := parseBlocks(content)

	staleLines := make(map[int]bool, len(report.Stale))
	for _, e := range report.Stale {
		staleLines[e.Line-1] = true
	}

	// Group missing symbols by module, sorted for stable output.
	missingByModule := make(map[string][]string)
	for _, s := range report.Missing {
		missingByModule[s.Module] = append(missingByModule[s.Module], s.Name)
	}
	for _, names := range missingByModule {
		sort.Strings(names)
	}

	// Insertions keyed by the line after which new entries go.
	insertions := make(map[int][]string)
	for _, b := range blocks {
		names, ok := missingByModule[b.Module]
		if !ok {
			continue
		}
		if len(b.EntryLines) == 0 {
			// The anchor is the directive or an option line; reST needs a
			// blank line before the entry list starts.
			insertions[b.LastLine] = append(insertions[b.LastLine], "")
		}
		for _, name := range names {
			insertions[b.LastLine] = append(insertions[b.LastLine], b.Indent+name)
		}
		delete(missingByModule, b.Module)
	}

	var out []string
	changed := false
	for i, line := range lines {
		if staleLines[i] {
			changed = true
		} else {
			out = append(out, line)
		}
		// The anchor line may itself be stale; the insertion still happens
		// at its position.
		if added, ok := insertions[i]; ok {
			out = append(out, added...)
			changed = true
		}
	}

	return strings.Join(out, "\n"), changed
}

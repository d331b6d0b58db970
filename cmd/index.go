package cmd

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/autocontrib/domain"
	"github.com/rios0rios0/autocontrib/infrastructure/task/docsindex"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var (
	indexFile    string
	sourceRoot   string
	outputFormat string
	writeIndex   bool
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var indexCmd = &cobra.Command{
	Use:   "index [path]",
	Short: "Audit the API reference index of a local checkout",
	Long: `Scan the Python sources of a local checkout, compare the public
symbols against the reference index, and report the drift.

With --write the index file is rewritten in place: stale entries are
removed and missing symbols are inserted into the block matching their
module.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndex,
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	indexCmd.Flags().StringVar(&indexFile, "index", "docs/reference/index.rst",
		"Path of the reference index relative to the checkout")
	indexCmd.Flags().StringVar(&sourceRoot, "source-root", "",
		"Restrict the source scan to this subdirectory")
	indexCmd.Flags().StringVar(&outputFormat, "output", "table",
		"Output format: table, json, or markdown")
	indexCmd.Flags().BoolVar(&writeIndex, "write", false,
		"Rewrite the index file in place")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(_ *cobra.Command, args []string) error {
	repoDir := repoDirFromArgs(args)

	content, err := os.ReadFile(filepath.Join(repoDir, indexFile))
	if err != nil {
		return fmt.Errorf("failed to read reference index: %w", err)
	}

	symbols, err := scanLocalSources(repoDir, sourceRoot)
	if err != nil {
		return err
	}

	report := docsindex.BuildLocalReport(indexFile, string(content), symbols, sourceRoot)

	switch outputFormat {
	case "json":
		if jsonErr := printReportJSON(report); jsonErr != nil {
			return jsonErr
		}
	case "markdown":
		printReportMarkdown(report)
	default:
		printReportTable(report)
	}

	if writeIndex && !report.InSync() {
		newContent, changed := docsindex.RenderIndex(string(content), report)
		if !changed {
			logger.Warn("Drift found but the index has no matching blocks to edit")
			return nil
		}
		if writeErr := os.WriteFile(
			filepath.Join(repoDir, indexFile), []byte(newContent), 0o644,
		); writeErr != nil {
			return fmt.Errorf("failed to write index: %w", writeErr)
		}
		logger.Infof("Rewrote %s", indexFile)
	}

	return nil
}

// scanLocalSources walks the checkout collecting public symbols from
// Python sources, skipping tests and hidden directories.
func scanLocalSources(repoDir, root string) ([]domain.SymbolDef, error) {
	scanDir := repoDir
	if root != "" {
		scanDir = filepath.Join(repoDir, root)
	}

	var symbols []domain.SymbolDef
	walkErr := filepath.WalkDir(scanDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != scanDir {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".py") {
			return nil
		}

		rel, relErr := filepath.Rel(repoDir, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		if docsindex.IsTestFile(rel) {
			return nil
		}

		content, readErr := os.ReadFile(path)
		if readErr != nil {
			logger.Warnf("Failed to read %s: %v", rel, readErr)
			return nil
		}

		symbols = append(symbols, docsindex.ScanPythonSource(string(content), rel, root)...)
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("failed to scan sources: %w", walkErr)
	}

	return symbols, nil
}

type indexRow struct {
	Symbol string `json:"symbol"`
	Kind   string `json:"kind,omitempty"`
	File   string `json:"file,omitempty"`
	Line   int    `json:"line,omitempty"`
	Status string `json:"status"`
}

func reportRows(report domain.IndexReport) []indexRow {
	var rows []indexRow
	for _, s := range report.Missing {
		rows = append(rows, indexRow{
			Symbol: s.Qualified(),
			Kind:   s.Kind,
			File:   s.FilePath,
			Line:   s.Line,
			Status: "missing",
		})
	}
	for _, e := range report.Stale {
		rows = append(rows, indexRow{
			Symbol: e.Qualified(),
			File:   report.IndexPath,
			Line:   e.Line,
			Status: "stale",
		})
	}
	return rows
}

func printReportTable(report domain.IndexReport) {
	rows := reportRows(report)
	if len(rows) == 0 {
		fmt.Printf("Reference index is in sync (%d entries).\n", len(report.Entries))
		return
	}

	symbolW := len("Symbol")
	fileW := len("File")
	for _, r := range rows {
		if len(r.Symbol) > symbolW {
			symbolW = len(r.Symbol)
		}
		if len(r.File) > fileW {
			fileW = len(r.File)
		}
	}
	if symbolW > 50 {
		symbolW = 50
	}
	if fileW > 40 {
		fileW = 40
	}

	fmt.Printf("%-*s  %-10s  %-*s  %-6s  %s\n",
		symbolW, "Symbol", "Kind", fileW, "File", "Line", "Status")
	fmt.Println(strings.Repeat("-", symbolW+fileW+32))

	for _, r := range rows {
		line := ""
		if r.Line > 0 {
			line = fmt.Sprintf("%d", r.Line)
		}
		fmt.Printf("%-*s  %-10s  %-*s  %-6s  %s\n",
			symbolW, truncate(r.Symbol, symbolW),
			r.Kind,
			fileW, truncate(r.File, fileW),
			line, r.Status)
	}

	fmt.Println()
	fmt.Printf(
		"Total: %d entries, %d missing, %d stale\n",
		len(report.Entries), len(report.Missing), len(report.Stale),
	)
}

func printReportMarkdown(report domain.IndexReport) {
	fmt.Println("| Symbol | Kind | File | Line | Status |")
	fmt.Println("|--------|------|------|------|--------|")
	for _, r := range reportRows(report) {
		line := ""
		if r.Line > 0 {
			line = fmt.Sprintf("%d", r.Line)
		}
		fmt.Printf("| %s | %s | %s | %s | %s |\n", r.Symbol, r.Kind, r.File, line, r.Status)
	}
}

func printReportJSON(report domain.IndexReport) error {
	rows := reportRows(report)
	if rows == nil {
		rows = []indexRow{}
	}
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

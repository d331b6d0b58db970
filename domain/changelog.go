package domain

import "strings"

const (
	unreleasedHeader = "## [Unreleased]"
	changedHeader    = "### Changed"
)

// InsertChangelogEntry inserts entries into the Changed subsection of the
// Unreleased section of a Keep-a-Changelog document. The subsection is
// created right after the Unreleased header when absent. Content without
// an Unreleased section is returned unchanged.
func InsertChangelogEntry(content string, entries []string) string {
	if len(entries) == 0 {
		return content
	}

	idx := strings.Index(content, unreleasedHeader)
	if idx < 0 {
		return content
	}

	headerEnd := idx + len(unreleasedHeader)

	// The Unreleased section runs until the next release header.
	sectionEnd := len(content)
	if next := strings.Index(content[headerEnd:], "\n## "); next >= 0 {
		sectionEnd = headerEnd + next + 1
	}

	block := strings.Join(entries, "\n")
	section := content[idx:sectionEnd]

	changedIdx := strings.Index(section, changedHeader)
	if changedIdx < 0 {
		// No Changed subsection yet; open one right after the header.
		body := strings.TrimLeft(content[headerEnd:sectionEnd], "\n")
		out := content[:headerEnd] + "\n\n" + changedHeader + "\n\n" + block + "\n\n"
		if body != "" {
			out += body
		}
		return out + content[sectionEnd:]
	}

	// Append to the existing subsection, before the next subsection.
	subStart := idx + changedIdx + len(changedHeader)
	subEnd := sectionEnd
	if next := strings.Index(content[subStart:sectionEnd], "\n### "); next >= 0 {
		subEnd = subStart + next + 1
	}

	head := strings.TrimRight(content[idx:subEnd], "\n")
	return content[:idx] + head + "\n" + block + "\n\n" + content[subEnd:]
}

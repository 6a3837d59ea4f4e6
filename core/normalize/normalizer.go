// Package normalize prepares Markdown for an HTML renderer.
// It fixes shallow list indentation, forces line breaks inside citation
// sections and tidies blank lines around lists, so that nested lists and
// reference blocks render the way they read in plain text.
//
// Every function in this package is pure and safe for concurrent use.
package normalize

import "strings"

// MarkdownNormalizer implements core.Normalizer.
type MarkdownNormalizer struct{}

// New creates a MarkdownNormalizer.
func New() *MarkdownNormalizer {
	return &MarkdownNormalizer{}
}

// Normalize runs the full normalization pass over markdown.
func (n *MarkdownNormalizer) Normalize(markdown string) string {
	return Normalize(markdown)
}

// Normalize applies FixIndentation, FormatCitations and CleanBlankLines in
// that order. Whitespace-only input is returned unchanged; any other input
// comes back with exactly one trailing newline.
func Normalize(markdown string) string {
	if IsBlank(markdown) {
		return markdown
	}

	lines := strings.Split(markdown, "\n")
	lines = FixIndentation(lines)
	lines = FormatCitations(lines)
	lines = CleanBlankLines(lines)

	out := strings.Join(lines, "\n")
	if out != "" && !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out
}

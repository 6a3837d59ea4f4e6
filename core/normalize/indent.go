// Package normalize — list indentation.
package normalize

import (
	"strings"
	"unicode"
)

// nestedIndent is the indentation most renderers need before they treat a
// list item as a child of the item above it.
const nestedIndent = "    "

// FixIndentation widens list items indented by fewer than four characters
// to exactly four spaces. Other lines are returned untouched, and the
// result always has the same length as the input.
func FixIndentation(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = fixIndent(line)
	}
	return out
}

func fixIndent(line string) string {
	if !IsListItem(line) {
		return line
	}
	if indent := IndentWidth(line); indent > 0 && indent < len(nestedIndent) {
		return nestedIndent + strings.TrimLeftFunc(line, unicode.IsSpace)
	}
	return line
}

// Package normalize — line classification.
// Pure predicates over a single Markdown line. None of them look at
// neighbouring lines; the stages that need context do their own lookahead.
package normalize

import (
	"strings"
	"unicode"
)

// ListKind tells unordered and ordered list items apart.
type ListKind int

const (
	ListNone ListKind = iota
	ListUnordered
	ListOrdered
)

// String returns the lowercase name of the list kind.
func (k ListKind) String() string {
	switch k {
	case ListUnordered:
		return "unordered"
	case ListOrdered:
		return "ordered"
	default:
		return "none"
	}
}

var unorderedMarkers = []string{"- ", "* ", "+ "}

// ListKindOf classifies a line as an unordered item ("- ", "* ", "+ "),
// an ordered item ("12. ") or neither. Leading indentation is ignored.
func ListKindOf(line string) ListKind {
	stripped := strings.TrimLeftFunc(line, unicode.IsSpace)

	for _, marker := range unorderedMarkers {
		if strings.HasPrefix(stripped, marker) {
			return ListUnordered
		}
	}

	if len(stripped) > 2 {
		number, _, found := strings.Cut(stripped, ". ")
		if found && isDigits(number) {
			return ListOrdered
		}
	}
	return ListNone
}

// IsListItem reports whether the line starts an ordered or unordered item.
func IsListItem(line string) bool {
	return ListKindOf(line) != ListNone
}

// IsBlank reports whether the line has no non-whitespace characters.
func IsBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// IndentWidth counts the leading whitespace characters of line.
func IndentWidth(line string) int {
	return len(line) - len(strings.TrimLeftFunc(line, unicode.IsSpace))
}

// IsNested reports whether the line is indented and has content after the
// indent. Whitespace-only lines are not nested.
func IsNested(line string) bool {
	return IndentWidth(line) > 0 && !IsBlank(line)
}

// IsHeader reports whether the line is an ATX heading such as "## Usage".
func IsHeader(line string) bool {
	stripped := strings.TrimSpace(line)
	return strings.HasPrefix(stripped, "#") && strings.Contains(stripped, " ")
}

// IsCitationLine reports whether the line is a numbered citation of the
// form "[12] Some source".
func IsCitationLine(line string) bool {
	stripped := strings.TrimSpace(line)
	if !strings.HasPrefix(stripped, "[") {
		return false
	}
	end := strings.Index(stripped, "]")
	if end <= 1 {
		return false
	}
	return isDigits(stripped[1:end])
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

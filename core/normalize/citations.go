// Package normalize — citation sections.
// A renderer merges consecutive non-blank lines into one paragraph, which
// collapses a reference list into a single run of text. This stage keeps
// each entry on its own visual line without splitting the block into
// separate paragraphs.
package normalize

import (
	"strings"
	"unicode"
)

const (
	// headerBreak follows a section caption so the first entry starts on
	// the next line.
	headerBreak = "<br>"
	// softBreak is the Markdown hard line break: two trailing spaces.
	softBreak = "  "
)

// sectionCaptions are the captions that open a citation section, compared
// after trimming and lower-casing.
var sectionCaptions = map[string]bool{
	"citations:":    true,
	"references:":   true,
	"bibliography:": true,
}

// IsSectionCaption reports whether line opens a citation section.
func IsSectionCaption(line string) bool {
	return sectionCaptions[strings.ToLower(strings.TrimSpace(line))]
}

// FormatCitations forces line breaks inside "Citations:", "References:"
// and "Bibliography:" sections. The caption gets a trailing <br> and every
// "[n] ..." entry gets a trailing soft break. A section ends at the first
// non-citation line, or at a blank line followed by non-citation content.
func FormatCitations(lines []string) []string {
	out := make([]string, 0, len(lines))

	for i := 0; i < len(lines); {
		line := lines[i]
		if !IsSectionCaption(line) {
			out = append(out, line)
			i++
			continue
		}

		out = append(out, strings.TrimRightFunc(line, unicode.IsSpace)+headerBreak)
		i++
		i = formatSection(lines, i, &out)
	}
	return out
}

// formatSection emits the body of a citation section starting at lines[i]
// and returns the index of the first line that belongs to the outer scan.
func formatSection(lines []string, i int, out *[]string) int {
	for ; i < len(lines); i++ {
		line := lines[i]

		if IsBlank(line) && endsSectionAfterBlank(lines, i) {
			*out = append(*out, line)
			return i + 1
		}

		if !IsBlank(line) && !IsCitationLine(line) {
			// Left for the outer scan; it may open another section.
			return i
		}

		if IsCitationLine(line) {
			*out = append(*out, strings.TrimRightFunc(line, unicode.IsSpace)+softBreak)
		} else {
			*out = append(*out, line)
		}
	}
	return i
}

// endsSectionAfterBlank reports whether the blank line at i is followed by
// non-citation content.
func endsSectionAfterBlank(lines []string, i int) bool {
	if i+1 >= len(lines) {
		return false
	}
	next := lines[i+1]
	return !IsBlank(next) && !IsCitationLine(next)
}

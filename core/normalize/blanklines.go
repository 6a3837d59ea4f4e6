// Package normalize — blank line cleanup.
// Renderers wrap list items separated by blank lines in <p> tags and split
// them into loose lists. This stage keeps sibling items and their nested
// content tight, while still separating a list from the prose before it.
package normalize

// blankState is carried across the scan in CleanBlankLines.
type blankState struct {
	prevBlank    bool
	inListBlock  bool
	prevIsHeader bool
}

// CleanBlankLines collapses runs of blank lines, removes blank lines inside
// list blocks and inserts one blank line between prose and a following
// top-level list. No blank line is inserted directly after a heading.
// Whitespace-only lines come back as empty strings.
func CleanBlankLines(lines []string) []string {
	out := make([]string, 0, len(lines)+1)
	var st blankState

	for i, raw := range lines {
		line := cleanBlank(raw)
		blank := IsBlank(line)
		listItem := IsListItem(line)
		nested := IsNested(line)
		topLevel := listItem && !nested

		nextTopLevel := false
		hasNext := i+1 < len(lines)
		if hasNext {
			next := cleanBlank(lines[i+1])
			nextTopLevel = IsListItem(next) && !IsNested(next)
		}

		switch {
		case blank && st.prevBlank:
			continue
		case blank && st.inListBlock && nextTopLevel:
			continue
		}

		if topLevel && !st.inListBlock && !st.prevBlank && !st.prevIsHeader && i > 0 && len(out) > 0 {
			out = append(out, "")
		}

		if blank && st.inListBlock && hasNext && IndentWidth(lines[i+1]) > 0 {
			continue
		}

		out = append(out, line)
		st.prevBlank = blank

		if blank {
			continue
		}
		if topLevel {
			st.inListBlock = true
		} else if !listItem && !nested {
			st.inListBlock = false
		}
		st.prevIsHeader = IsHeader(line)
	}
	return out
}

// cleanBlank reduces whitespace-only lines to "" so trailing spaces on an
// otherwise empty line never reach the renderer.
func cleanBlank(line string) string {
	if IsBlank(line) {
		return ""
	}
	return line
}

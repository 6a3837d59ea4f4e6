// Package frontmatter splits a leading YAML block off a Markdown document.
//
//	---
//	title: Quarterly report
//	lang: en
//	theme: dark-sage
//	---
//	# Body starts here
//
// The block must open on the very first line and set title, lang or theme.
// Anything else starting with "---" is left to the Markdown renderer.
package frontmatter

import (
	"strings"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// Matter is the parsed front matter.
type Matter struct {
	Title    string `yaml:"title"`
	Language string `yaml:"lang"`
	Theme    string `yaml:"theme"`
	// Attributes holds every key, including the ones above.
	Attributes map[string]any `yaml:"-"`
}

// knownKeys are the keys that mark a leading block as front matter.
var knownKeys = []string{"title", "lang", "theme"}

// Split separates front matter from body. The block counts as front matter
// only when it is a YAML mapping with at least one known key; otherwise the
// zero Matter and the input are returned unchanged, since a leading "---"
// is also a thematic break. The body keeps the input's line endings.
func Split(markdown string) (Matter, string) {
	lines := strings.SplitAfter(markdown, "\n")
	if !isDelimiter(lines[0]) {
		return Matter{}, markdown
	}

	closing := -1
	for i := 1; i < len(lines); i++ {
		if isDelimiter(lines[i]) {
			closing = i
			break
		}
	}
	if closing < 0 {
		return Matter{}, markdown
	}

	block := []byte(strings.Join(lines[1:closing], ""))
	var attrs map[string]any
	if err := yaml.Unmarshal(block, &attrs); err != nil || !hasKnownKey(attrs) {
		return Matter{}, markdown
	}
	var m Matter
	if err := yaml.Unmarshal(block, &m); err != nil {
		return Matter{}, markdown
	}
	m.Attributes = attrs
	return m, strings.Join(lines[closing+1:], "")
}

func isDelimiter(line string) bool {
	return strings.TrimRight(line, "\r\n") == delimiter
}

func hasKnownKey(attrs map[string]any) bool {
	for _, k := range knownKeys {
		if _, ok := attrs[k]; ok {
			return true
		}
	}
	return false
}

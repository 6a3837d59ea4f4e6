// Package render — JSON renderer.
// Describes a normalized document as JSON: metadata, plain text, sections
// and structural counts (headings, links, code blocks, tables, list items,
// citations).
package render

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/gaurav-prasanna/pagepress/core"
	"github.com/gaurav-prasanna/pagepress/core/normalize"
)

// JSONRenderer produces structured JSON output from Markdown.
type JSONRenderer struct{}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

// Render converts Markdown and metadata into the document JSON structure.
func (r *JSONRenderer) Render(markdown string, meta core.DocumentMetadata) ([]byte, error) {
	headings := extractHeadings(markdown)

	doc := core.DocumentJSON{
		Metadata: meta,
		Content: core.DocumentContent{
			Text:     stripMarkdown(markdown),
			Markdown: markdown,
			Sections: buildSections(markdown),
		},
		Structure: core.DocumentStructure{
			Headings:   headings,
			Links:      extractLinks(markdown),
			CodeBlocks: countFences(markdown) / 2,
			Tables:     len(tableSeparatorRegex.FindAllString(markdown, -1)),
		},
	}
	doc.Structure.ListItems, doc.Structure.Citations = countLines(markdown)

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return data, nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}

var (
	headingRegex        = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	linkRegex           = regexp.MustCompile(`\[([^\]]*)\]\(([^)]+)\)`)
	tableSeparatorRegex = regexp.MustCompile(`(?m)^\|[-:| ]+\|$`)
	emphasisRegex       = regexp.MustCompile(`\*{1,3}([^*]+)\*{1,3}`)
	inlineCodeRegex     = regexp.MustCompile("`([^`]+)`")
	breakTagRegex       = regexp.MustCompile(`(?i)<br\s*/?>`)
	blankRunRegex       = regexp.MustCompile(`\n{3,}`)
)

// parseHeading returns the heading on line, if any. Lines inside fenced
// code are the caller's responsibility.
func parseHeading(line string) (core.Heading, bool) {
	m := headingRegex.FindStringSubmatch(strings.TrimRight(line, " \t"))
	if m == nil {
		return core.Heading{}, false
	}
	return core.Heading{Level: len(m[1]), Text: strings.TrimSpace(m[2])}, true
}

// outsideFences calls fn for every line that is not inside a fenced code
// block.
func outsideFences(md string, fn func(line string)) {
	inFence := false
	for _, line := range strings.Split(md, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
			continue
		}
		if !inFence {
			fn(line)
		}
	}
}

func extractHeadings(md string) []core.Heading {
	headings := []core.Heading{}
	outsideFences(md, func(line string) {
		if h, ok := parseHeading(line); ok {
			headings = append(headings, h)
		}
	})
	return headings
}

func extractLinks(md string) []core.Link {
	matches := linkRegex.FindAllStringSubmatch(md, -1)
	links := make([]core.Link, 0, len(matches))
	for _, m := range matches {
		links = append(links, core.Link{Text: m[1], Href: m[2]})
	}
	return links
}

func buildSections(md string) []core.Section {
	var (
		sections []core.Section
		current  *core.Section
		body     []string
	)
	flush := func() {
		if current != nil {
			current.Text = strings.TrimSpace(strings.Join(body, "\n"))
			sections = append(sections, *current)
		}
	}

	outsideFences(md, func(line string) {
		if h, ok := parseHeading(line); ok {
			flush()
			current = &core.Section{Heading: h.Text, Level: h.Level}
			body = nil
			return
		}
		if current != nil {
			body = append(body, line)
		}
	})
	flush()
	return sections
}

func countFences(md string) int {
	n := 0
	for _, line := range strings.Split(md, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			n++
		}
	}
	return n
}

// countLines counts list items and citation entries outside code.
func countLines(md string) (listItems, citations int) {
	outsideFences(md, func(line string) {
		switch {
		case normalize.IsListItem(line):
			listItems++
		case normalize.IsCitationLine(line):
			citations++
		}
	})
	return listItems, citations
}

// stripMarkdown removes common Markdown formatting to produce plain text.
func stripMarkdown(md string) string {
	var lines []string
	outsideFences(md, func(line string) {
		if h, ok := parseHeading(line); ok {
			line = h.Text
		}
		lines = append(lines, strings.TrimRight(line, " "))
	})
	text := strings.Join(lines, "\n")
	text = breakTagRegex.ReplaceAllString(text, "")
	text = emphasisRegex.ReplaceAllString(text, "$1")
	text = linkRegex.ReplaceAllString(text, "$1")
	text = inlineCodeRegex.ReplaceAllString(text, "$1")
	text = blankRunRegex.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

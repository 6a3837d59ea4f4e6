// Package render provides output renderers for the PagePress pipeline.
// This file implements the Markdown renderer, which writes the normalized
// Markdown as-is.
package render

import (
	"github.com/gaurav-prasanna/pagepress/core"
)

// MarkdownRenderer writes Markdown as-is. It's the simplest renderer
// since normalized Markdown is already the canonical pipeline format.
type MarkdownRenderer struct{}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Render returns the Markdown as bytes (passthrough).
func (r *MarkdownRenderer) Render(markdown string, _ core.DocumentMetadata) ([]byte, error) {
	return []byte(markdown), nil
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}

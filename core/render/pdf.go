// Package render — PDF renderer.
// Lays normalized Markdown out as a simple PDF using gofpdf: headings at
// graded sizes, paragraphs, bulleted and numbered items with their nesting,
// citation entries one per line, and code blocks in a monospace face.
// Themes do not apply to PDF output.
package render

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/gaurav-prasanna/pagepress/core"
	"github.com/gaurav-prasanna/pagepress/core/normalize"
)

// PDFRenderer renders Markdown content as a PDF document.
type PDFRenderer struct{}

// NewPDFRenderer creates a PDFRenderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

var headingSizes = map[int]float64{1: 18, 2: 15, 3: 13, 4: 12, 5: 11, 6: 10}

// Render converts Markdown into PDF bytes.
func (r *PDFRenderer) Render(markdown string, meta core.DocumentMetadata) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.SetTitle(meta.Title, true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if meta.Title != "" {
		pdf.SetFont("Helvetica", "B", 18)
		pdf.MultiCell(0, 8, tr(meta.Title), "", "L", false)
		pdf.Ln(4)
	}
	if meta.Source != "" {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.SetTextColor(100, 100, 100)
		pdf.MultiCell(0, 5, tr("Source: "+meta.Source), "", "L", false)
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(6)
	}

	inCodeBlock := false
	for _, line := range strings.Split(markdown, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inCodeBlock = !inCodeBlock
			pdf.Ln(2)
			continue
		}

		switch {
		case inCodeBlock:
			pdf.SetFont("Courier", "", 9)
			pdf.SetFillColor(245, 245, 245)
			pdf.MultiCell(0, 4.5, tr(line), "", "L", true)

		case normalize.IsBlank(line):
			pdf.Ln(3)

		case normalize.IsHeader(line):
			renderHeading(pdf, tr, line)

		case normalize.IsListItem(line):
			renderListItem(pdf, tr, line)

		default:
			// Paragraph text and citation entries. Citation lines carry a
			// forced break, so each gets its own cell.
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, tr(cleanInlineMarkdown(line)), "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for PDF output.
func (r *PDFRenderer) Extension() string {
	return ".pdf"
}

func renderHeading(pdf *gofpdf.Fpdf, tr func(string) string, line string) {
	text := strings.TrimSpace(line)
	level := len(text) - len(strings.TrimLeft(text, "#"))
	size, ok := headingSizes[level]
	if !ok {
		size = 10
	}
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", size)
	pdf.MultiCell(0, size*0.6, tr(cleanInlineMarkdown(strings.TrimLeft(text, "# "))), "", "L", false)
	pdf.Ln(2)
}

// renderListItem indents one step per four columns of source indentation.
func renderListItem(pdf *gofpdf.Fpdf, tr func(string) string, line string) {
	depth := normalize.IndentWidth(line) / 4
	text := strings.TrimSpace(line)
	if normalize.ListKindOf(line) == normalize.ListUnordered {
		text = "• " + strings.TrimSpace(text[2:])
	}

	left, _, _, _ := pdf.GetMargins()
	pdf.SetX(left + float64(depth)*6)
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 5, tr(cleanInlineMarkdown(text)), "", "L", false)
}

var (
	boldRegex   = regexp.MustCompile(`\*\*([^*]+)\*\*|__([^_]+)__`)
	italicRegex = regexp.MustCompile(`(?:^|\s)\*([^*]+)\*(?:\s|$)`)
)

// cleanInlineMarkdown strips inline Markdown formatting and the break
// markers added by the normalizer.
func cleanInlineMarkdown(text string) string {
	text = breakTagRegex.ReplaceAllString(text, "")
	text = boldRegex.ReplaceAllString(text, "$1$2")
	text = italicRegex.ReplaceAllString(text, " $1 ")
	text = inlineCodeRegex.ReplaceAllString(text, "$1")
	text = linkRegex.ReplaceAllString(text, "$1")
	return strings.TrimSpace(text)
}

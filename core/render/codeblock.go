// Package render — code blocks.
// Fenced and indented code is written as <pre class="highlight"><code
// class="language-x">, leaving colouring to the theme stylesheet instead of
// a syntax highlighter.
package render

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// highlightClass is the class themes style code blocks with.
const highlightClass = "highlight"

// codeBlockRenderer replaces goldmark's default code block output.
type codeBlockRenderer struct {
	writer   html.Writer
	cssClass string
}

func newCodeBlockRenderer(cssClass string) renderer.NodeRenderer {
	return &codeBlockRenderer{writer: html.DefaultWriter, cssClass: cssClass}
}

// RegisterFuncs implements renderer.NodeRenderer.
func (r *codeBlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCodeBlock)
	reg.Register(ast.KindCodeBlock, r.renderCodeBlock)
}

func (r *codeBlockRenderer) renderFencedCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.FencedCodeBlock)
	if entering {
		r.open(w, n.Language(source))
		r.writeLines(w, source, n)
		return ast.WalkContinue, nil
	}
	r.close(w)
	return ast.WalkContinue, nil
}

func (r *codeBlockRenderer) renderCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		r.open(w, nil)
		r.writeLines(w, source, node)
		return ast.WalkContinue, nil
	}
	r.close(w)
	return ast.WalkContinue, nil
}

func (r *codeBlockRenderer) open(w util.BufWriter, language []byte) {
	_, _ = w.WriteString(`<pre class="`)
	_, _ = w.WriteString(r.cssClass)
	_, _ = w.WriteString(`"><code`)
	if len(language) > 0 {
		_, _ = w.WriteString(` class="language-`)
		_, _ = w.Write(util.EscapeHTML(language))
		_ = w.WriteByte('"')
	}
	_ = w.WriteByte('>')
}

func (r *codeBlockRenderer) writeLines(w util.BufWriter, source []byte, n ast.Node) {
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		r.writer.RawWrite(w, line.Value(source))
	}
}

func (r *codeBlockRenderer) close(w util.BufWriter) {
	_, _ = w.WriteString("</code></pre>\n")
}

// Package render — HTML renderer.
// Converts normalized Markdown into a complete, self-contained HTML page
// styled by a theme. The Markdown dialect is CommonMark plus tables,
// strikethrough, definition lists, footnotes and attribute lists, with
// heading IDs generated for in-page links. Raw HTML is passed through so
// the <br> markers the normalizer adds survive.
package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"github.com/gaurav-prasanna/pagepress/core"
)

const (
	defaultTitle    = "Converted Document"
	defaultLanguage = "en"
)

var documentTemplate = template.Must(template.New("document").Parse(`<!DOCTYPE html>
<html lang="{{.Language}}">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <style>
{{.CSS}}
    </style>
</head>
<body>
    <div class="container">
{{.Body}}
    </div>
</body>
</html>
`))

type documentData struct {
	Language string
	Title    string
	CSS      template.CSS
	Body     template.HTML
}

// HTMLRenderer renders Markdown into themed HTML documents. It is safe for
// concurrent use.
type HTMLRenderer struct {
	themes   core.ThemeStore
	markdown goldmark.Markdown
	policy   *bluemonday.Policy
	title    string
}

// HTMLOption configures an HTMLRenderer.
type HTMLOption func(*HTMLRenderer)

// WithSanitize passes every rendered fragment through a bluemonday
// user-generated-content policy.
func WithSanitize(enabled bool) HTMLOption {
	return func(r *HTMLRenderer) {
		if enabled {
			r.policy = sanitizePolicy()
		} else {
			r.policy = nil
		}
	}
}

// WithDefaultTitle sets the <title> used when the metadata has none.
func WithDefaultTitle(title string) HTMLOption {
	return func(r *HTMLRenderer) {
		if title != "" {
			r.title = title
		}
	}
}

// NewHTMLRenderer creates an HTMLRenderer backed by themes.
func NewHTMLRenderer(themes core.ThemeStore, opts ...HTMLOption) *HTMLRenderer {
	r := &HTMLRenderer{
		themes:   themes,
		markdown: newMarkdown(),
		title:    defaultTitle,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.Table,
			extension.Strikethrough,
			extension.DefinitionList,
			extension.Footnote,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithAttribute(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
			renderer.WithNodeRenderers(
				util.Prioritized(newCodeBlockRenderer(highlightClass), 100),
			),
		),
	)
}

func sanitizePolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("pre", "code", "div", "span")
	return p
}

// Fragment converts Markdown into an HTML fragment without the page shell.
func (r *HTMLRenderer) Fragment(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	if r.policy != nil {
		return r.policy.Sanitize(buf.String()), nil
	}
	return buf.String(), nil
}

// Render converts Markdown into a complete HTML document with the theme
// named in meta embedded as a stylesheet.
func (r *HTMLRenderer) Render(markdown string, meta core.DocumentMetadata) ([]byte, error) {
	body, err := r.Fragment(markdown)
	if err != nil {
		return nil, err
	}

	css, err := r.themes.CSS(meta.Theme)
	if err != nil {
		return nil, fmt.Errorf("loading theme: %w", err)
	}

	data := documentData{
		Language: meta.Language,
		Title:    meta.Title,
		CSS:      template.CSS(css),
		Body:     template.HTML(body),
	}
	if data.Language == "" {
		data.Language = defaultLanguage
	}
	if data.Title == "" {
		data.Title = r.title
	}

	var buf bytes.Buffer
	if err := documentTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("assembling document: %w", err)
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for HTML output.
func (r *HTMLRenderer) Extension() string {
	return ".html"
}

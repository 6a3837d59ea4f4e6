// Package pipeline runs a document through the PagePress stages:
// load → extract (HTML sources only) → front matter → normalize → render.
// The CLI and the HTTP service share one Pipeline.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gaurav-prasanna/pagepress/core"
	"github.com/gaurav-prasanna/pagepress/core/extract"
	"github.com/gaurav-prasanna/pagepress/core/frontmatter"
)

// StdinSource is the source name that reads from standard input.
const StdinSource = "-"

// Pipeline holds the stage implementations.
type Pipeline struct {
	fetcher    core.Fetcher
	extractor  core.Extractor
	normalizer core.Normalizer
	themes     core.ThemeStore
	stdin      io.Reader
	logger     *slog.Logger
	now        func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithStdin replaces os.Stdin as the reader for the "-" source.
func WithStdin(r io.Reader) Option {
	return func(p *Pipeline) { p.stdin = r }
}

// WithLogger sets the logger used for stage diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithClock overrides the time source for ConvertedAt.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// New creates a Pipeline.
func New(fetcher core.Fetcher, extractor core.Extractor, normalizer core.Normalizer, themes core.ThemeStore, opts ...Option) *Pipeline {
	p := &Pipeline{
		fetcher:    fetcher,
		extractor:  extractor,
		normalizer: normalizer,
		themes:     themes,
		stdin:      os.Stdin,
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Load reads source and returns it as raw Markdown. A source is "-" for
// stdin, an http(s) URL, or a file path. HTML (by content type or by a
// .html/.htm extension) is reduced to its main content first.
func (p *Pipeline) Load(ctx context.Context, source string) (string, core.DocumentMetadata, error) {
	meta := core.DocumentMetadata{Source: source}

	switch {
	case source == StdinSource:
		data, err := io.ReadAll(p.stdin)
		if err != nil {
			return "", meta, fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), meta, nil

	case isURL(source):
		result, err := p.fetcher.Fetch(ctx, source)
		if err != nil {
			return "", meta, fmt.Errorf("fetch: %w", err)
		}
		if !result.IsHTML() {
			return result.Body, meta, nil
		}
		return p.fromHTML(result.Body, meta)

	case source == "":
		return "", meta, fmt.Errorf("empty source: %w", core.ErrUnsupportedSource)

	default:
		data, err := os.ReadFile(source)
		if err != nil {
			return "", meta, fmt.Errorf("reading %s: %w", source, err)
		}
		switch strings.ToLower(filepath.Ext(source)) {
		case ".html", ".htm", ".xhtml":
			return p.fromHTML(string(data), meta)
		}
		return string(data), meta, nil
	}
}

func (p *Pipeline) fromHTML(html string, meta core.DocumentMetadata) (string, core.DocumentMetadata, error) {
	info := extract.Info(html)
	meta.Title = info.Title
	meta.Language = info.Language

	markdown, err := p.extractor.Extract(html)
	if err != nil {
		return "", meta, fmt.Errorf("extract: %w", err)
	}
	p.logger.Debug("extracted html", "source", meta.Source, "markdown_bytes", len(markdown))
	return markdown, meta, nil
}

// Prepare strips front matter from raw, normalizes the body and resolves
// the theme. A theme set in meta must exist; otherwise the front matter
// theme is used when it exists, and the store default when not.
func (p *Pipeline) Prepare(raw string, meta core.DocumentMetadata) (*core.Document, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, core.ErrEmptyContent
	}

	matter, body := frontmatter.Split(raw)
	if strings.TrimSpace(body) == "" {
		return nil, core.ErrEmptyContent
	}

	theme, err := p.resolveTheme(meta.Theme, matter.Theme)
	if err != nil {
		return nil, err
	}
	meta.Theme = theme
	if matter.Title != "" {
		meta.Title = matter.Title
	}
	if matter.Language != "" {
		meta.Language = matter.Language
	}
	if len(matter.Attributes) > 0 {
		meta.Attributes = matter.Attributes
	}
	meta.ConvertedAt = p.now().UTC().Format(time.RFC3339)

	normalized := p.normalizer.Normalize(body)
	p.logger.Debug("normalized markdown",
		"source", meta.Source,
		"input_lines", strings.Count(body, "\n")+1,
		"output_lines", strings.Count(normalized, "\n"))

	return &core.Document{Markdown: normalized, Meta: meta}, nil
}

func (p *Pipeline) resolveTheme(requested, fromMatter string) (string, error) {
	if requested != "" {
		if !p.themes.Has(requested) {
			return "", fmt.Errorf("theme %q: %w", requested, core.ErrUnknownTheme)
		}
		return requested, nil
	}
	if fromMatter != "" {
		if p.themes.Has(fromMatter) {
			return fromMatter, nil
		}
		p.logger.Warn("front matter names an unknown theme, using default",
			"theme", fromMatter, "default", p.themes.Default())
	}
	return p.themes.Default(), nil
}

// Render runs doc through r.
func (p *Pipeline) Render(doc *core.Document, r core.Renderer) ([]byte, error) {
	data, err := r.Render(doc.Markdown, doc.Meta)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return data, nil
}

// Convert prepares raw Markdown and renders it in one step.
func (p *Pipeline) Convert(raw string, meta core.DocumentMetadata, r core.Renderer) ([]byte, *core.Document, error) {
	doc, err := p.Prepare(raw, meta)
	if err != nil {
		return nil, nil, err
	}
	data, err := p.Render(doc, r)
	if err != nil {
		return nil, nil, err
	}
	return data, doc, nil
}

func isURL(source string) bool {
	u, err := url.Parse(source)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Package cmd — convert command.
// Runs a source through the pipeline:
// load → extract (HTML only) → front matter → normalize → render → write.
//
// With --all, a URL source is expanded to every page crawl discovers on
// its site.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/pagepress/core"
	"github.com/gaurav-prasanna/pagepress/core/output"
	"github.com/gaurav-prasanna/pagepress/core/render"
	"github.com/gaurav-prasanna/pagepress/crawl"
)

type convertFlags struct {
	html      bool
	markdown  bool
	json      bool
	pdf       bool
	theme     string
	outputDir string
	stdout    bool
	all       bool
}

func newConvertCmd() *cobra.Command {
	var f convertFlags

	cmd := &cobra.Command{
		Use:   "convert <file|url|->",
		Short: "Convert a Markdown source to the specified output format",
		Long: `Convert reads Markdown from a file, a URL or stdin ("-"), normalizes it and
renders it as themed HTML (default), normalized Markdown, structured JSON or PDF.
HTML sources are reduced to their main content first.

Examples:
  pagepress convert notes.md
  pagepress convert notes.md --theme dark-sage --output_dir ./out
  pagepress convert https://example.com/post --markdown --stdout
  cat notes.md | pagepress convert - --json --stdout
  pagepress convert https://example.com/docs --all --output_dir ./site`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args[0], f)
		},
	}

	cmd.Flags().BoolVar(&f.html, "html", false, "Output themed HTML (default)")
	cmd.Flags().BoolVar(&f.markdown, "markdown", false, "Output normalized Markdown")
	cmd.Flags().BoolVar(&f.json, "json", false, "Output structured JSON")
	cmd.Flags().BoolVar(&f.pdf, "pdf", false, "Output PDF")
	cmd.Flags().StringVar(&f.theme, "theme", "", "Theme name (default: configured default theme)")
	cmd.Flags().StringVar(&f.outputDir, "output_dir", "", "Output directory (default: current directory)")
	cmd.Flags().BoolVar(&f.stdout, "stdout", false, "Write the result to stdout instead of a file")
	cmd.Flags().BoolVar(&f.all, "all", false, "Convert every page discovered on the URL's site")
	cmd.Flags().Int("max_pages", 0, "Page limit for --all (overrides crawl.max_pages)")

	return cmd
}

func runConvert(cmd *cobra.Command, source string, f convertFlags) error {
	if err := validateFlags(f); err != nil {
		return err
	}

	app := getApp(cmd)
	renderer := selectRenderer(app, f)

	if f.all {
		return runAll(cmd, app, source, f, renderer)
	}

	data, err := convertOne(cmd.Context(), app, source, f.theme, renderer)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if f.stdout {
		_, err := out.Write(data)
		return err
	}

	writer, err := output.New(app.Config.GetString("output_dir"))
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}
	if sameFile(source, writer.Path(source, renderer.Extension())) {
		return fmt.Errorf("refusing to overwrite source %s; use --output_dir or --stdout", source)
	}
	path, err := writer.Write(source, data, renderer.Extension())
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "✓ Written: %s\n", path)
	return nil
}

// runAll discovers the pages of a site and converts each one. Failed pages
// are reported and skipped.
func runAll(cmd *cobra.Command, app *App, source string, f convertFlags, renderer core.Renderer) error {
	ctx := cmd.Context()
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

	fmt.Fprintf(out, "Discovering pages from %s...\n", source)
	discoverer := crawl.New(app.Fetcher,
		crawl.WithMaxPages(app.Config.GetInt("crawl.max_pages")),
		crawl.WithLogger(app.Logger))
	urls, err := discoverer.Discover(ctx, source)
	if err != nil {
		return fmt.Errorf("discovering pages: %w", err)
	}
	fmt.Fprintf(out, "Found %d pages to process\n", len(urls))

	writer, err := output.New(app.Config.GetString("output_dir"))
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}

	var errCount int
	for i, pageURL := range urls {
		fmt.Fprintf(out, "[%d/%d] Processing %s\n", i+1, len(urls), pageURL)

		data, err := convertOne(ctx, app, pageURL, f.theme, renderer)
		if err != nil {
			fmt.Fprintf(errOut, "  ✗ Error: %v\n", err)
			errCount++
			continue
		}
		path, err := writer.Write(pageURL, data, renderer.Extension())
		if err != nil {
			fmt.Fprintf(errOut, "  ✗ Write error: %v\n", err)
			errCount++
			continue
		}
		fmt.Fprintf(out, "  ✓ Written: %s\n", path)
	}

	if errCount > 0 {
		fmt.Fprintf(errOut, "\n%d/%d pages failed\n", errCount, len(urls))
	}
	if errCount == len(urls) {
		return errors.New("no pages converted")
	}
	return nil
}

// convertOne runs a single source through the pipeline.
func convertOne(ctx context.Context, app *App, source, theme string, renderer core.Renderer) ([]byte, error) {
	raw, meta, err := app.Pipeline.Load(ctx, source)
	if err != nil {
		return nil, err
	}
	meta.Theme = theme

	data, doc, err := app.Pipeline.Convert(raw, meta, renderer)
	if err != nil {
		return nil, err
	}
	app.Logger.Info("converted",
		"source", source,
		"theme", doc.Meta.Theme,
		"format", renderer.Extension(),
		"bytes", len(data))
	return data, nil
}

func sameFile(a, b string) bool {
	ia, err := os.Stat(a)
	if err != nil {
		return false
	}
	ib, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ia, ib)
}

// validateFlags checks that at most one output format is chosen and that
// --all writes files.
func validateFlags(f convertFlags) error {
	if f.all && f.stdout {
		return errors.New("--all and --stdout are mutually exclusive")
	}
	formatCount := 0
	for _, set := range []bool{f.html, f.markdown, f.json, f.pdf} {
		if set {
			formatCount++
		}
	}
	if formatCount > 1 {
		return fmt.Errorf("only one output format allowed per run (got %d)", formatCount)
	}
	return nil
}

// selectRenderer creates the Renderer for the chosen format. HTML is the
// default.
func selectRenderer(app *App, f convertFlags) core.Renderer {
	switch {
	case f.markdown:
		return render.NewMarkdownRenderer()
	case f.json:
		return render.NewJSONRenderer()
	case f.pdf:
		return render.NewPDFRenderer()
	default:
		return app.HTML
	}
}

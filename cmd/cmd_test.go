package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/pagepress/core"
)

// isolate keeps the user's config files and env out of the run.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	return dir
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestNormalizeStdin(t *testing.T) {
	isolate(t)

	out, err := run(t, "Citations:\n[1] First source\n[2] Second source\n\nNext paragraph.", "normalize")
	require.NoError(t, err)
	assert.Equal(t, "Citations:<br>\n[1] First source  \n[2] Second source  \n\nNext paragraph.\n", out)
}

func TestNormalizeFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "list.md")
	require.NoError(t, os.WriteFile(path, []byte("- a\n  - b"), 0o644))

	out, err := run(t, "", "normalize", path)
	require.NoError(t, err)
	assert.Equal(t, "- a\n    - b\n", out)
}

func TestThemes(t *testing.T) {
	isolate(t)

	out, err := run(t, "", "themes")
	require.NoError(t, err)
	assert.Contains(t, out, "* mocha-minimalist\n")
	assert.Contains(t, out, "  retro-tech\n")
}

func TestConvertToFile(t *testing.T) {
	dir := isolate(t)
	src := filepath.Join(dir, "notes.md")
	require.NoError(t, os.WriteFile(src, []byte("---\ntitle: Field Notes\n---\n# Notes\n\n- one\n  - two\n"), 0o644))
	outDir := filepath.Join(dir, "out")

	out, err := run(t, "", "convert", src, "--theme", "retro-tech", "--output_dir", outDir)
	require.NoError(t, err)

	want := filepath.Join(outDir, "notes.html")
	assert.Equal(t, "✓ Written: "+want+"\n", out)

	data, err := os.ReadFile(want)
	require.NoError(t, err)
	html := string(data)
	assert.Contains(t, html, "<title>Field Notes</title>")
	assert.Contains(t, html, "/* retro-tech */")
	assert.Contains(t, html, "<li>one\n<ul>\n<li>two</li>")
}

func TestConvertStdoutFormats(t *testing.T) {
	isolate(t)
	input := "Citations:\n[1] A\n\nEnd."

	out, err := run(t, input, "convert", "-", "--markdown", "--stdout")
	require.NoError(t, err)
	assert.Equal(t, "Citations:<br>\n[1] A  \n\nEnd.\n", out)

	out, err = run(t, input, "convert", "-", "--json", "--stdout")
	require.NoError(t, err)
	var doc core.DocumentJSON
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "-", doc.Metadata.Source)
	assert.Equal(t, "mocha-minimalist", doc.Metadata.Theme)
	assert.Equal(t, 1, doc.Structure.Citations)

	out, err = run(t, input, "convert", "-", "--pdf", "--stdout")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "%PDF-"))
}

func TestConvertStdinDefaultsToCwd(t *testing.T) {
	dir := isolate(t)

	_, err := run(t, "hello", "convert", "-")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "stdin.html"))
}

func TestConvertErrors(t *testing.T) {
	dir := isolate(t)
	src := filepath.Join(dir, "page.md")
	require.NoError(t, os.WriteFile(src, []byte("text"), 0o644))

	_, err := run(t, "", "convert", src, "--json", "--pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only one output format allowed per run (got 2)")

	_, err = run(t, "", "convert", src, "--theme", "nope", "--stdout")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrUnknownTheme))

	_, err = run(t, "   ", "convert", "-", "--stdout")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrEmptyContent))

	_, err = run(t, "", "convert", src, "--markdown")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refusing to overwrite source")
}

func TestConvertAll(t *testing.T) {
	dir := isolate(t)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, `<html><head><title>Home</title></head><body><main><h1>Home</h1><p><a href="/guide">Guide</a></p></main></body></html>`)
		case "/guide":
			w.Header().Set("Content-Type", "text/markdown")
			fmt.Fprint(w, "# Guide\n\n- step\n  - detail\n")
		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()
	outDir := filepath.Join(dir, "site")

	out, err := run(t, "", "convert", ts.URL+"/", "--all", "--markdown", "--output_dir", outDir)
	require.NoError(t, err)
	assert.Contains(t, out, "Found 2 pages to process")

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	_, err = run(t, "", "convert", ts.URL+"/", "--all", "--stdout")
	require.Error(t, err)
}

func TestInvalidConfig(t *testing.T) {
	dir := isolate(t)
	cfg := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("log:\n  level: loud\n"), 0o644))

	_, err := run(t, "", "--config", cfg, "themes")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

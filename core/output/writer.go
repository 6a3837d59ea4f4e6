// Package output handles file naming and writing for PagePress outputs.
// File sources keep their base name (notes.md → notes.html); URL sources
// are flattened from host and path (https://example.com/docs/intro →
// example_com_docs_intro.html); stdin becomes "stdin".
package output

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Writer writes rendered output to disk.
type Writer struct {
	OutputDir string
}

// New creates a Writer targeting the given output directory.
// If outputDir is empty, it defaults to the current working directory.
func New(outputDir string) (*Writer, error) {
	if outputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		outputDir = wd
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Writer{OutputDir: outputDir}, nil
}

// Path returns where Write would store output for source.
func (w *Writer) Path(source, ext string) string {
	return filepath.Join(w.OutputDir, Filename(source)+ext)
}

// Write stores data under a name derived from source and returns the path.
func (w *Writer) Write(source string, data []byte, ext string) (string, error) {
	path := w.Path(source, ext)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", path, err)
	}
	return path, nil
}

// Filename derives an extension-less output name from a source.
func Filename(source string) string {
	if source == "" || source == "-" {
		return "stdin"
	}
	if u, err := url.Parse(source); err == nil && u.Host != "" && (u.Scheme == "http" || u.Scheme == "https") {
		return filenameFromURL(u)
	}
	base := filepath.Base(source)
	if name := strings.TrimSuffix(base, filepath.Ext(base)); name != "" {
		return name
	}
	return sanitize(base)
}

// filenameFromURL converts a URL into a flat filename.
func filenameFromURL(u *url.URL) string {
	parts := []string{sanitize(u.Host)}
	path := strings.Trim(u.Path, "/")
	if path != "" {
		for _, seg := range strings.Split(path, "/") {
			seg = strings.TrimSuffix(seg, filepath.Ext(seg))
			parts = append(parts, sanitize(seg))
		}
	}
	return strings.Join(parts, "_")
}

// sanitize replaces non-alphanumeric characters with underscores.
func sanitize(s string) string {
	var b strings.Builder
	for _, ch := range s {
		if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') {
			b.WriteRune(ch)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

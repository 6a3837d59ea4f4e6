package output

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilename(t *testing.T) {
	cases := map[string]string{
		"-":                                   "stdin",
		"":                                    "stdin",
		"docs/notes.md":                       "notes",
		"README":                              "README",
		"https://example.com":                 "example_com",
		"https://example.com/docs/intro.html": "example_com_docs_intro",
		"http://localhost:8001/a-b/":          "localhost_8001_a_b",
		".hidden":                             "_hidden",
	}
	for in, want := range cases {
		assert.Equal(t, want, Filename(in), "source %q", in)
	}
}

func TestWriterWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	w, err := New(dir)
	require.NoError(t, err)

	path, err := w.Write("notes.md", []byte("<p>hi</p>"), ".html")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "notes.html"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<p>hi</p>", string(data))
}

package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/pagepress/core"
	"github.com/gaurav-prasanna/pagepress/core/extract"
	"github.com/gaurav-prasanna/pagepress/core/fetch"
	"github.com/gaurav-prasanna/pagepress/core/normalize"
	"github.com/gaurav-prasanna/pagepress/core/pipeline"
	"github.com/gaurav-prasanna/pagepress/core/render"
	"github.com/gaurav-prasanna/pagepress/core/theme"
)

type brokenRenderer struct{}

func (brokenRenderer) Render(string, core.DocumentMetadata) ([]byte, error) {
	return nil, io.ErrUnexpectedEOF
}

func (brokenRenderer) Extension() string { return ".html" }

func newTestServer(t *testing.T, cfg Config, renderer func(core.ThemeStore) core.Renderer) *httptest.Server {
	t.Helper()
	themes, err := theme.New()
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := pipeline.New(fetch.New(), extract.New(), normalize.New(), themes, pipeline.WithLogger(logger))
	if renderer == nil {
		renderer = func(ts core.ThemeStore) core.Renderer { return render.NewHTMLRenderer(ts) }
	}

	ts := httptest.NewServer(New(cfg, p, renderer(themes), themes, logger).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func getJSON(t *testing.T, url string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, Config{}, nil)

	resp, body := getJSON(t, ts.URL+"/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "md-to-html-converter", body["service"])
}

func TestIndexAndThemes(t *testing.T) {
	ts := newTestServer(t, Config{}, nil)

	_, index := getJSON(t, ts.URL+"/")
	assert.Equal(t, "Markdown to HTML Converter API", index["message"])
	assert.Equal(t, Version, index["version"])
	assert.Len(t, index["available_themes"], len(theme.Builtin))

	_, themes := getJSON(t, ts.URL+"/themes")
	assert.Equal(t, "mocha-minimalist", themes["default_theme"])
	assert.Contains(t, themes["available_themes"], "retro-tech")
}

func TestConvert(t *testing.T) {
	ts := newTestServer(t, Config{}, nil)

	resp, body := postJSON(t, ts.URL+"/convert", map[string]string{
		"markdown_content": "# Title\n\nCitations:\n[1] First source\n[2] Second source\n\nNext paragraph.",
		"theme":            "dark-sage",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "dark-sage", body["theme_used"])
	assert.Equal(t, "Conversion successful", body["message"])

	html := body["html_content"].(string)
	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, "/* dark-sage */")
	assert.Contains(t, html, "Citations:<br>")
	assert.Contains(t, html, "[1] First source<br>")
}

func TestConvertDefaultsTheme(t *testing.T) {
	ts := newTestServer(t, Config{}, nil)

	resp, body := postJSON(t, ts.URL+"/convert", map[string]string{"markdown_content": "hello"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "mocha-minimalist", body["theme_used"])
}

func TestConvertBadRequests(t *testing.T) {
	ts := newTestServer(t, Config{}, nil)

	tests := []struct {
		name   string
		body   any
		detail string
	}{
		{
			name:   "unknown theme",
			body:   map[string]string{"markdown_content": "x", "theme": "nope"},
			detail: "Invalid theme. Available themes: mocha-minimalist, neon-brutalist, glassmorphism-pro, sunset-gradient, dark-sage, corporate-blue, retro-tech",
		},
		{
			name:   "blank content",
			body:   map[string]string{"markdown_content": "  \n\t"},
			detail: "Markdown content cannot be empty",
		},
		{
			name:   "front matter only",
			body:   map[string]string{"markdown_content": "---\ntitle: x\n---\n"},
			detail: "Markdown content cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := postJSON(t, ts.URL+"/convert", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, tt.detail, body["detail"])
		})
	}
}

func TestConvertLeadingThematicBreak(t *testing.T) {
	ts := newTestServer(t, Config{}, nil)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"paragraph between rules", "---\nIntro paragraph text here\n---\n\nMore text.\n", "More text."},
		{"list between rules", "---\n- item one\n- item two\n---\n", "<li>item one</li>"},
		{"colon-heavy prose", "---\nNote: see below: here\n---\nBody\n", "Note: see below: here"},
		{"mapping without known keys", "---\nfoo: bar\n---\nBody\n", "foo: bar"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := postJSON(t, ts.URL+"/convert", map[string]string{"markdown_content": tt.in})
			require.Equal(t, http.StatusOK, resp.StatusCode, body["detail"])
			assert.Contains(t, body["html_content"], tt.want)
		})
	}
}

func TestConvertFrontMatterTitle(t *testing.T) {
	ts := newTestServer(t, Config{}, nil)

	resp, body := postJSON(t, ts.URL+"/convert", map[string]string{
		"markdown_content": "---\ntitle: Field Notes\n---\n# Notes\n",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	html := body["html_content"].(string)
	assert.Contains(t, html, "<title>Field Notes</title>")
	assert.NotContains(t, html, "title: Field Notes")
}

func TestConvertMalformedJSON(t *testing.T) {
	ts := newTestServer(t, Config{}, nil)

	resp, err := http.Post(ts.URL+"/convert", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestConvertBodyLimit(t *testing.T) {
	ts := newTestServer(t, Config{MaxBodyBytes: 64}, nil)

	resp, body := postJSON(t, ts.URL+"/convert", map[string]string{
		"markdown_content": strings.Repeat("a", 256),
	})
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	assert.Equal(t, "Request body too large", body["detail"])
}

func TestConvertRendererFailure(t *testing.T) {
	ts := newTestServer(t, Config{}, func(core.ThemeStore) core.Renderer { return brokenRenderer{} })

	resp, body := postJSON(t, ts.URL+"/convert", map[string]string{"markdown_content": "hello"})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.True(t, strings.HasPrefix(body["detail"].(string), "Internal server error during conversion: "))
}

func TestPreview(t *testing.T) {
	ts := newTestServer(t, Config{}, nil)

	resp, err := http.Get(ts.URL + "/convert/preview/neon-brutalist")
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))
	html := string(data)
	assert.Contains(t, html, "/* neon-brutalist */")
	assert.Contains(t, html, `<pre class="highlight"><code class="language-python">`)
	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, "<blockquote>")

	resp, body := getJSON(t, ts.URL+"/convert/preview/nope")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["detail"], "Invalid theme.")
}

func TestCORS(t *testing.T) {
	t.Run("all origins", func(t *testing.T) {
		ts := newTestServer(t, Config{}, nil)

		req, err := http.NewRequest(http.MethodOptions, ts.URL+"/convert", nil)
		require.NoError(t, err)
		req.Header.Set("Origin", "https://any.test")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	})

	t.Run("restricted", func(t *testing.T) {
		ts := newTestServer(t, Config{CORSOrigins: []string{"https://ok.test"}}, nil)

		req, err := http.NewRequest(http.MethodGet, ts.URL+"/health", nil)
		require.NoError(t, err)
		req.Header.Set("Origin", "https://ok.test")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, "https://ok.test", resp.Header.Get("Access-Control-Allow-Origin"))

		req, err = http.NewRequest(http.MethodOptions, ts.URL+"/health", nil)
		require.NoError(t, err)
		req.Header.Set("Origin", "https://evil.test")
		resp, err = http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
	})
}

// Package core defines the pipeline interfaces for PagePress.
// Each stage of the pipeline is a clean, testable interface.
package core

import (
	"context"
	"errors"
	"mime"
	"strings"
)

var (
	// ErrUnknownTheme is returned when a caller asks for a theme that is
	// not in the store.
	ErrUnknownTheme = errors.New("unknown theme")
	// ErrEmptyContent is returned when there is no Markdown to convert.
	ErrEmptyContent = errors.New("markdown content cannot be empty")
	// ErrUnsupportedSource is returned when a source is neither a file, a
	// URL, nor stdin.
	ErrUnsupportedSource = errors.New("unsupported source")
)

// FetchResult holds the raw body and response metadata from a fetch.
type FetchResult struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        string
}

// IsHTML reports whether the fetched body was served as HTML.
func (r *FetchResult) IsHTML() bool {
	mediaType, _, err := mime.ParseMediaType(r.ContentType)
	if err != nil {
		return strings.Contains(strings.ToLower(r.ContentType), "html")
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}

// DocumentMetadata describes a document as it moves through the pipeline.
type DocumentMetadata struct {
	Source      string         `json:"source"`
	Title       string         `json:"title"`
	Language    string         `json:"language"`
	Theme       string         `json:"theme"`
	ConvertedAt string         `json:"converted_at"` // ISO8601
	Attributes  map[string]any `json:"attributes,omitempty"`
}

// Document is normalized Markdown plus its metadata.
type Document struct {
	Markdown string
	Meta     DocumentMetadata
}

// Section represents a heading-delimited section of content.
type Section struct {
	Heading string `json:"heading"`
	Level   int    `json:"level"`
	Text    string `json:"text"`
}

// Heading represents a single heading found in the content.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// Link represents a hyperlink found in the content.
type Link struct {
	Text string `json:"text"`
	Href string `json:"href"`
}

// DocumentContent holds the text and structured content of a document.
type DocumentContent struct {
	Text     string    `json:"text"`
	Markdown string    `json:"markdown"`
	Sections []Section `json:"sections"`
}

// DocumentStructure holds structural metadata parsed from the content.
type DocumentStructure struct {
	Headings   []Heading `json:"headings"`
	Links      []Link    `json:"links"`
	CodeBlocks int       `json:"code_blocks"`
	Tables     int       `json:"tables"`
	ListItems  int       `json:"list_items"`
	Citations  int       `json:"citations"`
}

// DocumentJSON is the complete JSON output for a single document.
type DocumentJSON struct {
	Metadata  DocumentMetadata  `json:"metadata"`
	Content   DocumentContent   `json:"content"`
	Structure DocumentStructure `json:"structure"`
}

// Fetcher retrieves a remote document.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}

// Extractor reduces a full HTML page to Markdown, dropping navigation and
// other noise.
type Extractor interface {
	Extract(html string) (string, error)
}

// Normalizer rewrites Markdown so the HTML renderer lays it out as it reads
// in plain text. It never fails.
type Normalizer interface {
	Normalize(markdown string) string
}

// ThemeStore resolves theme names to CSS.
type ThemeStore interface {
	Names() []string
	Has(name string) bool
	Default() string
	// CSS returns the stylesheet for name, or the default theme's
	// stylesheet when name is unknown.
	CSS(name string) (string, error)
}

// Renderer converts Markdown (and metadata) into a final output format.
type Renderer interface {
	Render(markdown string, meta DocumentMetadata) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".md", ".pdf").
	Extension() string
}

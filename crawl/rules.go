package crawl

import (
	"net/url"
	"path"
	"strings"
)

// skippedExtensions are paths that never hold a convertible page.
var skippedExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".svg": true, ".webp": true, ".ico": true, ".bmp": true,
	".css": true, ".js": true, ".mjs": true, ".json": true, ".xml": true,
	".woff": true, ".woff2": true, ".ttf": true, ".eot": true,
	".mp4": true, ".webm": true, ".mp3": true, ".wav": true,
	".zip": true, ".tar": true, ".gz": true,
	".pdf": true, ".doc": true, ".docx": true, ".xls": true, ".xlsx": true,
}

// IsSameHost reports whether rawURL is on host. "www." is ignored on both
// sides.
func IsSameHost(rawURL, host string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.TrimPrefix(strings.ToLower(parsed.Host), "www.") ==
		strings.TrimPrefix(strings.ToLower(host), "www.")
}

// IsStaticAsset reports whether rawURL points at a non-page resource.
func IsStaticAsset(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return skippedExtensions[strings.ToLower(path.Ext(parsed.Path))]
}

// NormalizeURL drops the fragment and any trailing slash except the root's.
func NormalizeURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	parsed.Fragment = ""
	if parsed.Path != "/" {
		parsed.Path = strings.TrimSuffix(parsed.Path, "/")
	}
	return parsed.String()
}

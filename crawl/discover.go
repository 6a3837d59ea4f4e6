// Package crawl discovers the pages of a site for batch conversion.
// Pages come from sitemap.xml when the site has one, otherwise from a
// breadth-first walk of same-host links.
package crawl

import (
	"context"
	"encoding/xml"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/gaurav-prasanna/pagepress/core"
)

// DefaultMaxPages bounds a discovery run.
const DefaultMaxPages = 100

type sitemapURL struct {
	Loc string `xml:"loc"`
}

type urlSet struct {
	URLs []sitemapURL `xml:"url"`
}

// Discoverer finds pages reachable from a start URL on the same host.
type Discoverer struct {
	fetcher  core.Fetcher
	maxPages int
	logger   *slog.Logger
}

// Option configures a Discoverer.
type Option func(*Discoverer)

// WithMaxPages caps the number of pages returned.
func WithMaxPages(n int) Option {
	return func(d *Discoverer) {
		if n > 0 {
			d.maxPages = n
		}
	}
}

// WithLogger sets the logger for skipped pages.
func WithLogger(l *slog.Logger) Option {
	return func(d *Discoverer) {
		if l != nil {
			d.logger = l
		}
	}
}

// New creates a Discoverer that fetches through fetcher.
func New(fetcher core.Fetcher, opts ...Option) *Discoverer {
	d := &Discoverer{fetcher: fetcher, maxPages: DefaultMaxPages, logger: slog.Default()}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Discover returns the pages to convert, start URL first.
func (d *Discoverer) Discover(ctx context.Context, startURL string) ([]string, error) {
	start, err := url.Parse(startURL)
	if err != nil || start.Host == "" || (start.Scheme != "http" && start.Scheme != "https") {
		return nil, fmt.Errorf("discover %q: %w", startURL, core.ErrUnsupportedSource)
	}

	queue := NewQueue(d.maxPages)
	queue.Add(NormalizeURL(startURL))

	sitemap := fmt.Sprintf("%s://%s/sitemap.xml", start.Scheme, start.Host)
	if urls, err := d.fromSitemap(ctx, sitemap, start.Host); err == nil && len(urls) > 0 {
		for _, u := range urls {
			queue.Add(u)
		}
		return queue.All(), nil
	} else if err != nil {
		d.logger.Debug("no usable sitemap, following links", "sitemap", sitemap, "error", err)
	}

	return d.fromLinks(ctx, queue, start.Host), nil
}

func (d *Discoverer) fromSitemap(ctx context.Context, sitemap, host string) ([]string, error) {
	result, err := d.fetcher.Fetch(ctx, sitemap)
	if err != nil {
		return nil, err
	}

	var set urlSet
	if err := xml.Unmarshal([]byte(result.Body), &set); err != nil {
		return nil, fmt.Errorf("parsing sitemap: %w", err)
	}

	var urls []string
	for _, u := range set.URLs {
		loc := strings.TrimSpace(u.Loc)
		if IsSameHost(loc, host) && !IsStaticAsset(loc) {
			urls = append(urls, NormalizeURL(loc))
		}
	}
	return urls, nil
}

func (d *Discoverer) fromLinks(ctx context.Context, queue *Queue, host string) []string {
	for queue.HasNext() && !queue.Full() {
		if ctx.Err() != nil {
			break
		}
		current := queue.Next()

		result, err := d.fetcher.Fetch(ctx, current)
		if err != nil {
			d.logger.Warn("skipping page", "url", current, "error", err)
			continue
		}
		if !result.IsHTML() {
			continue
		}

		links, err := extractLinks(result.Body, current)
		if err != nil {
			continue
		}
		for _, link := range links {
			if IsSameHost(link, host) && !IsStaticAsset(link) {
				queue.Add(NormalizeURL(link))
			}
		}
	}
	return queue.All()
}

// extractLinks returns every <a href> in html resolved against pageURL.
func extractLinks(html, pageURL string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, err
	}

	var links []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if resolved := resolveURL(strings.TrimSpace(href), base); resolved != "" {
			links = append(links, resolved)
		}
	})
	return links, nil
}

func resolveURL(href string, base *url.URL) string {
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}
	for _, scheme := range []string{"mailto:", "javascript:", "tel:", "data:"} {
		if strings.HasPrefix(strings.ToLower(href), scheme) {
			return ""
		}
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(parsed)
	resolved.Fragment = ""
	return resolved.String()
}

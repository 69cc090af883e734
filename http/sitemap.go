package http

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/docbase"
)

// parseSitemap parses sitemap XML into manifest entries. Sitemap indexes are
// resolved recursively; the seen set guards against cycles. Entry titles are
// derived from the URL path tail since sitemaps carry no display titles.
func parseSitemap(ctx context.Context, client *http.Client, origin, body string, seen map[string]bool) ([]docbase.ManifestEntry, error) {
	if seen[origin] {
		return nil, nil
	}
	seen[origin] = true

	doc := etree.NewDocument()
	if err := doc.ReadFromString(body); err != nil {
		return nil, docbase.Errorf(docbase.EINVALID, "parsing sitemap XML from %s: %s", origin, err)
	}

	root := doc.Root()
	if root == nil {
		return nil, docbase.Errorf(docbase.EINVALID, "empty sitemap XML from %s", origin)
	}

	if root.Tag == "sitemapindex" {
		return parseSitemapIndex(ctx, client, root, seen)
	}

	// Otherwise treat as urlset
	var entries []docbase.ManifestEntry
	for _, el := range root.SelectElements("url") {
		loc := el.SelectElement("loc")
		if loc == nil {
			continue
		}
		u := strings.TrimSpace(loc.Text())
		if u == "" {
			continue
		}
		entries = append(entries, docbase.ManifestEntry{
			Title: titleFromURL(u),
			URL:   u,
		})
	}
	return entries, nil
}

// parseSitemapIndex fetches and parses each child sitemap of a
// <sitemapindex> element.
func parseSitemapIndex(ctx context.Context, client *http.Client, root *etree.Element, seen map[string]bool) ([]docbase.ManifestEntry, error) {
	var all []docbase.ManifestEntry

	for _, sitemap := range root.SelectElements("sitemap") {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		loc := sitemap.SelectElement("loc")
		if loc == nil {
			continue
		}
		childURL := strings.TrimSpace(loc.Text())
		if childURL == "" || seen[childURL] {
			continue
		}

		body, err := fetchText(ctx, client, childURL)
		if err != nil {
			return nil, err
		}
		entries, err := parseSitemap(ctx, client, childURL, body, seen)
		if err != nil {
			return nil, err
		}
		all = append(all, entries...)
	}

	return all, nil
}

// titleFromURL derives a readable title from the last URL path segment.
func titleFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	path := strings.Trim(u.Path, "/")
	if path == "" {
		return u.Host
	}
	segs := strings.Split(path, "/")
	last := segs[len(segs)-1]
	last = strings.TrimSuffix(last, ".html")
	last = strings.ReplaceAll(last, "-", " ")
	last = strings.ReplaceAll(last, "_", " ")
	return last
}

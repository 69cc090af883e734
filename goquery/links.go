// Package goquery provides goquery-based HTML manifest scanning and a
// last-resort content extractor.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docbase"
)

// ExtractManifestLinks scans an HTML page for anchors and returns them as
// manifest entries in document order. Links are deduplicated by resolved
// URL; anchor text becomes the entry title. Non-HTTP links (javascript:,
// mailto:, fragments) are skipped.
func ExtractManifestLinks(html string, baseURL string) ([]docbase.ManifestEntry, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, docbase.Errorf(docbase.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, docbase.Errorf(docbase.EINVALID, "failed to parse HTML: %v", err)
	}

	seen := make(map[string]bool)
	var entries []docbase.ManifestEntry

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if href == "" || isNonHTTPLink(href) {
			return
		}

		resolved := resolveURL(base, href)
		if resolved == "" || seen[resolved] {
			return
		}
		seen[resolved] = true

		entries = append(entries, docbase.ManifestEntry{
			Title: strings.TrimSpace(sel.Text()),
			URL:   resolved,
		})
	})

	return entries, nil
}

// isNonHTTPLink reports whether href points outside the HTTP scheme space.
func isNonHTTPLink(href string) bool {
	if strings.HasPrefix(href, "#") {
		return true
	}
	for _, prefix := range []string{"javascript:", "mailto:", "tel:", "data:", "ftp:"} {
		if strings.HasPrefix(strings.ToLower(href), prefix) {
			return true
		}
	}
	return false
}

// resolveURL resolves href against base and strips fragments.
// Returns "" for unparseable hrefs.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	return resolved.String()
}

package docbase

import (
	"context"
	"net/url"
	"regexp"
	"strings"
)

// ManifestEntry is one (title, URL) pair from a manifest.
type ManifestEntry struct {
	Title string
	URL   string
}

// Manifest is a flat list of titled links describing which upstream pages
// to fetch. Entry order is the fetch order; titles are carried through as
// display metadata only.
type Manifest struct {
	// Origin identifies where the manifest came from (file path, URL, or
	// sitemap URL). Recorded in each stored document's front matter.
	Origin string

	Entries []ManifestEntry
}

// ManifestSource loads a manifest from a reference (file path or URL).
type ManifestSource interface {
	Load(ctx context.Context, ref string) (*Manifest, error)
}

// linkRe matches a markdown link: [Title](URL). One manifest entry per match.
var linkRe = regexp.MustCompile(`\[([^\[\]]+)\]\((https?://[^\s()]+)\)`)

// ParseManifest extracts (title, URL) entries from line-oriented manifest
// text. Lines that carry no well-formed link are skipped and returned for
// reporting; malformed input never fails the parse. Duplicate URLs keep the
// first occurrence so entry order stays deterministic.
func ParseManifest(text string) (entries []ManifestEntry, skipped []string) {
	seen := make(map[string]bool)
	for line := range strings.Lines(text) {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		matches := linkRe.FindAllStringSubmatch(trimmed, -1)
		if len(matches) == 0 {
			skipped = append(skipped, trimmed)
			continue
		}

		for _, m := range matches {
			title := strings.TrimSpace(m[1])
			rawURL := m[2]
			if _, err := url.ParseRequestURI(rawURL); err != nil {
				skipped = append(skipped, trimmed)
				continue
			}
			if seen[rawURL] {
				continue
			}
			seen[rawURL] = true
			entries = append(entries, ManifestEntry{Title: title, URL: rawURL})
		}
	}
	return entries, skipped
}
